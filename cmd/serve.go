package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/askdocs/knowledgebase/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the askdocs HTTP server",
	Long:  `Starts the REST API for document upload, semantic search, and question answering.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svcs, err := buildServices(ctx)
		if err != nil {
			return err
		}
		defer svcs.Close()

		port := svcs.cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv := server.New(server.Config{
			Port:     port,
			AllowAll: svcs.cfg.Server.AllowAll,
		}, svcs.handler, svcs.search, svcs.qa)

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&localBackends, "local", false, "Use in-memory storage instead of S3, DynamoDB, and SNS")
	rootCmd.AddCommand(serveCmd)
}
