package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/askdocs/knowledgebase/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document search, question answering, and listing tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svcs, err := buildServices(context.Background())
		if err != nil {
			return err
		}
		defer svcs.Close()

		mcpserver.Version = Version

		// Stdout carries the MCP protocol; status goes to stderr.
		fmt.Fprintln(os.Stderr, "askdocs MCP server started on stdio")

		srv := mcpserver.NewServer(svcs.search, svcs.qa, svcs.docs)
		return srv.Serve()
	},
}

func init() {
	mcpCmd.Flags().BoolVar(&localBackends, "local", false, "Use in-memory storage instead of S3, DynamoDB, and SNS")
	rootCmd.AddCommand(mcpCmd)
}
