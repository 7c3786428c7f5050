package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete embeddings whose source document no longer exists",
	Long: `Scans the embedding store and removes every chunk whose document has
been deleted from the metadata store. Deletes between a document removal and
the next sweep leave orphaned chunks behind; this reconciles them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		svcs, err := buildServices(ctx)
		if err != nil {
			return err
		}
		defer svcs.Close()

		report, err := svcs.sweeper.SweepOrphans(ctx)
		if err != nil {
			return fmt.Errorf("sweeping orphaned embeddings: %w", err)
		}

		fmt.Printf("Scanned %d embeddings, deleted %d orphans", report.TotalScanned, report.OrphansDeleted)
		if report.DeleteFailures > 0 {
			fmt.Printf(" (%d deletes failed)", report.DeleteFailures)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
