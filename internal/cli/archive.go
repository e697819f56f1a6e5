package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect delivered vehicles",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List delivered vehicles in delivery order",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	archive, err := fleet.Delivery.ListArchive(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(archive) == 0 {
		fmt.Fprintln(out, "No delivered vehicles.")
		return nil
	}

	for _, v := range archive {
		delivered := "unknown"
		if v.DeliveredAt != nil {
			delivered = v.DeliveredAt.Format(time.DateTime)
		}
		fmt.Fprintf(out, "%s  %s  delivered %s\n", v.ID, v.MakeModelYear, delivered)
	}
	fmt.Fprintf(out, "\nTotal: %d delivered\n", len(archive))
	return nil
}
