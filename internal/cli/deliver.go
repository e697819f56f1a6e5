package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var deliverCmd = &cobra.Command{
	Use:   "deliver [driver-index] [vehicle-index]",
	Short: "Mark a vehicle as delivered",
	Long:  `Moves the vehicle from the driver's load into the delivery archive, stamped with the current time.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runDeliver,
}

func init() {
	rootCmd.AddCommand(deliverCmd)
}

func runDeliver(cmd *cobra.Command, args []string) error {
	driverIndex, err := parseIndex("driver", args[0])
	if err != nil {
		return err
	}
	vehicleIndex, err := parseIndex("vehicle", args[1])
	if err != nil {
		return err
	}

	v, err := fleet.Delivery.Deliver(cmd.Context(), driverIndex, vehicleIndex)
	if err != nil {
		return fmt.Errorf("failed to deliver vehicle: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Delivered %s (%s) at %s\n",
		v.MakeModelYear, v.ID, v.DeliveredAt.Format(time.RFC3339))
	return nil
}
