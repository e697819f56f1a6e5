package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"carhaul_tracker/internal/services"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Inspect drivers",
}

var driversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drivers with their remaining capacity",
	Args:  cobra.NoArgs,
	RunE:  runDriversList,
}

var driversShowCmd = &cobra.Command{
	Use:   "show [driver-index]",
	Short: "Show one driver and the vehicles it carries",
	Args:  cobra.ExactArgs(1),
	RunE:  runDriversShow,
}

func init() {
	driversCmd.AddCommand(driversListCmd)
	driversCmd.AddCommand(driversShowCmd)
	rootCmd.AddCommand(driversCmd)
}

func runDriversList(cmd *cobra.Command, _ []string) error {
	drivers, err := fleet.Registry.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list drivers: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(drivers) == 0 {
		fmt.Fprintln(out, "No drivers.")
		return nil
	}

	for i, d := range drivers {
		c := services.ComputeCapacity(d)
		fmt.Fprintf(out, "[%d] %s  %d/%d vehicles  weight left %.2f  length left %.2f ft  $%.2f/mi\n",
			i, d.Name, c.Loaded, c.VehicleCapacity, c.RemainingWeight, c.DisplayLength(), c.DisplayRate())
	}
	fmt.Fprintf(out, "\nTotal: %d drivers\n", len(drivers))
	return nil
}

func runDriversShow(cmd *cobra.Command, args []string) error {
	index, err := parseIndex("driver", args[0])
	if err != nil {
		return err
	}

	d, err := fleet.Registry.Get(cmd.Context(), index)
	if err != nil {
		return fmt.Errorf("failed to get driver: %w", err)
	}
	c := services.ComputeCapacity(d)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Driver: %s\n\n", d.Name)
	fmt.Fprintf(out, "  ID:               %s\n", d.ID)
	fmt.Fprintf(out, "  Vehicles:         %d/%d\n", c.Loaded, c.VehicleCapacity)
	fmt.Fprintf(out, "  Remaining weight: %.2f\n", c.RemainingWeight)
	fmt.Fprintf(out, "  Remaining length: %.2f ft\n", c.DisplayLength())
	fmt.Fprintf(out, "  Total rate:       $%.2f/mi\n", c.DisplayRate())
	if c.Overloaded() {
		fmt.Fprintln(out, "  Warning: over budget")
	}

	if len(d.Vehicles) > 0 {
		fmt.Fprintln(out, "\n  Load:")
		for i, v := range d.Vehicles {
			fmt.Fprintf(out, "    [%d] %s  %.0f lbs  %.1f ft  %.0f mi  $%.2f/mi\n",
				i, v.MakeModelYear, v.Weight, v.Length, v.Distance, v.DollarPerMile)
		}
	}
	return nil
}

func parseIndex(what, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s index %q", what, raw)
	}
	return n, nil
}
