// Package cli implements fleetctl, the operator command line for the fleet.
// It shares configuration and store wiring with the HTTP server.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"carhaul_tracker/internal/config"
	"carhaul_tracker/internal/logger"
	"carhaul_tracker/internal/services"
)

var (
	// fleet is opened by the root command unless a caller has set it already.
	fleet      *services.Fleet
	closeStore func() error
	cfg        *config.Config

	storeFlag   string
	dataDirFlag string
	logFileFlag string
)

var rootCmd = &cobra.Command{
	Use:   "fleetctl",
	Short: "Operate the car hauling fleet",
	Long: `fleetctl inspects drivers and the delivery archive and records deliveries
against the same store the HTTP server uses.`,
	SilenceUsage:      true,
	PersistentPreRunE: openFleet,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "store driver: json or postgres (overrides STORE_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "JSON store directory (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file (overrides LOG_FILE)")
}

// Execute runs the root command and closes the store it opened, whether or
// not the command succeeded.
func Execute(ctx context.Context) (err error) {
	defer func() {
		if cerr := closeFleet(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func openFleet(cmd *cobra.Command, _ []string) error {
	if fleet != nil {
		return nil
	}

	cfg = config.Load()
	if storeFlag != "" {
		cfg.StoreDriver = storeFlag
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if logFileFlag != "" {
		cfg.Log.File = logFileFlag
	}
	logger.Setup(cfg.Log)

	st, err := config.OpenStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	fleet = services.NewFleet(st, nil)
	closeStore = st.Close
	return nil
}

func closeFleet() error {
	if closeStore == nil {
		return nil
	}
	err := closeStore()
	fleet, closeStore, cfg = nil, nil, nil
	return err
}
