package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmehdipour/sms-admin/cmd/worker"
	"github.com/jmehdipour/sms-admin/internal/config"
	"github.com/jmehdipour/sms-admin/internal/logger"
)

var (
	cfgPath string
	rootCmd = &cobra.Command{
		Use:           "sms-admin",
		Short:         "SMS admin dashboard CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	syncLogs = logger.Sync
)

func Execute() {
	os.Exit(run(os.Stderr))
}

// run executes the root command and flushes the logger before the exit
// code is returned; os.Exit skips deferred calls.
func run(stderr io.Writer) int {
	defer syncLogs()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(worker.NewWorkerCmd())
}

// loadConfig reads the config and initializes the global logger from it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)
	return cfg, nil
}
