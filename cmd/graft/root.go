package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Graft commits abstract UI trees into a host tree",
	Long: `Graft is the host adapter of a retained-mode UI reconciler. It turns abstract
trees written in YAML or JSON into host instances, applies the mutations of every
update in one commit and reports what was committed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("config-dir")
		loaded, err := config.Load(dir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			cfg.Log.Level = "debug"
		}
		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config-dir", ".", "Directory holding an optional .env file")
	rootCmd.PersistentFlags().Bool("debug", false, "Log every commit to stderr")
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
