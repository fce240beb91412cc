// Package cli provides the command-line interface for analyzing tensile exports locally.
package cli

import (
	"fmt"
	"os"

	"github.com/RMahshie/modulus/internal/cli/commands"
	"github.com/RMahshie/modulus/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "1.0.0"

// NewRootCmd creates the root command. cfg supplies the flag defaults.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modulus",
		Short: "Modulus - tensile curve analysis",
		Long: `Modulus reads two-row-header CSV exports from tensile testing machines,
smooths the stress curve and fits the elastic modulus over a strain window.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log per-curve details to stderr")

	rootCmd.AddCommand(commands.NewAnalyzeCommand(cfg.Processing))
	rootCmd.AddCommand(commands.NewVersionCommand(Version))

	return rootCmd
}

// Execute loads configuration and runs the root command.
func Execute() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := NewRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
