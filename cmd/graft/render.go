package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/graft/internal/cli"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <tree> [update...]",
	Short: "Render a tree into an in-memory host and print the result",
	Long: `Loads the tree file and commits it into a fresh container. Every further file is
committed into the same container as an update, so the printed result is the host
state after the last commit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		watch, _ := cmd.Flags().GetBool("watch")
		strict, _ := cmd.Flags().GetBool("strict")
		noColor, _ := cmd.Flags().GetBool("no-color")
		debug, _ := cmd.Flags().GetBool("debug")

		opts := cli.RenderOptions{
			Files:  args,
			Format: format,
			Debug:  debug,
			Strict: strict,
			Color:  !noColor && isTerminal(),
		}

		if watch {
			shutdown := cli.OnSignal(cmd.Context())
			defer shutdown.Stop()
			return cli.RunWatch(shutdown, opts, os.Stdout)
		}
		return cli.Render(cmd.Context(), opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("format", "f", cli.FormatOutline, fmt.Sprintf("Output format: %s", strings.Join(cli.Formats, ", ")))
	renderCmd.Flags().BoolP("watch", "w", false, "Re-render the last file whenever it changes")
	renderCmd.Flags().Bool("strict", false, "Reject event handler names that are not registered")
	renderCmd.Flags().Bool("no-color", false, "Disable terminal styling")
}
