package cmd

import (
	"github.com/spf13/cobra"

	"mortgage/internal/cli"
	"mortgage/internal/form"
	"mortgage/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the terminal calculator",
	Long: `Start the interactive terminal calculator.

Tab and shift+tab move between fields, every keystroke recomputes the
payment, esc or ctrl+c quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	if err := tui.Run(ctx, form.New()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		printError("tui", err)
		return err
	}
	return nil
}
