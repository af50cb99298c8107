package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "mortgage",
	Short: "Mortgage payment calculator",
	Long: `mortgage computes fixed-rate mortgage payments.

Commands:
  serve    - interactive web calculator (HTMX) and JSON API
  calc     - one-shot calculation on the command line
  tui      - interactive terminal calculator`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Env file loaded before reading configuration")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
