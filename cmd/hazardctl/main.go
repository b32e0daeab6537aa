// hazardctl is a small operator CLI for the hazard intake service. It talks
// to the service's HTTP API; it never touches the stores directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hazardctl",
	Short: "Operate the hazard intake service",
	Long: `hazardctl submits hazard reports and manages the hazard list through
the intake service HTTP API.

Examples:
  hazardctl report --text "зафиксируй дтп на мосту" --lat 43.23 --lon 76.88
  hazardctl list
  hazardctl delete local-5f3a... --as admin@smartcity.kz
  hazardctl clear --as admin@smartcity.kz`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("server", "http://127.0.0.1:8080", "base URL of the intake service")
	rootCmd.PersistentFlags().String("as", "", "email to act as (deletion requires the administrator account)")

	reportCmd.Flags().String("text", "", "voice transcript to submit")
	reportCmd.Flags().Float64("lat", 0, "latitude of the report")
	reportCmd.Flags().Float64("lon", 0, "longitude of the report")
	_ = reportCmd.MarkFlagRequired("text")

	rootCmd.AddCommand(reportCmd, listCmd, deleteCmd, clearCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
