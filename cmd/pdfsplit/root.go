package main

import (
	"github.com/spf13/cobra"

	"github.com/jadabouassaly/PDF-Splitting/internal/api"
	"github.com/jadabouassaly/PDF-Splitting/internal/server/endpoints"
	"github.com/jadabouassaly/PDF-Splitting/version"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
)

var rootCmd = &cobra.Command{
	Use:   "pdfsplit",
	Short: "Split call list and group list PDFs into per-depot documents",
	Long: `pdfsplit splits multi-page PDF reports into one document per
classification key and packs the results into a zip.

Two tools are available:
  - call-list:  groups pages by the 4-digit Depot ID; pages without a
    match are attached to the previous depot's document
  - group-list: groups pages by the Shipping Point code (3 digits + V);
    pages without a match are ignored`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdfsplit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://127.0.0.1:8080", "pdfsplit server URL for api commands",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)

	// Commands that call the running server, one per endpoint.
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}
	rootCmd.AddCommand(registry.BuildCommands(func() string { return serverURL }))
}
