package main

import (
	"os"

	"github.com/stationeryhub/internal/client"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"

	"github.com/spf13/cobra"
)

var (
	baseURL    string
	adminToken string
	jsonOutput bool
	backendCfg config.BackendConfig
)

var rootCmd = &cobra.Command{
	Use:           "storectl",
	Short:         "StationeryHub backend command line client",
	Long:          `storectl talks to a StationeryHub backend through its legacy REST contract (/product/*, /admin/*, /upload).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
		backendCfg = cfg.Backend
		if !cmd.Flags().Changed("base-url") && baseURL == "" {
			baseURL = cfg.Backend.BaseURL
		}
		if adminToken == "" {
			adminToken = os.Getenv("STORECTL_TOKEN")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (default backend.base_url)")
	rootCmd.PersistentFlags().StringVar(&adminToken, "token", "", "admin bearer token (default $STORECTL_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print raw JSON")

	rootCmd.AddCommand(probeCmd, watchCmd, loginCmd, productsCmd, ordersCmd)
}

func newClient() *client.Client {
	cfg := backendCfg
	cfg.BaseURL = baseURL
	return client.NewFromConfig(cfg, client.WithToken(adminToken))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
