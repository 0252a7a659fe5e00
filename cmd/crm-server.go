package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tripdeskhq/tripdesk/internal/api"
	"github.com/tripdeskhq/tripdesk/internal/config"
	"github.com/tripdeskhq/tripdesk/internal/telemetry"
)

var crmServerCmd = &cobra.Command{
	Use:   "crm-server",
	Short: "Start CRM Server",
	Run: func(cmd *cobra.Command, args []string) {
		conf := config.ReadConfig()

		shutdownTelemetry := telemetry.NewProvider(conf.OTEL_EXPORTER_OTLP_ENDPOINT)
		defer shutdownTelemetry()

		s := api.New()
		s.Start()
	},
}

// Register the "crm-server" command
func init() {
	rootCmd.AddCommand(crmServerCmd)
}
