// Package cli implements the report-cli commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	libconfig "fcreport/backend/libs/config"
	"fcreport/backend/services/report-service/internal/config"
)

// NewRootCmd builds the report-cli command tree.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:           "report-cli",
		Short:         "Build FC daily charging reports from session exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", os.Getenv(libconfig.PathEnv),
		"Path to the YAML config file")

	load := func() (*config.Config, error) {
		return config.LoadFile(cfgPath)
	}

	root.AddCommand(
		NewDatesCmd(load),
		NewSummaryCmd(load),
		NewGenerateCmd(load),
		NewServeCmd(load),
		NewTokenCmd(load),
	)
	return root
}

type configLoader func() (*config.Config, error)
