package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routekpi/api/scenarios"
	"github.com/kilianp07/routekpi/app"
	"github.com/kilianp07/routekpi/core/resilience"
	"github.com/kilianp07/routekpi/infra/logger"
	"github.com/kilianp07/routekpi/pkg/export"
)

var cmpFormat string

var compareCmd = &cobra.Command{
	Use:   "compare <name>...",
	Short: "Resolve scenario summaries and print the comparison",
	Args:  cobra.MinimumNArgs(1),
	RunE:  compareScenarios,
}

func init() {
	compareCmd.Flags().StringVarP(&cmpFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(compareCmd)
}

func compareScenarios(cmd *cobra.Command, args []string) error {
	if cmpFormat != "json" && cmpFormat != "csv" {
		return fmt.Errorf("unknown format %q", cmpFormat)
	}
	names := resilience.CleanNames(args)
	if len(names) == 0 {
		return errors.New("at least one non-blank scenario name is required")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("compare-command").Errorf("service close: %v", err)
		}
	}()

	batch, err := svc.Resolver.ResolveBatch(cmd.Context(), names)
	if err != nil {
		return err
	}
	if cmpFormat == "csv" {
		return export.WriteDetailedCSV(cmd.OutOrStdout(), batch.Scenarios)
	}
	return export.WriteJSON(cmd.OutOrStdout(), scenarios.NewCompareResponse(batch))
}
