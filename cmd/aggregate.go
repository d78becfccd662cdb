package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routekpi/core/aggregate"
	"github.com/kilianp07/routekpi/core/tabular"
	"github.com/kilianp07/routekpi/pkg/export"
)

var (
	aggCurrent string
	aggFormat  string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <file|->",
	Short: "Compute per-scenario vehicle averages from a tabular export",
	Args:  cobra.ExactArgs(1),
	RunE:  aggregateFile,
}

func init() {
	aggregateCmd.Flags().StringVar(&aggCurrent, "current", "", "scenario id flagged as current")
	aggregateCmd.Flags().StringVarP(&aggFormat, "format", "f", "json", "output format: json or csv")
	rootCmd.AddCommand(aggregateCmd)
}

func aggregateFile(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	metrics := aggregate.Aggregate(tabular.Parse(string(data)).Records, aggCurrent)
	switch aggFormat {
	case "csv":
		return export.WriteScenarioCSV(cmd.OutOrStdout(), metrics)
	case "json":
		return export.WriteJSON(cmd.OutOrStdout(), metrics)
	default:
		return fmt.Errorf("unknown format %q", aggFormat)
	}
}
