package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/routekpi/infra/scenarioapi"
)

var mockAddr string

var mockCmd = &cobra.Command{
	Use:   "mock-upstream",
	Short: "Serve synthesized scenario summaries for local runs",
	RunE:  runMock,
}

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", "", "listen address, overrides mock.address")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mc := cfg.Mock
	if mockAddr != "" {
		mc.Address = mockAddr
	}
	return scenarioapi.NewServerMock(mc).Start(ctx)
}
