package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/remote"
	"github.com/rgehrsitz/rpnl/internal/tui"
)

func newRootCmd() *cobra.Command {
	var taxYearPath, remoteURL string

	cmd := &cobra.Command{
		Use:   "rpnl-tui [request-file]",
		Short: "Interactive pension scenario explorer",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taxYear, err := config.Resolve(taxYearPath)
			if err != nil {
				return err
			}

			req := tui.DefaultRequest()
			if len(args) == 1 {
				loaded, err := config.NewInputParser().LoadRequestFile(args[0])
				if err != nil {
					return err
				}
				req = *loaded
			}

			var calc calculation.Calculator = calculation.NewEngine(taxYear)
			if remoteURL != "" {
				calc = remote.NewClient(remoteURL, taxYear)
			}

			p := tea.NewProgram(tui.NewModel(calc, taxYear, req), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&taxYearPath, "tax-year-config", "", "Tax-year table (YAML/JSON); the embedded 2025 table when empty")
	cmd.Flags().StringVar(&remoteURL, "remote", "", "Base URL of a calculation service")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
