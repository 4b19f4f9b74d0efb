package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/config"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/remote"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Setting keys. Each is also read from RPNL_<KEY>.
const (
	keyTaxYearConfig = "tax_year_config"
	keyRemoteURL     = "remote_url"
	keyDebug         = "debug"
	keyFormat        = "format"
)

// app carries the settings shared by every command.
type app struct {
	v *viper.Viper
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("RPNL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	root := &cobra.Command{
		Use:   "rpnl",
		Short: "Dutch pension scenario calculator",
		Long: "Calculates net income for a pension scenario: progressive income tax, " +
			"AOW/WW premiums, the lump-sum (bedrag ineens) withdrawal and the " +
			"income-dependent benefits it can push you out of.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("tax-year-config", "", "Tax-year table (YAML/JSON); the embedded 2025 table when empty")
	pf.String("remote", "", "Base URL of a calculation service to use instead of the local engine")
	pf.Bool("debug", false, "Enable debug logging to stderr")
	_ = a.v.BindPFlag(keyTaxYearConfig, pf.Lookup("tax-year-config"))
	_ = a.v.BindPFlag(keyRemoteURL, pf.Lookup("remote"))
	_ = a.v.BindPFlag(keyDebug, pf.Lookup("debug"))

	root.AddCommand(
		a.calculateCmd(),
		a.traceCmd(),
		a.compareCmd(),
		a.headroomCmd(),
		a.planCmd(),
		a.thresholdsCmd(),
		a.rulesCmd(),
		a.validateConfigCmd(),
		a.validateCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rpnl %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Version
	}
	return ""
}

// format returns the --format flag, falling back to RPNL_FORMAT when the
// flag was not given.
func (a *app) format(cmd *cobra.Command) string {
	flag := cmd.Flags().Lookup("format")
	if flag == nil {
		return a.v.GetString(keyFormat)
	}
	if !flag.Changed && a.v.IsSet(keyFormat) {
		return a.v.GetString(keyFormat)
	}
	return flag.Value.String()
}

// taxYear loads the configured table or the embedded default.
func (a *app) taxYear() (*domain.TaxYearConfig, error) {
	cfg, err := config.Resolve(a.v.GetString(keyTaxYearConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to load tax-year table: %w", err)
	}
	return cfg, nil
}

// engine builds the local engine with the CLI logger attached.
func (a *app) engine(cmd *cobra.Command) (*calculation.Engine, error) {
	cfg, err := a.taxYear()
	if err != nil {
		return nil, err
	}
	e := calculation.NewEngine(cfg)
	e.SetLogger(newLogger(cmd.ErrOrStderr(), a.v.GetBool(keyDebug)))
	return e, nil
}

// calculator returns the remote client when a service URL is configured,
// the local engine otherwise.
func (a *app) calculator(cmd *cobra.Command) (calculation.Calculator, *domain.TaxYearConfig, error) {
	e, err := a.engine(cmd)
	if err != nil {
		return nil, nil, err
	}
	if url := a.v.GetString(keyRemoteURL); url != "" {
		e.Logger.Debugf("using calculation service at %s", url)
		return remote.NewClient(url, e.TaxYear()), e.TaxYear(), nil
	}
	return e, e.TaxYear(), nil
}

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input (2) and configuration (3) from other failures.
func exitCode(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeInvalidInput:
		return 2
	case domain.CodeConfiguration:
		return 3
	case domain.CodeUpstreamUnavailable:
		return 4
	}
	return 1
}
