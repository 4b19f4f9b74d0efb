// Package tui is an interactive scenario explorer: sliders over the request
// fields, recalculated through a calculation.Calculator on every change.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/rpnl/internal/calculation"
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/rgehrsitz/rpnl/internal/transform"
	"github.com/rgehrsitz/rpnl/internal/tui/components"
)

// CalculationTimeout bounds each recalculation; it matters for remote calculators.
const CalculationTimeout = 5 * time.Second

// Model represents the entire application state
type Model struct {
	// Terminal dimensions
	width  int
	height int

	calc    calculation.Calculator
	taxYear *domain.TaxYearConfig

	initial domain.ScenarioRequest
	sliders [FieldMaritalStatus]*components.ParameterSlider
	marital domain.MaritalStatus
	focus   Field

	// seq increases with every request; stale results are ignored.
	seq      int
	result   *domain.ScenarioResult
	request  domain.ScenarioRequest
	baseline *domain.ScenarioResult

	showTrace bool
	keys      KeyMap
	help      help.Model

	loading bool
	err     error
}

// DefaultRequest is the starting point when no request file is given.
func DefaultRequest() domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   decimal.NewFromInt(50000),
		PensionContributionPercentage: decimal.NewFromInt(5),
		LumpSumPercentage:             decimal.Zero,
		HousingCosts:                  decimal.NewFromInt(400),
		MaritalStatus:                 domain.MaritalSingle,
	}.WithAge(domain.DefaultAge)
}

// NewModel creates the explorer over calc, starting from req.
func NewModel(calc calculation.Calculator, taxYear *domain.TaxYearConfig, req domain.ScenarioRequest) Model {
	if !req.MaritalStatus.Valid() {
		req.MaritalStatus = domain.MaritalSingle
	}
	m := Model{
		width:   100,
		height:  30,
		calc:    calc,
		taxYear: taxYear,
		initial: req,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		loading: true,
	}
	m.setRequest(req)
	return m
}

func (m *Model) setRequest(req domain.ScenarioRequest) {
	d := decimal.NewFromInt
	m.sliders = [FieldMaritalStatus]*components.ParameterSlider{
		FieldGrossIncome: components.NewParameterSlider("Gross income", req.GrossIncome, d(0), d(250000), d(1000)).
			WithPrefix("€"),
		FieldPensionPercentage: components.NewParameterSlider("Pension contribution", req.PensionContributionPercentage, d(0), d(100), decimal.RequireFromString("0.5")).
			WithUnit("%").WithPlaces(1),
		FieldLumpSum: components.NewParameterSlider("Lump sum", req.LumpSumPercentage, d(0), d(domain.LumpSumSelectorMax), d(1)).
			WithUnit("/10").WithDescription("share of the annual pension withdrawn at once"),
		FieldAge: components.NewParameterSlider("Age", d(int64(req.EffectiveAge())), d(18), d(100), d(1)),
		FieldHousingCosts: components.NewParameterSlider("Housing costs", req.HousingCosts, d(0), d(3000), d(25)).
			WithPrefix("€").WithUnit("/month"),
		FieldChildren: components.NewParameterSlider("Children", d(int64(req.ChildrenCount)), d(0), d(domain.MaxChildren), d(1)),
	}
	m.marital = req.MaritalStatus
	m.focusField(m.focus)
}

func (m *Model) focusField(f Field) {
	m.focus = f
	for i, s := range m.sliders {
		s.SetFocused(Field(i) == f)
	}
}

// Request builds the scenario request from the current controls.
func (m Model) Request() domain.ScenarioRequest {
	return domain.ScenarioRequest{
		GrossIncome:                   m.sliders[FieldGrossIncome].Value,
		PensionContributionPercentage: m.sliders[FieldPensionPercentage].Value,
		LumpSumPercentage:             m.sliders[FieldLumpSum].Value,
		HousingCosts:                  m.sliders[FieldHousingCosts].Value,
		ChildrenCount:                 m.sliders[FieldChildren].Int(),
		MaritalStatus:                 m.marital,
	}.WithAge(m.sliders[FieldAge].Int())
}

// Result returns the latest calculation, nil before the first one completes.
func (m Model) Result() *domain.ScenarioResult { return m.result }

// Err returns the error from the latest calculation.
func (m Model) Err() error { return m.err }

// Focus returns the focused field.
func (m Model) Focus() Field { return m.focus }

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return m.calculateCmds()
}

// recalculate starts a new request sequence for the current controls.
func (m *Model) recalculate() tea.Cmd {
	m.seq++
	m.loading = true
	return m.calculateCmds()
}

// calculateCmds issues the current request and its no-lump-sum baseline.
func (m Model) calculateCmds() tea.Cmd {
	req := m.Request()
	baseline, err := transform.ApplyTransforms(req, []transform.ScenarioTransform{&transform.SetLumpSum{Selector: decimal.Zero}})
	if err != nil {
		baseline = req
	}
	return tea.Batch(
		calculateCmd(m.calc, m.seq, req),
		baselineCmd(m.calc, m.seq, baseline),
	)
}

// calculateCmd returns a command that calculates a scenario
func calculateCmd(calc calculation.Calculator, seq int, req domain.ScenarioRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CalculationTimeout)
		defer cancel()
		res, err := calc.Calculate(ctx, req)
		return CalculationCompleteMsg{Seq: seq, Request: req, Result: res, Err: err}
	}
}

func baselineCmd(calc calculation.Calculator, seq int, req domain.ScenarioRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), CalculationTimeout)
		defer cancel()
		res, err := calc.Calculate(ctx, req)
		return BaselineCompleteMsg{Seq: seq, Result: res, Err: err}
	}
}
