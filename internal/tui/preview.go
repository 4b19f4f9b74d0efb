package tui

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// Preview compares the lump sum a user asked for with what the engine
// applied. Before the eligibility age the engine applies nothing; the
// explorer still shows what the selector would withdraw.
type Preview struct {
	Active         bool
	Requested      decimal.Decimal
	Effective      decimal.Decimal
	EligibilityAge int
	YearsToGo      int
}

// ComputePreview derives the preview state from a request and its result.
func ComputePreview(req domain.ScenarioRequest, res *domain.ScenarioResult) Preview {
	if res == nil {
		return Preview{}
	}
	p := Preview{
		Requested:      domain.RoundCurrency(req.LumpSumFraction().Of(res.LumpSum.AnnualPension)),
		Effective:      res.LumpSumAmount,
		EligibilityAge: res.LumpSum.EligibilityAge,
	}
	age := req.EffectiveAge()
	if req.LumpSumPercentage.IsPositive() && age < p.EligibilityAge {
		p.Active = true
		p.YearsToGo = p.EligibilityAge - age
	}
	return p
}
