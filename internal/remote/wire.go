package remote

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
	"github.com/shopspring/decimal"
)

// number encodes a decimal as a bare JSON number regardless of
// decimal.MarshalJSONWithoutQuotes.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

// wireRequest is the request body the calculation endpoint expects.
type wireRequest struct {
	GrossIncome                   number               `json:"gross_income"`
	PensionContributionPercentage number               `json:"pension_contribution_percentage"`
	LumpSumPercentage             number               `json:"lump_sum_percentage"`
	HousingCosts                  number               `json:"housing_costs"`
	ChildrenCount                 int                  `json:"children_count"`
	MaritalStatus                 domain.MaritalStatus `json:"marital_status"`
	Age                           *int                 `json:"age,omitempty"`
}

func newWireRequest(req domain.ScenarioRequest) wireRequest {
	return wireRequest{
		GrossIncome:                   number(req.GrossIncome),
		PensionContributionPercentage: number(req.PensionContributionPercentage),
		LumpSumPercentage:             number(req.LumpSumPercentage),
		HousingCosts:                  number(req.HousingCosts),
		ChildrenCount:                 req.ChildrenCount,
		MaritalStatus:                 req.MaritalStatus,
		Age:                           req.Age,
	}
}

// errorBody is the validation error shape returned with 4xx statuses.
type errorBody struct {
	Code   string `json:"code"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
