package tui

import (
	"github.com/rgehrsitz/rpnl/internal/domain"
)

// Field identifies an adjustable request parameter.
type Field int

const (
	FieldGrossIncome Field = iota
	FieldPensionPercentage
	FieldLumpSum
	FieldAge
	FieldHousingCosts
	FieldChildren
	FieldMaritalStatus
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldGrossIncome:
		return "Gross income"
	case FieldPensionPercentage:
		return "Pension contribution"
	case FieldLumpSum:
		return "Lump sum"
	case FieldAge:
		return "Age"
	case FieldHousingCosts:
		return "Housing costs"
	case FieldChildren:
		return "Children"
	case FieldMaritalStatus:
		return "Marital status"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// CalculationCompleteMsg carries the result for the request with sequence Seq.
// Results for superseded requests are dropped.
type CalculationCompleteMsg struct {
	Seq     int
	Request domain.ScenarioRequest
	Result  *domain.ScenarioResult
	Err     error
}

// BaselineCompleteMsg carries the no-lump-sum result used for deltas.
type BaselineCompleteMsg struct {
	Seq    int
	Result *domain.ScenarioResult
	Err    error
}
