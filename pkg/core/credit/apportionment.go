package credit

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
	"github.com/shopspring/decimal"

	"github.com/servicodocente/dsd/pkg/core/model"
)

// ApportionmentPolicy decides how many credit hours a class-director duty without
// an explicit imputation draws from the credit budget.
//
// The legal rule is more nuanced than any single formula; every policy here is an
// approximation and reports are labelled as such.
type ApportionmentPolicy interface {
	Name() string
	CreditHours(assignment model.RoleAssignment) (decimal.Decimal, error)
}

// FlatShare imputes a fixed share of the duty hours to the credit budget
type FlatShare struct {
	Share decimal.Decimal
}

// DefaultApportionment imputes half of the class-director hours
func DefaultApportionment() FlatShare {
	return FlatShare{Share: decimal.NewFromFloat(0.5)}
}

func (p FlatShare) Name() string {
	return fmt.Sprintf("flat %s%%", p.Share.Mul(decimal.NewFromInt(100)).String())
}

func (p FlatShare) CreditHours(assignment model.RoleAssignment) (decimal.Decimal, error) {
	return minutesToHours(assignment.WeeklyMinutes).Mul(p.Share), nil
}

// FormulaPolicy evaluates a configured expression over the duty time.
// The expression sees "horas" (weekly hours) and "minutos" (weekly minutes),
// e.g. "horas >= 4 ? 2 : horas * 0.5".
type FormulaPolicy struct {
	source     string
	expression *govaluate.EvaluableExpression
}

// NewFormulaPolicy compiles the formula and checks it yields a number
func NewFormulaPolicy(formula string) (*FormulaPolicy, error) {
	expression, err := govaluate.NewEvaluableExpression(formula)
	if err != nil {
		return nil, fmt.Errorf("invalid apportionment formula %q: %w", formula, err)
	}

	policy := &FormulaPolicy{source: formula, expression: expression}

	// Dry run with a typical 4h class-director duty
	if _, err := policy.CreditHours(model.RoleAssignment{DutyType: model.DutyClassDirector, WeeklyMinutes: 240}); err != nil {
		return nil, err
	}

	return policy, nil
}

func (p *FormulaPolicy) Name() string {
	return "formula " + p.source
}

func (p *FormulaPolicy) CreditHours(assignment model.RoleAssignment) (decimal.Decimal, error) {
	parameters := map[string]interface{}{
		"horas":   float64(assignment.WeeklyMinutes) / 60.0,
		"minutos": float64(assignment.WeeklyMinutes),
	}

	result, err := p.expression.Evaluate(parameters)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to evaluate apportionment formula %q: %w", p.source, err)
	}

	hours, ok := result.(float64)
	if !ok {
		return decimal.Zero, fmt.Errorf("apportionment formula %q returned %T, not a number", p.source, result)
	}
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return decimal.Zero, fmt.Errorf("apportionment formula %q returned %v", p.source, hours)
	}
	return decimal.NewFromFloat(hours), nil
}
