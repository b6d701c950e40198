package rules

import (
	"fmt"
	"strings"
)

// ShiftCountCriterion limits the number of shifts (turnos) per day.
// All offending days are combined into a single finding.
type ShiftCountCriterion struct {
	policy Policy
}

// NewShiftCountCriterion creates a new ShiftCountCriterion
func NewShiftCountCriterion(policy Policy) *ShiftCountCriterion {
	return &ShiftCountCriterion{policy: policy}
}

func (c *ShiftCountCriterion) Name() string {
	return RuleShiftCount
}

func (c *ShiftCountCriterion) Evaluate(ev *Evaluation) []Finding {
	maxShifts := c.policy.MaxShiftsPerDay
	violations := ShiftViolations(ev.Aggregate.PerDay, c.policy.ShiftGapThreshold, maxShifts)
	if len(violations) == 0 {
		return nil
	}

	days := make([]string, len(violations))
	for i, v := range violations {
		days[i] = fmt.Sprintf("%s: %d turnos (>%d)", v.Day, v.Shifts, maxShifts)
	}

	return []Finding{{
		Rule:    c.Name(),
		Message: fmt.Sprintf("Mais de %d turnos em: %s", maxShifts, strings.Join(days, ", ")),
		Correction: Correction{
			Action: ActionNone,
			Text:   fmt.Sprintf("Reorganizar o horário para no máximo %d turnos por dia", maxShifts),
		},
	}}
}
