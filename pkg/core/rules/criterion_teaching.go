package rules

import "fmt"

// TeachingMinutesCriterion checks the weekly teaching component (componente letiva).
//
// Early-years groups must teach exactly the target. Every other group must stay at or
// below the ceiling, and the unused remainder below the ceiling must be smaller than
// the remainder threshold. When the remainder is compliant an informational finding
// reports how much headroom is left.
type TeachingMinutesCriterion struct {
	policy Policy
}

// NewTeachingMinutesCriterion creates a new TeachingMinutesCriterion
func NewTeachingMinutesCriterion(policy Policy) *TeachingMinutesCriterion {
	return &TeachingMinutesCriterion{policy: policy}
}

func (c *TeachingMinutesCriterion) Name() string {
	return RuleTeachingMinutes
}

func (c *TeachingMinutesCriterion) Evaluate(ev *Evaluation) []Finding {
	letiva := ev.Aggregate.TeachingMinutes
	group := ev.Teacher.RecruitmentGroup

	if c.policy.IsEarlyYears(group) {
		return c.evaluateTarget(letiva, c.target(c.policy.EarlyYearsTeachingTarget, ev), group)
	}
	return c.evaluateCeiling(letiva, c.target(c.policy.TeachingCeiling, ev))
}

// target applies the Art. 79 reduction when the policy asks for it
func (c *TeachingMinutesCriterion) target(base int, ev *Evaluation) int {
	if !c.policy.ApplyReduction {
		return base
	}
	return max(base-ev.Teacher.ReductionMinutes, 0)
}

func (c *TeachingMinutesCriterion) evaluateTarget(letiva, target int, group string) []Finding {
	delta := target - letiva
	if delta == 0 {
		return nil
	}

	finding := Finding{
		Rule: c.Name(),
		Message: fmt.Sprintf("Componente letiva de %s difere do alvo de %s (grupo %s)",
			FormatMinutes(letiva), FormatMinutes(target), group),
	}
	if delta > 0 {
		finding.Correction = addCorrection(delta, fmt.Sprintf("Acrescentar %d min de componente letiva", delta))
	} else {
		finding.Correction = removeCorrection(-delta, fmt.Sprintf("Retirar %d min de componente letiva", -delta))
	}
	return []Finding{finding}
}

func (c *TeachingMinutesCriterion) evaluateCeiling(letiva, ceiling int) []Finding {
	if letiva > ceiling {
		excess := letiva - ceiling
		return []Finding{{
			Rule: c.Name(),
			Message: fmt.Sprintf("Componente letiva de %s excede o máximo de %s",
				FormatMinutes(letiva), FormatMinutes(ceiling)),
			Correction: removeCorrection(excess, fmt.Sprintf("Retirar %d min de componente letiva", excess)),
		}}
	}

	remainder := ceiling - letiva
	allowance := c.policy.RemainderAllowance()

	if remainder >= c.policy.RemainderThreshold {
		missing := remainder - allowance
		return []Finding{{
			Rule: c.Name(),
			Message: fmt.Sprintf("Remanescente de %d min até ao máximo de %s (deve ser inferior a %d min)",
				remainder, FormatMinutes(ceiling), c.policy.RemainderThreshold),
			Correction: addCorrection(missing, fmt.Sprintf("Acrescentar %d min de componente letiva", missing)),
		}}
	}

	headroom := allowance - remainder
	return []Finding{{
		Rule:    c.Name(),
		Message: fmt.Sprintf("Remanescente de %d min até ao máximo de %s", remainder, FormatMinutes(ceiling)),
		Correction: Correction{
			Action:  ActionNone,
			Minutes: headroom,
			Text:    fmt.Sprintf("Ainda pode retirar %d min antes de o remanescente atingir %d min", headroom, c.policy.RemainderThreshold),
		},
		Informational: true,
	}}
}
