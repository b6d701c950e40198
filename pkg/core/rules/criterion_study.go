package rules

import "fmt"

// StudyTimeCriterion keeps the school-based non-teaching time (NLet Est.) between
// the school's minimum and the legal cap. Both bounds are always checked.
type StudyTimeCriterion struct {
	policy Policy
}

// NewStudyTimeCriterion creates a new StudyTimeCriterion
func NewStudyTimeCriterion(policy Policy) *StudyTimeCriterion {
	return &StudyTimeCriterion{policy: policy}
}

func (c *StudyTimeCriterion) Name() string {
	return RuleStudyTime
}

func (c *StudyTimeCriterion) Evaluate(ev *Evaluation) []Finding {
	study := ev.Aggregate.StudyMinutes

	var findings []Finding
	if study < c.policy.StudyTimeMinimum {
		shortfall := c.policy.StudyTimeMinimum - study
		findings = append(findings, Finding{
			Rule:       c.Name(),
			Message:    fmt.Sprintf("NLet Est. de %d min abaixo do mínimo de %d min", study, c.policy.StudyTimeMinimum),
			Correction: addCorrection(shortfall, fmt.Sprintf("Acrescentar %d min de NLet Est.", shortfall)),
		})
	}
	if study > c.policy.StudyTimeCap {
		excess := study - c.policy.StudyTimeCap
		findings = append(findings, Finding{
			Rule:       c.Name(),
			Message:    fmt.Sprintf("NLet Est. de %d min acima do máximo de %d min", study, c.policy.StudyTimeCap),
			Correction: removeCorrection(excess, fmt.Sprintf("Retirar %d min de NLet Est.", excess)),
		})
	}
	return findings
}
