package rules

import (
	"errors"

	"github.com/servicodocente/dsd/pkg/core/model"
)

// Severity is the display classification of a teacher's findings
type Severity string

const (
	SeverityOK       Severity = "ok"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Icon returns the marker shown next to the teacher in reports
func (s Severity) Icon() string {
	switch s {
	case SeverityOK:
		return "✅"
	case SeverityWarning:
		return "🟧"
	default:
		return "🟥"
	}
}

// Classify derives the severity from a teacher's findings.
// Informational findings are ignored; a teacher whose only violations are
// about NLet Est. time is a warning, anything else is critical.
func Classify(findings []Finding) Severity {
	severity := SeverityOK
	for _, f := range findings {
		if f.Informational {
			continue
		}
		if f.Rule != RuleStudyTime {
			return SeverityCritical
		}
		severity = SeverityWarning
	}
	return severity
}

// Totals are the weekly minutes of a teacher per category
type Totals struct {
	Teaching   int `json:"teachingMinutes"`
	Study      int `json:"studyMinutes"`
	Individual int `json:"individualMinutes"`
}

// Total returns the sum of all categories
func (t Totals) Total() int {
	return t.Teaching + t.Study + t.Individual
}

// TeacherResult is the outcome of evaluating one teacher
type TeacherResult struct {
	Teacher  model.Teacher `json:"teacher"`
	Severity Severity      `json:"severity"`

	// Totals is nil when the teacher has no schedule
	Totals *Totals `json:"totals,omitempty"`

	Findings []Finding `json:"findings"`
	Notes    []Finding `json:"notes,omitempty"`

	// Issues are data problems found in the teacher's blocks
	Issues []BlockIssue `json:"-"`
}

// HasSchedule reports whether the teacher owns any schedule block
func (r *TeacherResult) HasSchedule() bool {
	return r.Totals != nil
}

// DefaultCriteria returns the workload rules in their evaluation order
func DefaultCriteria(policy Policy) []Criterion {
	return []Criterion{
		NewBlockGranularityCriterion(policy),
		NewTeachingMinutesCriterion(policy),
		NewStudyTimeCriterion(policy),
		NewShiftCountCriterion(policy),
	}
}

// EvaluateCriteria runs every criterion in order and concatenates their findings.
// Evaluation never stops at the first violation.
func EvaluateCriteria(ev *Evaluation, criteria []Criterion) []Finding {
	var findings []Finding
	for _, criterion := range criteria {
		findings = append(findings, criterion.Evaluate(ev)...)
	}
	return findings
}

// Engine evaluates teachers against a fixed, ordered set of criteria
type Engine struct {
	policy   Policy
	criteria []Criterion
}

// NewEngine creates an engine with the default criteria for the policy
func NewEngine(policy Policy) *Engine {
	return &Engine{
		policy:   policy,
		criteria: DefaultCriteria(policy),
	}
}

// Policy returns the policy the engine was built with
func (e *Engine) Policy() Policy {
	return e.policy
}

// EvaluateTeacher aggregates the teacher's blocks and applies every criterion.
// The engine holds no state between calls.
func (e *Engine) EvaluateTeacher(teacher model.Teacher, blocks []model.ScheduleBlock, classes map[string]model.ClassGroup) TeacherResult {
	agg, err := AggregateSchedule(teacher.ID, blocks)
	if errors.Is(err, ErrNoSchedule) {
		return TeacherResult{
			Teacher:  teacher,
			Severity: SeverityCritical,
			Findings: []Finding{{
				Rule:       RuleNoSchedule,
				Message:    "Sem horário atribuído",
				Correction: Correction{Action: ActionNone, Text: "Atribuir horário ao docente"},
			}},
		}
	}

	ev := &Evaluation{
		Teacher:   teacher,
		Aggregate: agg,
		Classes:   classes,
	}

	result := TeacherResult{
		Teacher: teacher,
		Totals: &Totals{
			Teaching:   agg.TeachingMinutes,
			Study:      agg.StudyMinutes,
			Individual: agg.IndividualMinutes,
		},
		Findings: []Finding{},
		Issues:   agg.Issues,
	}

	for _, f := range EvaluateCriteria(ev, e.criteria) {
		if f.Informational {
			result.Notes = append(result.Notes, f)
		} else {
			result.Findings = append(result.Findings, f)
		}
	}
	result.Severity = Classify(result.Findings)

	return result
}
