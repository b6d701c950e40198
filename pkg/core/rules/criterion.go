package rules

import "github.com/servicodocente/dsd/pkg/core/model"

// Rule names
const (
	RuleNoSchedule       = "NoSchedule"
	RuleBlockGranularity = "BlockGranularity"
	RuleTeachingMinutes  = "TeachingMinutes"
	RuleStudyTime        = "StudyTime"
	RuleShiftCount       = "ShiftCount"
)

// Action is the direction of a suggested correction
type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionNone   Action = "none"
)

// Correction is the arithmetic delta that would reconcile a finding with the rules
type Correction struct {
	Action  Action `json:"action"`
	Minutes int    `json:"minutes"`
	Text    string `json:"text"`
}

// Finding is a single rule outcome for a teacher
type Finding struct {
	Rule       string     `json:"rule"`
	Message    string     `json:"message"`
	Correction Correction `json:"correction"`

	// Informational findings are advice only and never count as violations
	Informational bool `json:"informational,omitempty"`
}

// Evaluation is the input every criterion reads for one teacher
type Evaluation struct {
	Teacher   model.Teacher
	Aggregate *Aggregate
	Classes   map[string]model.ClassGroup
}

// Criterion is one workload rule
type Criterion interface {
	// Name returns the rule name attached to the criterion's findings
	Name() string

	// Evaluate returns the findings of this rule for the teacher (empty if compliant)
	Evaluate(ev *Evaluation) []Finding
}

func addCorrection(minutes int, text string) Correction {
	return Correction{Action: ActionAdd, Minutes: minutes, Text: text}
}

func removeCorrection(minutes int, text string) Correction {
	return Correction{Action: ActionRemove, Minutes: minutes, Text: text}
}
