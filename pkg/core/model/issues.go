package model

import "fmt"

// IssueKind classifies a data-quality problem in the input tables
type IssueKind string

const (
	IssueMalformedTime   IssueKind = "malformed_time"
	IssueInvalidInterval IssueKind = "invalid_interval"
	IssueUnknownCategory IssueKind = "unknown_category"
	IssueUnknownTeacher  IssueKind = "unknown_teacher"
	IssueUnknownClass    IssueKind = "unknown_class"
	IssueInvalidRow      IssueKind = "invalid_row"
)

// DataIssue is a problem with the input data. Issues are reported apart from
// compliance findings and never abort an evaluation.
type DataIssue struct {
	Kind IssueKind `json:"kind"`
	// Table is the input table the row belongs to
	Table string `json:"table"`
	// Row is the row number in the source table, 0 when unknown
	Row int `json:"row,omitempty"`
	// Ref identifies the affected record, e.g. a teacher ID
	Ref    string `json:"ref,omitempty"`
	Detail string `json:"detail"`
}

func (i DataIssue) String() string {
	location := i.Table
	if i.Row > 0 {
		location = fmt.Sprintf("%s:%d", i.Table, i.Row)
	}
	if i.Ref != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", i.Kind, location, i.Ref, i.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Kind, location, i.Detail)
}

// UnknownReferenceError is a row pointing at a teacher or class that does not exist
type UnknownReferenceError struct {
	// Entity is "teacher" or "class"
	Entity string
	ID     string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Entity, e.ID)
}

// Kind maps the error to its data issue kind
func (e *UnknownReferenceError) Kind() IssueKind {
	if e.Entity == "class" {
		return IssueUnknownClass
	}
	return IssueUnknownTeacher
}
