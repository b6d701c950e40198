package db

import "context"

// Reader reads the input tables of an evaluation.
// The SheetsSQL-backed db.DB, postgres.DB and db.FileStore implement it.
type Reader interface {
	GetTeachers(ctx context.Context) ([]TeacherRecord, error)
	GetClassGroups(ctx context.Context) ([]ClassGroupRecord, error)
	GetScheduleBlocks(ctx context.Context) ([]ScheduleBlockRecord, error)
	GetRoleAssignments(ctx context.Context) ([]RoleAssignmentRecord, error)
	GetCurriculumRequirements(ctx context.Context) ([]CurriculumRequirementRecord, error)
}

// RunStore persists evaluation runs
type RunStore interface {
	InsertEvaluationRun(ctx context.Context, run *EvaluationRun) error
	InsertTeacherResults(ctx context.Context, results []TeacherResult) error
	GetEvaluationRuns(ctx context.Context) ([]EvaluationRun, error)
}

// Database is a store that can both read input tables and persist runs
type Database interface {
	Reader
	RunStore
}
