package db

import (
	"context"
	"fmt"

	"github.com/servicodocente/dsd/pkg/sheetssql"
)

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}

// Schema returns the SheetsSQL schema of every table the application uses
func Schema() (*sheetssql.Schema, error) {
	return sheetssql.SchemaFromModels(
		TeacherRecord{},
		ClassGroupRecord{},
		ScheduleBlockRecord{},
		RoleAssignmentRecord{},
		CurriculumRequirementRecord{},
		EvaluationRun{},
		TeacherResult{},
	)
}

// getRecords reads a table and stamps each record with its row metadata
func getRecords[T any](ctx context.Context, db *DB, withMeta func(*T, RowMeta)) ([]T, error) {
	rows, err := sheetssql.GetTableAs[T](ctx, db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", sheetssql.TableName[T](), err)
	}

	records := make([]T, len(rows))
	for i, row := range rows {
		records[i] = row.Value
		withMeta(&records[i], RowMeta{Row: row.Number, ParseErr: row.Err})
	}
	return records, nil
}

// GetTeachers retrieves all teacher rows
func (db *DB) GetTeachers(ctx context.Context) ([]TeacherRecord, error) {
	return getRecords(ctx, db, func(r *TeacherRecord, m RowMeta) { r.RowMeta = m })
}

// GetClassGroups retrieves all class rows
func (db *DB) GetClassGroups(ctx context.Context) ([]ClassGroupRecord, error) {
	return getRecords(ctx, db, func(r *ClassGroupRecord, m RowMeta) { r.RowMeta = m })
}

// GetScheduleBlocks retrieves all timetable rows
func (db *DB) GetScheduleBlocks(ctx context.Context) ([]ScheduleBlockRecord, error) {
	return getRecords(ctx, db, func(r *ScheduleBlockRecord, m RowMeta) { r.RowMeta = m })
}

// GetRoleAssignments retrieves all administrative duty rows
func (db *DB) GetRoleAssignments(ctx context.Context) ([]RoleAssignmentRecord, error) {
	return getRecords(ctx, db, func(r *RoleAssignmentRecord, m RowMeta) { r.RowMeta = m })
}

// GetCurriculumRequirements retrieves all curriculum rows
func (db *DB) GetCurriculumRequirements(ctx context.Context) ([]CurriculumRequirementRecord, error) {
	return getRecords(ctx, db, func(r *CurriculumRequirementRecord, m RowMeta) { r.RowMeta = m })
}

// InsertEvaluationRun inserts a run record
func (db *DB) InsertEvaluationRun(ctx context.Context, run *EvaluationRun) error {
	if err := sheetssql.InsertModel(ctx, db.ssql, *run); err != nil {
		return fmt.Errorf("failed to insert evaluation run: %w", err)
	}
	return nil
}

// InsertTeacherResults inserts the per-teacher results of a run
func (db *DB) InsertTeacherResults(ctx context.Context, results []TeacherResult) error {
	if err := sheetssql.InsertModels(ctx, db.ssql, results); err != nil {
		return fmt.Errorf("failed to insert teacher results: %w", err)
	}
	return nil
}

// GetEvaluationRuns retrieves all stored runs
func (db *DB) GetEvaluationRuns(ctx context.Context) ([]EvaluationRun, error) {
	rows, err := sheetssql.GetTableAs[EvaluationRun](ctx, db.ssql)
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation runs: %w", err)
	}

	runs := make([]EvaluationRun, 0, len(rows))
	for _, row := range rows {
		if row.Err != nil {
			return nil, fmt.Errorf("evaluation run on row %d: %w", row.Number, row.Err)
		}
		runs = append(runs, row.Value)
	}
	return runs, nil
}
