package services

import (
	"context"
	"errors"

	"github.com/servicodocente/dsd/pkg/db"
)

// fakeReader implements db.Reader
type fakeReader struct {
	raw db.RawDataset
	err error
	// failTable makes only the named table fail
	failTable string
}

func (f *fakeReader) fail(table string) error {
	if f.err != nil && (f.failTable == "" || f.failTable == table) {
		return f.err
	}
	return nil
}

func (f *fakeReader) GetTeachers(ctx context.Context) ([]db.TeacherRecord, error) {
	if err := f.fail(db.TableTeachers); err != nil {
		return nil, err
	}
	return f.raw.Teachers, nil
}

func (f *fakeReader) GetClassGroups(ctx context.Context) ([]db.ClassGroupRecord, error) {
	if err := f.fail(db.TableClassGroups); err != nil {
		return nil, err
	}
	return f.raw.Classes, nil
}

func (f *fakeReader) GetScheduleBlocks(ctx context.Context) ([]db.ScheduleBlockRecord, error) {
	if err := f.fail(db.TableScheduleBlocks); err != nil {
		return nil, err
	}
	return f.raw.Blocks, nil
}

func (f *fakeReader) GetRoleAssignments(ctx context.Context) ([]db.RoleAssignmentRecord, error) {
	if err := f.fail(db.TableRoles); err != nil {
		return nil, err
	}
	return f.raw.Roles, nil
}

func (f *fakeReader) GetCurriculumRequirements(ctx context.Context) ([]db.CurriculumRequirementRecord, error) {
	if err := f.fail(db.TableRequirements); err != nil {
		return nil, err
	}
	return f.raw.Requirements, nil
}

// fakeRunStore implements db.RunStore
type fakeRunStore struct {
	runs      []db.EvaluationRun
	results   []db.TeacherResult
	insertErr error
}

func (f *fakeRunStore) InsertEvaluationRun(ctx context.Context, run *db.EvaluationRun) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeRunStore) InsertTeacherResults(ctx context.Context, results []db.TeacherResult) error {
	f.results = append(f.results, results...)
	return nil
}

func (f *fakeRunStore) GetEvaluationRuns(ctx context.Context) ([]db.EvaluationRun, error) {
	if f.insertErr != nil {
		return nil, errors.New("unavailable")
	}
	return f.runs, nil
}
