package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/db"
)

func sampleRaw() db.RawDataset {
	return db.RawDataset{
		Teachers: []db.TeacherRecord{
			{RowMeta: db.RowMeta{Row: 1}, ID: "T1", Name: "Ana", RecruitmentGroup: "510"},
			{RowMeta: db.RowMeta{Row: 2}, ID: "T2", Name: "Rui", RecruitmentGroup: "110"},
		},
		Classes: []db.ClassGroupRecord{
			{RowMeta: db.RowMeta{Row: 1}, ID: "5A", Cycle: "2º", Year: "5º"},
		},
		Blocks: []db.ScheduleBlockRecord{
			{RowMeta: db.RowMeta{Row: 1}, TeacherID: "T1", Weekday: "2ª", Start: "08:00", End: "09:40", Category: "LETIVA", ClassGroupID: "5A", Subject: "Matemática"},
			{RowMeta: db.RowMeta{Row: 2}, TeacherID: "T9", Weekday: "2ª", Start: "08:00", End: "09:00", Category: "LETIVA"},
			{RowMeta: db.RowMeta{Row: 3}, TeacherID: "T2", Weekday: "3ª", Start: "08:00", End: "09:00", Category: "LETIVA", ClassGroupID: "9Z"},
			{RowMeta: db.RowMeta{Row: 4}, TeacherID: "T2", Weekday: "dom", Start: "08:00", End: "09:00", Category: "LETIVA"},
		},
		Roles: []db.RoleAssignmentRecord{
			{RowMeta: db.RowMeta{Row: 1}, TeacherID: "T1", DutyType: "dt", WeeklyMinutes: 240},
			{RowMeta: db.RowMeta{Row: 2}, TeacherID: "T7", DutyType: "Coord", WeeklyMinutes: 90, Imputation: "CH"},
		},
		Requirements: []db.CurriculumRequirementRecord{
			{RowMeta: db.RowMeta{Row: 1}, Cycle: "2º", Year: "5", Subject: "Matemática", RequiredMinutes: 250},
		},
	}
}

func issueKinds(issues []model.DataIssue) []model.IssueKind {
	kinds := make([]model.IssueKind, len(issues))
	for i, issue := range issues {
		kinds[i] = issue.Kind
	}
	return kinds
}

func TestLoadDataset(t *testing.T) {
	reader := &fakeReader{raw: sampleRaw()}

	ds, issues, err := LoadDataset(context.Background(), reader, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, ds.Teachers, 2)
	require.Len(t, ds.Blocks, 1)
	assert.Equal(t, "T1", ds.Blocks[0].TeacherID)
	require.Len(t, ds.Roles, 1)
	assert.Equal(t, "DT", ds.Roles[0].DutyType)
	assert.Equal(t, "5", ds.Classes[0].Year)

	assert.ElementsMatch(t, []model.IssueKind{
		model.IssueInvalidRow,
		model.IssueUnknownTeacher,
		model.IssueUnknownClass,
		model.IssueUnknownTeacher,
	}, issueKinds(issues))
}

func TestLoadDataset_ReaderError(t *testing.T) {
	reader := &fakeReader{raw: sampleRaw(), err: errors.New("quota exceeded"), failTable: db.TableRoles}

	_, _, err := LoadDataset(context.Background(), reader, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch role assignments")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestCheckReferences(t *testing.T) {
	ds := &model.Dataset{
		Teachers: []model.Teacher{{ID: "T1"}},
		Classes:  []model.ClassGroup{{ID: "5A", Cycle: model.CycleTwo, Year: "5"}},
		Blocks: []model.ScheduleBlock{
			{TeacherID: "T1", Weekday: model.Monday, Start: "08:00", End: "09:00", ClassGroupID: "5A"},
			{TeacherID: "T1", Weekday: model.Monday, Start: "09:00", End: "10:00"},
			{TeacherID: "T1", Weekday: model.Tuesday, Start: "08:00", End: "09:00", ClassGroupID: "9Z"},
			{TeacherID: "T2", Weekday: model.Friday, Start: "08:00", End: "09:00"},
		},
		Roles: []model.RoleAssignment{
			{TeacherID: "T1", DutyType: "DT"},
			{TeacherID: "T3", DutyType: "DT"},
		},
	}

	issues := CheckReferences(ds)

	assert.Len(t, ds.Blocks, 2)
	assert.Len(t, ds.Roles, 1)
	require.Len(t, issues, 3)

	assert.Equal(t, model.IssueUnknownClass, issues[0].Kind)
	assert.Equal(t, db.TableScheduleBlocks, issues[0].Table)
	assert.Equal(t, "T1 3ª 08:00-09:00", issues[0].Ref)
	assert.Equal(t, `unknown class "9Z"`, issues[0].Detail)

	assert.Equal(t, model.IssueUnknownTeacher, issues[1].Kind)
	assert.Equal(t, `unknown teacher "T2"`, issues[1].Detail)

	assert.Equal(t, model.IssueUnknownTeacher, issues[2].Kind)
	assert.Equal(t, db.TableRoles, issues[2].Table)
}
