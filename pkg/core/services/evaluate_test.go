package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/pkg/core/coverage"
	"github.com/servicodocente/dsd/pkg/core/credit"
	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/rules"
)

func testOptions() Options {
	policy := rules.DefaultPolicy()
	return Options{
		Policy:     policy,
		Calculator: credit.NewCalculator(false, policy.IsEarlyYears),
		Workers:    2,
	}
}

// fullWeek returns 1100 teaching minutes over five days plus the given study time on Monday
func fullWeek(teacherID string, studyEnd string) []model.ScheduleBlock {
	var blocks []model.ScheduleBlock
	for day := model.Monday; day <= model.Friday; day++ {
		blocks = append(blocks, model.ScheduleBlock{
			TeacherID: teacherID, Weekday: day, Start: "08:00", End: "11:40", Category: model.CategoryTeaching,
		})
	}
	return append(blocks, model.ScheduleBlock{
		TeacherID: teacherID, Weekday: model.Monday, Start: "11:40", End: studyEnd, Category: model.CategorySchoolStudy,
	})
}

func TestEvaluate_SeverityAndOrder(t *testing.T) {
	ds := &model.Dataset{
		Teachers: []model.Teacher{
			{ID: "T-none", Name: "Sem Horário", RecruitmentGroup: "300"},
			{ID: "T-ok", Name: "Ana", RecruitmentGroup: "510"},
			{ID: "T-warn", Name: "Rui", RecruitmentGroup: "520"},
		},
	}
	ds.Blocks = append(fullWeek("T-ok", "13:10"), fullWeek("T-warn", "12:40")...)

	report, err := Evaluate(ds, nil, testOptions(), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, report.Teachers, 3)

	none, ok, warn := report.Teachers[0], report.Teachers[1], report.Teachers[2]

	assert.Equal(t, "T-none", none.TeacherID)
	assert.Equal(t, rules.SeverityCritical, none.Severity)
	assert.Nil(t, none.TeachingMinutes)
	require.Len(t, none.Findings, 1)
	assert.Equal(t, "Sem horário atribuído", none.Findings[0].Message)

	assert.Equal(t, "T-ok", ok.TeacherID)
	assert.Equal(t, rules.SeverityOK, ok.Severity)
	require.NotNil(t, ok.TeachingMinutes)
	assert.Equal(t, 1100, *ok.TeachingMinutes)
	assert.Equal(t, 90, *ok.StudyMinutes)
	assert.Empty(t, ok.Findings)
	require.Len(t, ok.Notes, 1)
	assert.Equal(t, 49, ok.Notes[0].Correction.Minutes)

	assert.Equal(t, rules.SeverityWarning, warn.Severity)
	require.Len(t, warn.Findings, 1)
	assert.Equal(t, rules.RuleStudyTime, warn.Findings[0].Rule)
	assert.Equal(t, 30, warn.Findings[0].Correction.Minutes)

	assert.Equal(t, Counts{OK: 1, Warning: 1, Critical: 1}, report.Counts)
	assert.Empty(t, report.Issues)
}

func TestEvaluate_BlockIssuesBecomeDataIssues(t *testing.T) {
	ds := &model.Dataset{
		Teachers: []model.Teacher{{ID: "T1", RecruitmentGroup: "510"}},
		Blocks: []model.ScheduleBlock{
			{TeacherID: "T1", Weekday: model.Monday, Start: "08:00", End: "09:40", Category: model.CategoryTeaching},
			{TeacherID: "T1", Weekday: model.Monday, Start: "10:00", End: "10:90", Category: model.CategoryTeaching},
			{TeacherID: "T1", Weekday: model.Tuesday, Start: "14:00", End: "13:00", Category: model.CategorySchoolStudy},
			{TeacherID: "T1", Weekday: model.Wednesday, Start: "09:00", End: "10:00", Category: "Recreio"},
		},
	}
	loadIssue := model.DataIssue{Kind: model.IssueInvalidRow, Table: "docentes", Row: 4, Detail: "Name is required"}

	report, err := Evaluate(ds, []model.DataIssue{loadIssue}, testOptions(), zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []model.IssueKind{
		model.IssueInvalidRow,
		model.IssueMalformedTime,
		model.IssueInvalidInterval,
		model.IssueUnknownCategory,
	}, issueKinds(report.Issues))
	assert.Equal(t, "T1 2ª 10:00-10:90", report.Issues[1].Ref)

	// malformed and inverted blocks count as zero minutes
	require.NotNil(t, report.Teachers[0].TeachingMinutes)
	assert.Equal(t, 100, *report.Teachers[0].TeachingMinutes)
	assert.Equal(t, 0, *report.Teachers[0].StudyMinutes)
}

func TestEvaluate_BudgetAndCoverage(t *testing.T) {
	ds := &model.Dataset{
		Teachers: []model.Teacher{{ID: "T1", RecruitmentGroup: "510"}},
		Classes: []model.ClassGroup{
			{ID: "5A", Cycle: model.CycleTwo, Year: "5"},
			{ID: "5B", Cycle: model.CycleTwo, Year: "5"},
		},
		Blocks: []model.ScheduleBlock{
			{TeacherID: "T1", Weekday: model.Monday, Start: "08:00", End: "09:40", Category: model.CategoryTeaching, ClassGroupID: "5A", Subject: "Matemática"},
			{TeacherID: "T1", Weekday: model.Tuesday, Start: "08:00", End: "10:30", Category: model.CategoryTeaching, ClassGroupID: "5A", Subject: "Matemática"},
		},
		Roles: []model.RoleAssignment{
			{TeacherID: "T1", DutyType: model.DutyClassDirector, WeeklyMinutes: 120},
			{TeacherID: "T1", DutyType: "COORD", WeeklyMinutes: 90, Imputation: model.ImputationTeachingCredit},
		},
		Requirements: []model.CurriculumRequirement{
			{Cycle: model.CycleTwo, Year: "5", Subject: "Matemática", RequiredMinutes: 250},
		},
	}
	opts := testOptions()
	opts.Coverage = coverage.Options{IncludeMissing: true}

	report, err := Evaluate(ds, nil, opts, zap.NewNop())
	require.NoError(t, err)

	require.NotNil(t, report.Budget)
	assert.Equal(t, "14", report.Budget.Entitlement.String())
	// 90 min CH + half of the 2h director duty
	assert.Equal(t, "2.5", report.Budget.Consumed.String())
	assert.Equal(t, "11.5", report.Budget.Balance.String())

	require.Len(t, report.Coverage, 2)
	assert.Equal(t, "5A", report.Coverage[0].ClassGroupID)
	assert.Equal(t, coverage.StatusMatched, report.Coverage[0].Status)
	assert.Equal(t, "5B", report.Coverage[1].ClassGroupID)
	assert.Equal(t, 0, report.Coverage[1].ObservedMinutes)
}

func TestEvaluate_RequiresCalculator(t *testing.T) {
	_, err := Evaluate(&model.Dataset{}, nil, Options{}, zap.NewNop())
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	reader := &fakeReader{raw: sampleRaw()}

	report, err := Run(context.Background(), reader, testOptions(), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, report.Teachers, 2)
	assert.Equal(t, "T1", report.Teachers[0].TeacherID)
	// T2's only valid block pointed at an unknown class
	assert.Nil(t, report.Teachers[1].TeachingMinutes)
	assert.Len(t, report.Issues, 4)
}
