package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/servicodocente/dsd/pkg/core/coverage"
	"github.com/servicodocente/dsd/pkg/core/credit"
	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/rules"
	"github.com/servicodocente/dsd/pkg/db"
)

// Options configures an evaluation run
type Options struct {
	Policy     rules.Policy
	Calculator *credit.Calculator
	Coverage   coverage.Options

	// Workers bounds the number of teachers evaluated at once
	Workers int
}

// TeacherOutcome is the reported result of one teacher
type TeacherOutcome struct {
	TeacherID string         `json:"teacherId"`
	Name      string         `json:"name"`
	Group     string         `json:"group"`
	Severity  rules.Severity `json:"severity"`

	// Minutes are absent when the teacher has no schedule
	TeachingMinutes   *int `json:"teachingMinutes,omitempty"`
	StudyMinutes      *int `json:"studyMinutes,omitempty"`
	IndividualMinutes *int `json:"individualMinutes,omitempty"`

	Findings []rules.Finding `json:"findings"`
	Notes    []rules.Finding `json:"notes,omitempty"`
}

// Counts is the number of teachers per severity
type Counts struct {
	OK       int `json:"ok"`
	Warning  int `json:"warning"`
	Critical int `json:"critical"`
}

// Report is the outcome of an evaluation run
type Report struct {
	Teachers []TeacherOutcome `json:"teachers"`
	Counts   Counts           `json:"counts"`
	Budget   *credit.Report   `json:"budget"`
	Coverage []coverage.Row   `json:"coverage"`

	// Issues are data-quality problems, reported apart from findings
	Issues []model.DataIssue `json:"issues"`
}

// Evaluate runs the compliance rules for every teacher, the credit budget and
// the curriculum reconciliation. Teachers keep the order of the teachers table.
// loadIssues are the data issues found while loading and are carried into the report.
func Evaluate(ds *model.Dataset, loadIssues []model.DataIssue, opts Options, logger *zap.Logger) (*Report, error) {
	if opts.Calculator == nil {
		return nil, errors.New("evaluation requires a credit calculator")
	}

	logger.Debug("Evaluating dataset",
		zap.Int("teachers", len(ds.Teachers)),
		zap.Int("workers", opts.Workers))

	engine := rules.NewEngine(opts.Policy)
	classes := ds.ClassIndex()
	blocksByTeacher := groupBlocks(ds.Blocks)

	results := make([]rules.TeacherResult, len(ds.Teachers))
	var budget *credit.Report
	var rows []coverage.Row

	var g errgroup.Group
	if opts.Workers > 0 {
		// +2 for the budget and coverage goroutines
		g.SetLimit(opts.Workers + 2)
	}

	g.Go(func() error {
		report, err := opts.Calculator.Budget(len(ds.Classes), ds.Teachers, ds.Roles)
		if err != nil {
			return fmt.Errorf("failed to compute credit budget: %w", err)
		}
		budget = report
		return nil
	})
	g.Go(func() error {
		rows = coverage.Reconcile(ds.Blocks, ds.Classes, ds.Requirements, opts.Coverage)
		return nil
	})
	for i, teacher := range ds.Teachers {
		g.Go(func() error {
			results[i] = engine.EvaluateTeacher(teacher, blocksByTeacher[teacher.ID], classes)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Teachers: make([]TeacherOutcome, len(results)),
		Budget:   budget,
		Coverage: rows,
		Issues:   append([]model.DataIssue(nil), loadIssues...),
	}

	for i, result := range results {
		report.Teachers[i] = outcomeFromResult(result)
		switch result.Severity {
		case rules.SeverityOK:
			report.Counts.OK++
		case rules.SeverityWarning:
			report.Counts.Warning++
		default:
			report.Counts.Critical++
		}
		for _, issue := range result.Issues {
			report.Issues = append(report.Issues, issueFromBlock(issue))
		}
	}

	for _, issue := range report.Issues {
		logger.Warn("Data issue", zap.String("issue", issue.String()))
	}

	logger.Info("Evaluation complete",
		zap.Int("ok", report.Counts.OK),
		zap.Int("warning", report.Counts.Warning),
		zap.Int("critical", report.Counts.Critical),
		zap.Int("issues", len(report.Issues)))

	return report, nil
}

// Run loads the dataset from the reader and evaluates it
func Run(ctx context.Context, reader db.Reader, opts Options, logger *zap.Logger) (*Report, error) {
	ds, issues, err := LoadDataset(ctx, reader, logger)
	if err != nil {
		return nil, err
	}
	return Evaluate(ds, issues, opts, logger)
}

func groupBlocks(blocks []model.ScheduleBlock) map[string][]model.ScheduleBlock {
	grouped := make(map[string][]model.ScheduleBlock)
	for _, b := range blocks {
		grouped[b.TeacherID] = append(grouped[b.TeacherID], b)
	}
	return grouped
}

func outcomeFromResult(result rules.TeacherResult) TeacherOutcome {
	outcome := TeacherOutcome{
		TeacherID: result.Teacher.ID,
		Name:      result.Teacher.Name,
		Group:     result.Teacher.RecruitmentGroup,
		Severity:  result.Severity,
		Findings:  result.Findings,
		Notes:     result.Notes,
	}
	if outcome.Findings == nil {
		outcome.Findings = []rules.Finding{}
	}
	if result.Totals != nil {
		teaching, study, individual := result.Totals.Teaching, result.Totals.Study, result.Totals.Individual
		outcome.TeachingMinutes = &teaching
		outcome.StudyMinutes = &study
		outcome.IndividualMinutes = &individual
	}
	return outcome
}

// issueFromBlock turns an aggregation problem into a data issue
func issueFromBlock(issue rules.BlockIssue) model.DataIssue {
	kind := model.IssueInvalidRow
	var malformed *rules.MalformedTimeError
	switch {
	case errors.As(issue.Err, &malformed):
		kind = model.IssueMalformedTime
	case errors.Is(issue.Err, rules.ErrInvalidInterval):
		kind = model.IssueInvalidInterval
	case errors.Is(issue.Err, rules.ErrUnknownCategory):
		kind = model.IssueUnknownCategory
	}

	return model.DataIssue{
		Kind:   kind,
		Table:  db.TableScheduleBlocks,
		Ref:    blockRef(issue.Block),
		Detail: issue.Err.Error(),
	}
}
