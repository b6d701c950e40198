package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/servicodocente/dsd/pkg/db"
)

// SaveRun stores the report summary and the per-teacher results under a new run ID
func SaveRun(ctx context.Context, store db.RunStore, report *Report, source string, logger *zap.Logger) (*db.EvaluationRun, error) {
	run := RunRecord(report, source, time.Now())

	logger.Debug("Saving evaluation run", zap.String("id", run.ID), zap.String("source", source))

	if err := store.InsertEvaluationRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to insert evaluation run: %w", err)
	}

	results := TeacherResultRecords(run.ID, report)
	if err := store.InsertTeacherResults(ctx, results); err != nil {
		return nil, fmt.Errorf("failed to insert teacher results: %w", err)
	}

	logger.Info("Saved evaluation run", zap.String("id", run.ID), zap.Int("teachers", len(results)))
	return run, nil
}

// RunRecord builds the stored summary of a report
func RunRecord(report *Report, source string, at time.Time) *db.EvaluationRun {
	run := &db.EvaluationRun{
		ID:         uuid.New().String(),
		CreatedAt:  at.UTC().Format(time.RFC3339),
		Source:     source,
		Teachers:   len(report.Teachers),
		Compliant:  report.Counts.OK,
		Warnings:   report.Counts.Warning,
		Critical:   report.Counts.Critical,
		DataIssues: len(report.Issues),
	}
	if report.Budget != nil {
		run.Entitlement = report.Budget.Entitlement.String()
		run.Consumed = report.Budget.Consumed.String()
		run.Balance = report.Budget.Balance.String()
		run.Apportionment = report.Budget.Apportionment
	}
	return run
}

// TeacherResultRecords builds one stored row per teacher of the report
func TeacherResultRecords(runID string, report *Report) []db.TeacherResult {
	results := make([]db.TeacherResult, len(report.Teachers))
	for i, t := range report.Teachers {
		messages := make([]string, len(t.Findings))
		for j, f := range t.Findings {
			messages[j] = f.Message
		}

		results[i] = db.TeacherResult{
			RunID:     runID,
			TeacherID: t.TeacherID,
			Severity:  string(t.Severity),
			Findings:  strings.Join(messages, "; "),
		}
		if t.TeachingMinutes != nil {
			results[i].TeachingMinutes = *t.TeachingMinutes
			results[i].StudyMinutes = *t.StudyMinutes
			results[i].IndividualMinutes = *t.IndividualMinutes
		}
	}
	return results
}

// ListRuns returns the stored runs, oldest first
func ListRuns(ctx context.Context, store db.RunStore, logger *zap.Logger) ([]db.EvaluationRun, error) {
	logger.Debug("Fetching evaluation runs")
	runs, err := store.GetEvaluationRuns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch evaluation runs: %w", err)
	}
	logger.Debug("Found evaluation runs", zap.Int("count", len(runs)))
	return runs, nil
}
