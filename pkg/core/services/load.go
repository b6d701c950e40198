package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/db"
)

// LoadRaw fetches the five input tables concurrently
func LoadRaw(ctx context.Context, reader db.Reader, logger *zap.Logger) (*db.RawDataset, error) {
	raw := &db.RawDataset{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := reader.GetTeachers(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch teachers: %w", err)
		}
		raw.Teachers = records
		return nil
	})
	g.Go(func() error {
		records, err := reader.GetClassGroups(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch classes: %w", err)
		}
		raw.Classes = records
		return nil
	})
	g.Go(func() error {
		records, err := reader.GetScheduleBlocks(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch schedule blocks: %w", err)
		}
		raw.Blocks = records
		return nil
	})
	g.Go(func() error {
		records, err := reader.GetRoleAssignments(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch role assignments: %w", err)
		}
		raw.Roles = records
		return nil
	})
	g.Go(func() error {
		records, err := reader.GetCurriculumRequirements(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch curriculum requirements: %w", err)
		}
		raw.Requirements = records
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("Fetched input tables",
		zap.Int("teachers", len(raw.Teachers)),
		zap.Int("classes", len(raw.Classes)),
		zap.Int("blocks", len(raw.Blocks)),
		zap.Int("roles", len(raw.Roles)),
		zap.Int("requirements", len(raw.Requirements)))

	return raw, nil
}

// LoadDataset fetches, validates and cross-checks the input tables.
// Rows that fail validation or point at unknown records are dropped and
// reported as data issues.
func LoadDataset(ctx context.Context, reader db.Reader, logger *zap.Logger) (*model.Dataset, []model.DataIssue, error) {
	raw, err := LoadRaw(ctx, reader, logger)
	if err != nil {
		return nil, nil, err
	}

	ds, issues := PrepareDataset(raw)
	logger.Debug("Prepared dataset",
		zap.Int("teachers", len(ds.Teachers)),
		zap.Int("blocks", len(ds.Blocks)),
		zap.Int("issues", len(issues)))

	return ds, issues, nil
}

// PrepareDataset normalizes raw tables and drops rows with dangling references
func PrepareDataset(raw *db.RawDataset) (*model.Dataset, []model.DataIssue) {
	ds, issues := db.Normalize(raw)
	refIssues := CheckReferences(&ds)
	return &ds, append(issues, refIssues...)
}

// CheckReferences removes schedule blocks whose teacher or class does not exist
// and duties held by unknown teachers. Each removed row becomes a data issue.
func CheckReferences(ds *model.Dataset) []model.DataIssue {
	teachers := ds.TeacherIndex()
	classes := ds.ClassIndex()

	var issues []model.DataIssue
	report := func(table, ref string, err *model.UnknownReferenceError) {
		issues = append(issues, model.DataIssue{
			Kind:   err.Kind(),
			Table:  table,
			Ref:    ref,
			Detail: err.Error(),
		})
	}

	blocks := ds.Blocks[:0:0]
	for _, b := range ds.Blocks {
		if _, ok := teachers[b.TeacherID]; !ok {
			report(db.TableScheduleBlocks, blockRef(b), &model.UnknownReferenceError{Entity: "teacher", ID: b.TeacherID})
			continue
		}
		if b.ClassGroupID != "" {
			if _, ok := classes[b.ClassGroupID]; !ok {
				report(db.TableScheduleBlocks, blockRef(b), &model.UnknownReferenceError{Entity: "class", ID: b.ClassGroupID})
				continue
			}
		}
		blocks = append(blocks, b)
	}
	ds.Blocks = blocks

	roles := ds.Roles[:0:0]
	for _, r := range ds.Roles {
		if _, ok := teachers[r.TeacherID]; !ok {
			report(db.TableRoles, r.DutyType, &model.UnknownReferenceError{Entity: "teacher", ID: r.TeacherID})
			continue
		}
		roles = append(roles, r)
	}
	ds.Roles = roles

	return issues
}

// blockRef identifies a block in issue listings, e.g. "T1 2ª 08:00-09:00"
func blockRef(b model.ScheduleBlock) string {
	return fmt.Sprintf("%s %s %s-%s", b.TeacherID, b.Weekday, b.Start, b.End)
}
