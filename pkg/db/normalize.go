package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/servicodocente/dsd/pkg/core/model"
)

var validate = validator.New()

// Normalize validates the raw tables and converts them to the domain model.
// Every rejected row becomes an invalid_row issue; the remaining rows are kept.
// References between tables are not checked here.
func Normalize(raw *RawDataset) (model.Dataset, []model.DataIssue) {
	var ds model.Dataset
	var issues []model.DataIssue

	reject := func(table string, meta RowMeta, ref string, err error) {
		issues = append(issues, model.DataIssue{
			Kind:   model.IssueInvalidRow,
			Table:  table,
			Row:    meta.Row,
			Ref:    ref,
			Detail: err.Error(),
		})
	}

	seenTeachers := make(map[string]int)
	for _, r := range raw.Teachers {
		r.ID = strings.TrimSpace(r.ID)
		if err := checkRecord(r.RowMeta, &r); err != nil {
			reject(TableTeachers, r.RowMeta, r.ID, err)
			continue
		}
		if first, dup := seenTeachers[r.ID]; dup {
			reject(TableTeachers, r.RowMeta, r.ID, fmt.Errorf("duplicate teacher id, first seen on row %d", first))
			continue
		}
		seenTeachers[r.ID] = r.Row

		ds.Teachers = append(ds.Teachers, model.Teacher{
			ID:               r.ID,
			Name:             strings.TrimSpace(r.Name),
			RecruitmentGroup: strings.TrimSpace(r.RecruitmentGroup),
			ReductionMinutes: r.ReductionMinutes,
		})
	}

	seenClasses := make(map[string]int)
	for _, r := range raw.Classes {
		r.ID = strings.TrimSpace(r.ID)
		if err := checkRecord(r.RowMeta, &r); err != nil {
			reject(TableClassGroups, r.RowMeta, r.ID, err)
			continue
		}
		cycle, err := model.ParseCycle(r.Cycle)
		if err != nil {
			reject(TableClassGroups, r.RowMeta, r.ID, err)
			continue
		}
		if first, dup := seenClasses[r.ID]; dup {
			reject(TableClassGroups, r.RowMeta, r.ID, fmt.Errorf("duplicate class id, first seen on row %d", first))
			continue
		}
		seenClasses[r.ID] = r.Row

		ds.Classes = append(ds.Classes, model.ClassGroup{
			ID:           r.ID,
			Cycle:        cycle,
			Year:         NormalizeYear(r.Year),
			Track:        strings.TrimSpace(r.Track),
			StudentCount: r.StudentCount,
			Site:         strings.TrimSpace(r.Site),
		})
	}

	for _, r := range raw.Blocks {
		ref := strings.TrimSpace(r.TeacherID)
		if err := checkRecord(r.RowMeta, &r); err != nil {
			reject(TableScheduleBlocks, r.RowMeta, ref, err)
			continue
		}
		day, err := model.ParseWeekday(r.Weekday)
		if err != nil {
			reject(TableScheduleBlocks, r.RowMeta, ref, err)
			continue
		}

		ds.Blocks = append(ds.Blocks, model.ScheduleBlock{
			TeacherID:    ref,
			Weekday:      day,
			Start:        strings.TrimSpace(r.Start),
			End:          strings.TrimSpace(r.End),
			Category:     model.ParseCategory(r.Category),
			Site:         strings.TrimSpace(r.Site),
			ClassGroupID: strings.TrimSpace(r.ClassGroupID),
			Subject:      strings.TrimSpace(r.Subject),
		})
	}

	for _, r := range raw.Roles {
		ref := strings.TrimSpace(r.TeacherID)
		if err := checkRecord(r.RowMeta, &r); err != nil {
			reject(TableRoles, r.RowMeta, ref, err)
			continue
		}
		imputation, err := model.ParseImputation(r.Imputation)
		if err != nil {
			reject(TableRoles, r.RowMeta, ref, err)
			continue
		}

		ds.Roles = append(ds.Roles, model.RoleAssignment{
			TeacherID:     ref,
			DutyType:      strings.ToUpper(strings.TrimSpace(r.DutyType)),
			WeeklyMinutes: r.WeeklyMinutes,
			Imputation:    imputation,
		})
	}

	for _, r := range raw.Requirements {
		ref := strings.TrimSpace(r.Subject)
		if err := checkRecord(r.RowMeta, &r); err != nil {
			reject(TableRequirements, r.RowMeta, ref, err)
			continue
		}
		cycle, err := model.ParseCycle(r.Cycle)
		if err != nil {
			reject(TableRequirements, r.RowMeta, ref, err)
			continue
		}

		ds.Requirements = append(ds.Requirements, model.CurriculumRequirement{
			Cycle:           cycle,
			Year:            NormalizeYear(r.Year),
			Subject:         ref,
			RequiredMinutes: r.RequiredMinutes,
		})
	}

	return ds, issues
}

// NormalizeYear turns "5º", " 5 " and "5.º ano" into "5", and any pre-school label into "Pre"
func NormalizeYear(year string) string {
	y := strings.ToLower(strings.TrimSpace(year))
	if y == "pre" || y == "pré" || strings.HasPrefix(y, "pré-") || strings.HasPrefix(y, "pre-") {
		return "Pre"
	}
	y = strings.TrimSuffix(y, " ano")
	y = strings.TrimSuffix(y, "º")
	y = strings.TrimSuffix(y, ".")
	return strings.TrimSpace(y)
}

// checkRecord reports a cell parse error or the first failed validation rule
func checkRecord(meta RowMeta, record interface{}) error {
	if meta.ParseErr != nil {
		return meta.ParseErr
	}

	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if fe.Param() != "" {
			messages = append(messages, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			messages = append(messages, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(messages, "; "))
}
