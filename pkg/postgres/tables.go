package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/servicodocente/dsd/pkg/db"
)

// queryRecords runs a select and numbers the records in result order
func queryRecords[T any](ctx context.Context, d *DB, table, sql string, scan func(pgx.Rows, *T) error, setRow func(*T, int)) ([]T, error) {
	rows, err := d.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var records []T
	for rows.Next() {
		var r T
		if err := scan(rows, &r); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		setRow(&r, len(records)+1)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", table, err)
	}

	return records, nil
}

// GetTeachers retrieves all teacher rows
func (d *DB) GetTeachers(ctx context.Context) ([]db.TeacherRecord, error) {
	return queryRecords(ctx, d, db.TableTeachers, `
		SELECT id, nome, grupo, reducao_art79_min
		FROM docentes
		ORDER BY id
	`, func(rows pgx.Rows, r *db.TeacherRecord) error {
		return rows.Scan(&r.ID, &r.Name, &r.RecruitmentGroup, &r.ReductionMinutes)
	}, func(r *db.TeacherRecord, row int) { r.Row = row })
}

// GetClassGroups retrieves all class rows
func (d *DB) GetClassGroups(ctx context.Context) ([]db.ClassGroupRecord, error) {
	return queryRecords(ctx, d, db.TableClassGroups, `
		SELECT id, ciclo, ano, curso, alunos, escola
		FROM turmas
		ORDER BY id
	`, func(rows pgx.Rows, r *db.ClassGroupRecord) error {
		return rows.Scan(&r.ID, &r.Cycle, &r.Year, &r.Track, &r.StudentCount, &r.Site)
	}, func(r *db.ClassGroupRecord, row int) { r.Row = row })
}

// GetScheduleBlocks retrieves all timetable rows
func (d *DB) GetScheduleBlocks(ctx context.Context) ([]db.ScheduleBlockRecord, error) {
	return queryRecords(ctx, d, db.TableScheduleBlocks, `
		SELECT docente_id, dia, inicio, fim, tipo, escola, turma_id, disciplina
		FROM horarios
		ORDER BY id
	`, func(rows pgx.Rows, r *db.ScheduleBlockRecord) error {
		return rows.Scan(&r.TeacherID, &r.Weekday, &r.Start, &r.End, &r.Category, &r.Site, &r.ClassGroupID, &r.Subject)
	}, func(r *db.ScheduleBlockRecord, row int) { r.Row = row })
}

// GetRoleAssignments retrieves all administrative duty rows
func (d *DB) GetRoleAssignments(ctx context.Context) ([]db.RoleAssignmentRecord, error) {
	return queryRecords(ctx, d, db.TableRoles, `
		SELECT docente_id, cargo, minutos_semanais, imputacao
		FROM cargos
		ORDER BY id
	`, func(rows pgx.Rows, r *db.RoleAssignmentRecord) error {
		return rows.Scan(&r.TeacherID, &r.DutyType, &r.WeeklyMinutes, &r.Imputation)
	}, func(r *db.RoleAssignmentRecord, row int) { r.Row = row })
}

// GetCurriculumRequirements retrieves all curriculum rows
func (d *DB) GetCurriculumRequirements(ctx context.Context) ([]db.CurriculumRequirementRecord, error) {
	return queryRecords(ctx, d, db.TableRequirements, `
		SELECT ciclo, ano, disciplina, minutos_semanais
		FROM matriz_curricular
		ORDER BY id
	`, func(rows pgx.Rows, r *db.CurriculumRequirementRecord) error {
		return rows.Scan(&r.Cycle, &r.Year, &r.Subject, &r.RequiredMinutes)
	}, func(r *db.CurriculumRequirementRecord, row int) { r.Row = row })
}
