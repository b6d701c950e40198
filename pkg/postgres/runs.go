package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/servicodocente/dsd/pkg/db"
)

// InsertEvaluationRun inserts a run record
func (d *DB) InsertEvaluationRun(ctx context.Context, run *db.EvaluationRun) error {
	id, err := uuid.Parse(run.ID)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", run.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid run timestamp %q: %w", run.CreatedAt, err)
	}

	_, err = d.pool.Exec(ctx, `
		INSERT INTO execucoes (
			id, criado_em, origem, docentes, conformes, avisos, criticos, problemas_dados,
			credito_atribuido, credito_consumido, credito_saldo, rateio_dt
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8,
			NULLIF($9, '')::numeric, NULLIF($10, '')::numeric, NULLIF($11, '')::numeric, $12)
	`, id, createdAt.UTC(), run.Source, run.Teachers, run.Compliant, run.Warnings, run.Critical, run.DataIssues,
		run.Entitlement, run.Consumed, run.Balance, run.Apportionment)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation run: %w", err)
	}
	return nil
}

// InsertTeacherResults bulk-copies the per-teacher results of a run
func (d *DB) InsertTeacherResults(ctx context.Context, results []db.TeacherResult) error {
	if len(results) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(results))
	for i, r := range results {
		runID, err := uuid.Parse(r.RunID)
		if err != nil {
			return fmt.Errorf("invalid run id %q: %w", r.RunID, err)
		}
		rows[i] = []interface{}{runID, r.TeacherID, r.Severity, r.TeachingMinutes, r.StudyMinutes, r.IndividualMinutes, r.Findings}
	}

	_, err := d.pool.CopyFrom(ctx,
		pgx.Identifier{db.TableTeacherResults},
		[]string{"execucao_id", "docente_id", "gravidade", "letiva_min", "nlet_est_min", "nlet_ind_min", "ocorrencias"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to insert teacher results: %w", err)
	}
	return nil
}

// GetEvaluationRuns retrieves all stored runs, oldest first
func (d *DB) GetEvaluationRuns(ctx context.Context) ([]db.EvaluationRun, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, criado_em, origem, docentes, conformes, avisos, criticos, problemas_dados,
			COALESCE(credito_atribuido::text, ''), COALESCE(credito_consumido::text, ''),
			COALESCE(credito_saldo::text, ''), rateio_dt
		FROM execucoes
		ORDER BY criado_em
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation runs: %w", err)
	}
	defer rows.Close()

	var runs []db.EvaluationRun
	for rows.Next() {
		var r db.EvaluationRun
		var id uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt, &r.Source, &r.Teachers, &r.Compliant, &r.Warnings, &r.Critical,
			&r.DataIssues, &r.Entitlement, &r.Consumed, &r.Balance, &r.Apportionment); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation run: %w", err)
		}
		r.ID = id.String()
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation runs: %w", err)
	}

	return runs, nil
}
