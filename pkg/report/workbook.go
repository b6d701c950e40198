package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/servicodocente/dsd/pkg/core/rules"
	"github.com/servicodocente/dsd/pkg/core/services"
)

// Sheet names of the exported workbook
const (
	SheetTeachers = "Docentes"
	SheetBudget   = "Crédito Horário"
	SheetCoverage = "Cobertura"
	SheetIssues   = "Dados"
)

// Workbook builds the xlsx export of an evaluation report
func Workbook(r *services.Report) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetTeachers); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetBudget, SheetCoverage, SheetIssues} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	w := &sheetWriter{f: f, header: header}
	w.teachers(r)
	w.budget(r)
	w.coverage(r)
	w.issues(r)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write streams the workbook of the report to w
func Write(w io.Writer, r *services.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile saves the workbook of the report to path
func WriteFile(path string, r *services.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// sheetWriter keeps the first error so the sheet builders read linearly
type sheetWriter struct {
	f      *excelize.File
	header int
	err    error
}

func (w *sheetWriter) row(sheet string, n int, values ...interface{}) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write %s row %d: %w", sheet, n, err)
	}
}

func (w *sheetWriter) headerRow(sheet string, n int, titles ...interface{}) {
	w.row(sheet, n, titles...)
	if w.err != nil {
		return
	}
	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(len(titles), n)
	if err := w.f.SetCellStyle(sheet, first, last, w.header); err != nil {
		w.err = fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
}

func (w *sheetWriter) teachers(r *services.Report) {
	w.headerRow(SheetTeachers, 1, "Docente", "Nome", "Grupo", "Estado", "Letiva (min)", "NLet Est. (min)", "NLet Ind. (min)", "Ocorrências", "Notas")
	for i, t := range r.Teachers {
		w.row(SheetTeachers, i+2,
			t.TeacherID, t.Name, t.Group,
			t.Severity.Icon()+" "+string(t.Severity),
			optionalInt(t.TeachingMinutes), optionalInt(t.StudyMinutes), optionalInt(t.IndividualMinutes),
			joinFindings(t.Findings), joinFindings(t.Notes),
		)
	}
}

func (w *sheetWriter) budget(r *services.Report) {
	b := r.Budget
	if b == nil {
		w.row(SheetBudget, 1, "Sem cálculo de crédito")
		return
	}

	w.headerRow(SheetBudget, 1, "Indicador", "Horas")
	w.row(SheetBudget, 2, "Turmas", b.ClassCount)
	w.row(SheetBudget, 3, "TEIP", yesNo(b.TEIP))
	w.row(SheetBudget, 4, "Reduções Art. 79 (h)", b.ReductionHours.InexactFloat64())
	w.row(SheetBudget, 5, "Crédito atribuído (h)", b.Entitlement.InexactFloat64())
	w.row(SheetBudget, 6, "Crédito consumido (h)", b.Consumed.InexactFloat64())
	w.row(SheetBudget, 7, "Saldo (h)", b.Balance.InexactFloat64())
	w.row(SheetBudget, 8, "Rateio DT (provisório)", b.Apportionment)

	w.headerRow(SheetBudget, 10, "Docente", "Cargo", "Minutos", "Horas", "Origem")
	for i, line := range b.Lines {
		w.row(SheetBudget, i+11, line.TeacherID, line.DutyType, line.Minutes, line.Hours.InexactFloat64(), line.Source)
	}
}

func (w *sheetWriter) coverage(r *services.Report) {
	w.headerRow(SheetCoverage, 1, "Turma", "Ciclo", "Ano", "Disciplina", "Observado (min)", "Referência (min)", "Aproximado", "Classificação", "Descrição")
	for i, row := range r.Coverage {
		var reference interface{}
		if row.ReferenceMinutes != nil {
			reference = *row.ReferenceMinutes
		}
		w.row(SheetCoverage, i+2,
			row.ClassGroupID, row.Cycle.Label(), row.Year, row.Subject,
			row.ObservedMinutes, reference, yesNo(row.ReferenceIsFallback),
			string(row.Status), row.Text,
		)
	}
}

func (w *sheetWriter) issues(r *services.Report) {
	w.headerRow(SheetIssues, 1, "Tipo", "Tabela", "Linha", "Referência", "Detalhe")
	for i, issue := range r.Issues {
		var row interface{}
		if issue.Row > 0 {
			row = issue.Row
		}
		w.row(SheetIssues, i+2, string(issue.Kind), issue.Table, row, issue.Ref, issue.Detail)
	}
}

func optionalInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func joinFindings(findings []rules.Finding) string {
	parts := make([]string, len(findings))
	for i, f := range findings {
		parts[i] = f.Message
		if f.Correction.Text != "" {
			parts[i] += " (" + f.Correction.Text + ")"
		}
	}
	return strings.Join(parts, "\n")
}

func yesNo(b bool) string {
	if b {
		return "sim"
	}
	return "não"
}
