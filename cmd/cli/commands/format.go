package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/servicodocente/dsd/pkg/core/coverage"
	"github.com/servicodocente/dsd/pkg/core/credit"
	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/services"
	"github.com/servicodocente/dsd/pkg/db"
)

// provisionalNote flags the class-director apportionment in every budget printout
const provisionalNote = "⚠️  Class-director credit apportionment is provisional"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func minutes(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// writeTeachers prints one line per teacher followed by its findings and notes
func writeTeachers(w io.Writer, r *services.Report) {
	tw := newTable(w)
	fmt.Fprintln(tw, "\tDOCENTE\tNOME\tGRUPO\tLETIVA\tNLET EST.\tNLET IND.")
	for _, t := range r.Teachers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.Severity.Icon(), t.TeacherID, t.Name, t.Group,
			minutes(t.TeachingMinutes), minutes(t.StudyMinutes), minutes(t.IndividualMinutes))
	}
	tw.Flush()

	for _, t := range r.Teachers {
		if len(t.Findings) == 0 && len(t.Notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s (%s)\n", t.Severity.Icon(), t.TeacherID, t.Name)
		for _, f := range t.Findings {
			fmt.Fprintf(w, "  ✗ [%s] %s", f.Rule, f.Message)
			if f.Correction.Text != "" {
				fmt.Fprintf(w, " → %s", f.Correction.Text)
			}
			fmt.Fprintln(w)
		}
		for _, n := range t.Notes {
			fmt.Fprintf(w, "  ℹ %s → %s\n", n.Message, n.Correction.Text)
		}
	}

	fmt.Fprintf(w, "\n✅ %d  🟧 %d  🟥 %d  (data issues: %d)\n",
		r.Counts.OK, r.Counts.Warning, r.Counts.Critical, len(r.Issues))
}

// writeBudget prints the credit-hour budget with its duty lines
func writeBudget(w io.Writer, b *credit.Report) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Turmas\t%d\n", b.ClassCount)
	fmt.Fprintf(tw, "TEIP\t%t\n", b.TEIP)
	fmt.Fprintf(tw, "Reduções Art. 79\t%s h\n", b.ReductionHours.StringFixed(2))
	fmt.Fprintf(tw, "Crédito atribuído\t%s h\n", b.Entitlement.StringFixed(2))
	fmt.Fprintf(tw, "Crédito consumido\t%s h\n", b.Consumed.StringFixed(2))
	fmt.Fprintf(tw, "Saldo\t%s h\n", b.Balance.StringFixed(2))
	tw.Flush()

	if len(b.Lines) > 0 {
		fmt.Fprintln(w)
		tw = newTable(w)
		fmt.Fprintln(tw, "DOCENTE\tCARGO\tMIN\tHORAS\tORIGEM")
		for _, l := range b.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", l.TeacherID, l.DutyType, l.Minutes, l.Hours.StringFixed(2), l.Source)
		}
		tw.Flush()
	}

	if b.Balance.IsNegative() {
		fmt.Fprintf(w, "\n🟥 Over-committed by %s h\n", b.Balance.Neg().StringFixed(2))
	}
	fmt.Fprintf(w, "\n%s (policy: %s)\n", provisionalNote, b.Apportionment)
}

// writeCoverage prints the reconciliation rows and a per-status summary
func writeCoverage(w io.Writer, rows []coverage.Row) {
	tw := newTable(w)
	fmt.Fprintln(tw, "TURMA\tCICLO\tANO\tDISCIPLINA\tESTADO\tDETALHE")
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ClassGroupID, row.Cycle.Label(), row.Year, row.Subject, row.Status, row.Text)
	}
	tw.Flush()

	summary := coverage.Summary(rows)
	fmt.Fprintf(w, "\nmatched: %d  partial: %d  exceeded: %d  unreferenced: %d\n",
		summary[coverage.StatusMatched], summary[coverage.StatusPartial],
		summary[coverage.StatusExceeded], summary[coverage.StatusUnreferenced])
}

// writeIssues prints data issues grouped in input order
func writeIssues(w io.Writer, issues []model.DataIssue) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No data issues found.")
		return
	}
	fmt.Fprintf(w, "Found %d data issues:\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(w, "  • %s\n", issue)
	}
}

// writeRuns prints the stored evaluation runs
func writeRuns(w io.Writer, runs []db.EvaluationRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No evaluation runs stored.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATA\tORIGEM\tDOCENTES\t✅\t🟧\t🟥\tDADOS\tSALDO")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			shortID(r.ID), r.CreatedAt, r.Source, r.Teachers, r.Compliant, r.Warnings, r.Critical, r.DataIssues, r.Balance)
	}
	tw.Flush()
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
