package coverage

import (
	"fmt"
	"sort"

	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/rules"
)

// Status classifies a class and subject against its curriculum reference
type Status string

const (
	StatusMatched      Status = "matched"
	StatusPartial      Status = "partial"
	StatusExceeded     Status = "exceeded"
	StatusUnreferenced Status = "unreferenced"
)

// Row is the coverage of one subject in one class
type Row struct {
	ClassGroupID    string      `json:"classId"`
	Cycle           model.Cycle `json:"cycle"`
	Year            string      `json:"year"`
	Subject         string      `json:"subject"`
	ObservedMinutes int         `json:"observedMinutes"`

	// ReferenceMinutes is nil when no requirement row applies
	ReferenceMinutes    *float64 `json:"referenceMinutes"`
	ReferenceIsFallback bool     `json:"referenceIsFallback"`
	Status              Status   `json:"classification"`
	Text                string   `json:"text"`
}

// Options tune the reconciliation
type Options struct {
	// IncludeMissing adds zero-minute rows for required subjects nobody teaches
	IncludeMissing bool
}

type requirementKey struct {
	cycle   model.Cycle
	year    string
	subject string
}

type subjectKey struct {
	cycle   model.Cycle
	subject string
}

type yearKey struct {
	cycle model.Cycle
	year  string
}

type observedKey struct {
	classID string
	subject string
}

// Reference resolves required minutes by (cycle, year, subject), falling back to
// the mean over every year of (cycle, subject)
type Reference struct {
	exact    map[requirementKey]int
	fallback map[subjectKey]float64
	byYear   map[yearKey][]model.CurriculumRequirement
}

// NewReference indexes the requirement table. Duplicate exact keys keep the last row.
func NewReference(requirements []model.CurriculumRequirement) *Reference {
	ref := &Reference{
		exact:    make(map[requirementKey]int, len(requirements)),
		fallback: make(map[subjectKey]float64),
		byYear:   make(map[yearKey][]model.CurriculumRequirement),
	}

	sums := make(map[subjectKey]int)
	counts := make(map[subjectKey]int)
	for _, r := range requirements {
		ref.exact[requirementKey{cycle: r.Cycle, year: r.Year, subject: r.Subject}] = r.RequiredMinutes

		sk := subjectKey{cycle: r.Cycle, subject: r.Subject}
		sums[sk] += r.RequiredMinutes
		counts[sk]++

		yk := yearKey{cycle: r.Cycle, year: r.Year}
		ref.byYear[yk] = append(ref.byYear[yk], r)
	}
	for sk, sum := range sums {
		ref.fallback[sk] = float64(sum) / float64(counts[sk])
	}

	return ref
}

// Lookup returns the reference minutes and whether they come from the fallback mean
func (r *Reference) Lookup(cycle model.Cycle, year, subject string) (minutes float64, fallback bool, ok bool) {
	if m, found := r.exact[requirementKey{cycle: cycle, year: year, subject: subject}]; found {
		return float64(m), false, true
	}
	if m, found := r.fallback[subjectKey{cycle: cycle, subject: subject}]; found {
		return m, true, true
	}
	return 0, false, false
}

// required lists the requirement rows of a cycle year
func (r *Reference) required(cycle model.Cycle, year string) []model.CurriculumRequirement {
	return r.byYear[yearKey{cycle: cycle, year: year}]
}

// Classify compares observed minutes to a reference.
// A fallback reference is a mean of distinct targets and never classifies as matched.
func Classify(observed int, reference float64, fallback bool) Status {
	o := float64(observed)
	switch {
	case !fallback && o == reference:
		return StatusMatched
	case fallback && o <= reference:
		return StatusPartial
	case o < reference:
		return StatusPartial
	default:
		return StatusExceeded
	}
}

// Reconcile sums teaching minutes per class and subject and compares them against the
// curriculum requirements. Blocks without a known class or a subject are skipped, and
// malformed block times count as zero minutes. Rows are sorted by class then subject.
func Reconcile(blocks []model.ScheduleBlock, classes []model.ClassGroup, requirements []model.CurriculumRequirement, opts Options) []Row {
	classIndex := make(map[string]model.ClassGroup, len(classes))
	for _, c := range classes {
		classIndex[c.ID] = c
	}

	observed := make(map[observedKey]int)
	for _, b := range blocks {
		if b.Category != model.CategoryTeaching || b.ClassGroupID == "" || b.Subject == "" {
			continue
		}
		if _, ok := classIndex[b.ClassGroupID]; !ok {
			continue
		}

		key := observedKey{classID: b.ClassGroupID, subject: b.Subject}
		minutes, err := rules.MinutesBetween(b.Start, b.End)
		if err != nil || minutes < 0 {
			minutes = 0
		}
		observed[key] += minutes
	}

	ref := NewReference(requirements)

	if opts.IncludeMissing {
		for _, c := range classes {
			for _, r := range ref.required(c.Cycle, c.Year) {
				key := observedKey{classID: c.ID, subject: r.Subject}
				if _, ok := observed[key]; !ok {
					observed[key] = 0
				}
			}
		}
	}

	rows := make([]Row, 0, len(observed))
	for key, minutes := range observed {
		class := classIndex[key.classID]
		row := Row{
			ClassGroupID:    key.classID,
			Cycle:           class.Cycle,
			Year:            class.Year,
			Subject:         key.subject,
			ObservedMinutes: minutes,
		}

		reference, fallback, ok := ref.Lookup(class.Cycle, class.Year, key.subject)
		if ok {
			row.ReferenceMinutes = &reference
			row.ReferenceIsFallback = fallback
			row.Status = Classify(minutes, reference, fallback)
		} else {
			row.Status = StatusUnreferenced
		}
		row.Text = describe(row)

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ClassGroupID != rows[j].ClassGroupID {
			return rows[i].ClassGroupID < rows[j].ClassGroupID
		}
		return rows[i].Subject < rows[j].Subject
	})

	return rows
}

// Summary counts rows per status
func Summary(rows []Row) map[Status]int {
	counts := make(map[Status]int, 4)
	for _, r := range rows {
		counts[r.Status]++
	}
	return counts
}

func describe(row Row) string {
	if row.ReferenceMinutes == nil {
		return fmt.Sprintf("%d min (sem referência)", row.ObservedMinutes)
	}
	if row.ReferenceIsFallback {
		return fmt.Sprintf("%d/%.0f min (aproximado)", row.ObservedMinutes, *row.ReferenceMinutes)
	}
	return fmt.Sprintf("%d/%.0f min (exato)", row.ObservedMinutes, *row.ReferenceMinutes)
}
