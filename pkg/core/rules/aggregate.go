package rules

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/servicodocente/dsd/pkg/core/model"
)

var (
	// ErrNoSchedule means the teacher owns no schedule blocks. It is a recognized
	// state rather than a failure: the rules are skipped for that teacher.
	ErrNoSchedule = errors.New("no schedule assigned")

	// ErrInvalidInterval means a block does not end after it starts
	ErrInvalidInterval = errors.New("block does not end after it starts")

	// ErrUnknownCategory means a block has a category outside the known set
	ErrUnknownCategory = errors.New("unknown block category")
)

// TimedBlock is a schedule block with its parsed boundaries
type TimedBlock struct {
	model.ScheduleBlock

	// StartMinute and EndMinute are minutes since midnight
	StartMinute int
	EndMinute   int

	// Duration is 0 for blocks whose times could not be used
	Duration int
}

// BlockIssue records a data problem found while aggregating a block.
// Issues never become compliance findings.
type BlockIssue struct {
	Block model.ScheduleBlock
	Err   error
}

// Aggregate holds the per-category totals of one teacher's week
type Aggregate struct {
	TeacherID string

	TeachingMinutes   int
	StudyMinutes      int
	IndividualMinutes int

	// Blocks are all blocks owned by the teacher, in input order
	Blocks []TimedBlock

	// PerDay groups the usable blocks by weekday, sorted by start then end
	PerDay map[model.Weekday][]TimedBlock

	Issues []BlockIssue
}

// TotalMinutes returns the sum of all categories
func (a *Aggregate) TotalMinutes() int {
	return a.TeachingMinutes + a.StudyMinutes + a.IndividualMinutes
}

// Days returns the weekdays that have blocks, in weekday order
func (a *Aggregate) Days() []model.Weekday {
	days := make([]model.Weekday, 0, len(a.PerDay))
	for day := range a.PerDay {
		days = append(days, day)
	}
	slices.Sort(days)
	return days
}

// AggregateSchedule sums the minutes of every block owned by teacherID per category.
// Returns ErrNoSchedule when the teacher owns no blocks.
func AggregateSchedule(teacherID string, blocks []model.ScheduleBlock) (*Aggregate, error) {
	agg := &Aggregate{
		TeacherID: teacherID,
		PerDay:    make(map[model.Weekday][]TimedBlock),
	}

	for _, block := range blocks {
		if block.TeacherID != teacherID {
			continue
		}

		timed, err := timeBlock(block)
		if err != nil {
			agg.Issues = append(agg.Issues, BlockIssue{Block: block, Err: err})
		}
		agg.Blocks = append(agg.Blocks, timed)

		switch block.Category {
		case model.CategoryTeaching:
			agg.TeachingMinutes += timed.Duration
		case model.CategorySchoolStudy:
			agg.StudyMinutes += timed.Duration
		case model.CategoryIndividualWork:
			agg.IndividualMinutes += timed.Duration
		default:
			agg.Issues = append(agg.Issues, BlockIssue{
				Block: block,
				Err:   fmt.Errorf("%w: %q", ErrUnknownCategory, block.Category),
			})
			continue
		}

		if err == nil {
			agg.PerDay[block.Weekday] = append(agg.PerDay[block.Weekday], timed)
		}
	}

	if len(agg.Blocks) == 0 {
		return nil, ErrNoSchedule
	}

	for day := range agg.PerDay {
		sortDayBlocks(agg.PerDay[day])
	}

	return agg, nil
}

// timeBlock parses the block boundaries. Blocks that cannot be timed get a zero duration.
func timeBlock(block model.ScheduleBlock) (TimedBlock, error) {
	timed := TimedBlock{ScheduleBlock: block}

	start, err := ParseClock(block.Start)
	if err != nil {
		return timed, err
	}
	end, err := ParseClock(block.End)
	if err != nil {
		return timed, err
	}

	timed.StartMinute = start
	timed.EndMinute = end
	if end <= start {
		return timed, fmt.Errorf("%s-%s: %w", block.Start, block.End, ErrInvalidInterval)
	}

	timed.Duration = end - start
	return timed, nil
}

func sortDayBlocks(blocks []TimedBlock) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].StartMinute != blocks[j].StartMinute {
			return blocks[i].StartMinute < blocks[j].StartMinute
		}
		return blocks[i].EndMinute < blocks[j].EndMinute
	})
}
