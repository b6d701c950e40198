package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicodocente/dsd/pkg/core/model"
)

func block(teacherID string, day model.Weekday, start, end string, category model.Category) model.ScheduleBlock {
	return model.ScheduleBlock{
		TeacherID: teacherID,
		Weekday:   day,
		Start:     start,
		End:       end,
		Category:  category,
		Site:      "Sede",
	}
}

func TestAggregateSchedule_SumsPerCategory(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D1", model.Monday, "08:30", "10:10", model.CategoryTeaching),
		block("D1", model.Monday, "10:20", "12:00", model.CategoryTeaching),
		block("D1", model.Wednesday, "14:00", "15:40", model.CategorySchoolStudy),
		block("D1", model.Thursday, "14:00", "15:00", model.CategoryIndividualWork),
		block("D2", model.Monday, "08:30", "10:10", model.CategoryTeaching),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)

	assert.Equal(t, "D1", agg.TeacherID)
	assert.Equal(t, 200, agg.TeachingMinutes)
	assert.Equal(t, 100, agg.StudyMinutes)
	assert.Equal(t, 60, agg.IndividualMinutes)
	assert.Equal(t, 360, agg.TotalMinutes())
	assert.Len(t, agg.Blocks, 4)
	assert.Empty(t, agg.Issues)
	assert.Equal(t, []model.Weekday{model.Monday, model.Wednesday, model.Thursday}, agg.Days())
}

func TestAggregateSchedule_NoSchedule(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D2", model.Monday, "08:30", "10:10", model.CategoryTeaching),
	}

	agg, err := AggregateSchedule("D1", blocks)
	assert.ErrorIs(t, err, ErrNoSchedule)
	assert.Nil(t, agg)
}

func TestAggregateSchedule_ZeroMinutesIsNotNoSchedule(t *testing.T) {
	// A teacher whose only block is malformed still has a schedule
	blocks := []model.ScheduleBlock{
		block("D1", model.Monday, "8h30", "10:10", model.CategoryTeaching),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.TeachingMinutes)
	require.Len(t, agg.Issues, 1)

	var malformed *MalformedTimeError
	assert.ErrorAs(t, agg.Issues[0].Err, &malformed)
}

func TestAggregateSchedule_InvalidIntervalCountsAsZero(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D1", model.Monday, "10:00", "09:00", model.CategoryTeaching),
		block("D1", model.Monday, "11:00", "12:00", model.CategoryTeaching),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)

	assert.Equal(t, 60, agg.TeachingMinutes)
	require.Len(t, agg.Issues, 1)
	assert.ErrorIs(t, agg.Issues[0].Err, ErrInvalidInterval)

	// Only the usable block takes part in shift counting
	require.Len(t, agg.PerDay[model.Monday], 1)
	assert.Equal(t, "11:00", agg.PerDay[model.Monday][0].Start)
}

func TestAggregateSchedule_UnknownCategoryExcluded(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D1", model.Monday, "08:00", "09:00", model.Category("REUNIAO")),
		block("D1", model.Monday, "09:00", "10:00", model.CategoryTeaching),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)

	assert.Equal(t, 60, agg.TeachingMinutes)
	assert.Equal(t, 60, agg.TotalMinutes())
	require.Len(t, agg.Issues, 1)
	assert.ErrorIs(t, agg.Issues[0].Err, ErrUnknownCategory)
	assert.Len(t, agg.PerDay[model.Monday], 1)
}

func TestAggregateSchedule_PerDaySortedByStartThenEnd(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D1", model.Tuesday, "14:00", "15:00", model.CategoryTeaching),
		block("D1", model.Tuesday, "08:00", "10:00", model.CategoryTeaching),
		block("D1", model.Tuesday, "08:00", "09:00", model.CategorySchoolStudy),
		block("D1", model.Tuesday, "11:00", "12:00", model.CategoryIndividualWork),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)

	day := agg.PerDay[model.Tuesday]
	require.Len(t, day, 4)
	assert.Equal(t, "08:00-09:00", day[0].Start+"-"+day[0].End)
	assert.Equal(t, "08:00-10:00", day[1].Start+"-"+day[1].End)
	assert.Equal(t, "11:00", day[2].Start)
	assert.Equal(t, "14:00", day[3].Start)
}

func TestAggregateSchedule_SumEqualsBlocks(t *testing.T) {
	blocks := []model.ScheduleBlock{
		block("D1", model.Monday, "08:00", "08:50", model.CategoryTeaching),
		block("D1", model.Monday, "08:50", "09:40", model.CategoryTeaching),
		block("D1", model.Friday, "13:00", "13:45", model.CategorySchoolStudy),
	}

	agg, err := AggregateSchedule("D1", blocks)
	require.NoError(t, err)

	sum := 0
	for _, b := range agg.Blocks {
		sum += b.Duration
	}
	assert.Equal(t, sum, agg.TotalMinutes())
}
