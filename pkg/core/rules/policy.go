package rules

import (
	"slices"

	"github.com/servicodocente/dsd/pkg/core/model"
)

// Policy holds every numeric constant of the workload rules.
// Values follow Despacho Normativo n.º 10-B/2018 unless overridden by config.
type Policy struct {
	// EarlyYearsGroups are the recruitment groups (pre-school and 1st cycle)
	// that must teach exactly EarlyYearsTeachingTarget minutes
	EarlyYearsGroups []string

	// EarlyYearsTeachingTarget is the weekly teaching minutes of early-years groups (25h)
	EarlyYearsTeachingTarget int

	// TeachingCeiling is the weekly teaching maximum of all other groups (22 x 50 min)
	TeachingCeiling int

	// RemainderThreshold is the smallest unused remainder below the ceiling that is a violation
	RemainderThreshold int

	// StudyTimeMinimum is the school's minimum for NLet Est. minutes
	StudyTimeMinimum int

	// StudyTimeCap is the legal maximum for NLet Est. minutes
	StudyTimeCap int

	// BlockUnit is the granularity teaching blocks must respect in GranularityCycles
	BlockUnit int

	// GranularityCycles are the class cycles whose teaching blocks must be whole BlockUnits
	GranularityCycles []model.Cycle

	// ShiftGapThreshold is the gap in minutes that starts a new shift
	ShiftGapThreshold int

	// MaxShiftsPerDay is the maximum number of shifts a teacher may work in one day
	MaxShiftsPerDay int

	// ApplyReduction lowers the teaching target by the teacher's Art. 79 reduction
	ApplyReduction bool
}

// DefaultPolicy returns the policy with the legal default values
func DefaultPolicy() Policy {
	return Policy{
		EarlyYearsGroups:         []string{"100", "110"},
		EarlyYearsTeachingTarget: 1500,
		TeachingCeiling:          1100,
		RemainderThreshold:       50,
		StudyTimeMinimum:         90,
		StudyTimeCap:             150,
		BlockUnit:                60,
		GranularityCycles:        []model.Cycle{model.CyclePre, model.CycleOne},
		ShiftGapThreshold:        120,
		MaxShiftsPerDay:          2,
	}
}

// IsEarlyYears reports whether a recruitment group belongs to the early-years regime
func (p Policy) IsEarlyYears(group string) bool {
	return slices.Contains(p.EarlyYearsGroups, group)
}

// RemainderAllowance is the largest remainder that is still compliant
func (p Policy) RemainderAllowance() int {
	return p.RemainderThreshold - 1
}

// requiresWholeUnits reports whether teaching blocks of a cycle must be whole BlockUnits
func (p Policy) requiresWholeUnits(cycle model.Cycle) bool {
	return slices.Contains(p.GranularityCycles, cycle)
}
