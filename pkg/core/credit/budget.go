package credit

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/servicodocente/dsd/pkg/core/model"
)

// Fixed by the regulation, not configurable
const (
	creditPerClass     = 7
	teipCreditPerClass = 10
)

var (
	sixty           = decimal.NewFromInt(60)
	reductionWeight = decimal.NewFromFloat(0.5)
)

// Line sources
const (
	SourceImputed     = "imputed"
	SourceApportioned = "apportioned"
)

// Line is one role assignment that draws from the credit budget
type Line struct {
	TeacherID string          `json:"teacherId"`
	DutyType  string          `json:"dutyType"`
	Minutes   int             `json:"minutes"`
	Hours     decimal.Decimal `json:"hours"`
	Source    string          `json:"source"`
}

// Report is the school-wide credit-hour budget in hours per week
type Report struct {
	ClassCount     int             `json:"classCount"`
	TEIP           bool            `json:"teip"`
	ReductionHours decimal.Decimal `json:"reductionHours"`
	Entitlement    decimal.Decimal `json:"entitlement"`
	Consumed       decimal.Decimal `json:"consumed"`

	// Balance may be negative when the school is over-committed
	Balance decimal.Decimal `json:"balance"`

	// Apportionment names the provisional class-director policy used
	Apportionment string `json:"apportionment"`
	Lines         []Line `json:"lines"`
}

// Entitlement computes the weekly credit: (10 if TEIP else 7) x classes - 0.5 x reduction hours
func Entitlement(classCount int, teip bool, reductionHours decimal.Decimal) decimal.Decimal {
	perClass := creditPerClass
	if teip {
		perClass = teipCreditPerClass
	}
	return decimal.NewFromInt(int64(perClass * classCount)).Sub(reductionWeight.Mul(reductionHours))
}

// FlatReductionHours converts the total Art. 79 reduction minutes to hours
func FlatReductionHours(totalMinutes int) decimal.Decimal {
	return minutesToHours(totalMinutes)
}

// Divisors are the minutes per unit used to convert reduction minutes per regime
type Divisors struct {
	EarlyYears int
	Other      int
}

// DefaultDivisors uses 60 min units for early-years groups and 50 min units otherwise
func DefaultDivisors() Divisors {
	return Divisors{EarlyYears: 60, Other: 50}
}

// ReductionHours converts every teacher's reduction with the divisor of their regime
// and sums the results
func ReductionHours(teachers []model.Teacher, isEarlyYears func(group string) bool, divisors Divisors) decimal.Decimal {
	total := decimal.Zero
	for _, t := range teachers {
		if t.ReductionMinutes == 0 {
			continue
		}
		divisor := divisors.Other
		if isEarlyYears(t.RecruitmentGroup) {
			divisor = divisors.EarlyYears
		}
		total = total.Add(decimal.NewFromInt(int64(t.ReductionMinutes)).Div(decimal.NewFromInt(int64(divisor))))
	}
	return total
}

// Calculator computes the credit budget of a school
type Calculator struct {
	TEIP bool

	// GroupDivisors converts reduction minutes per regime; when false all minutes are divided by 60
	GroupDivisors bool
	Divisors      Divisors
	IsEarlyYears  func(group string) bool

	Apportionment ApportionmentPolicy

	// DirectorThresholdMinutes is the minimum class-director time that draws credit
	DirectorThresholdMinutes int
}

// NewCalculator returns a calculator with the default divisors and apportionment
func NewCalculator(teip bool, isEarlyYears func(group string) bool) *Calculator {
	return &Calculator{
		TEIP:          teip,
		GroupDivisors: true,
		Divisors:      DefaultDivisors(),
		IsEarlyYears:  isEarlyYears,
		Apportionment: DefaultApportionment(),
	}
}

// Consumed sums the credit hours drawn by the role assignments.
// Assignments imputed to the teaching credit count in full; class-director duties
// with no imputation go through the apportionment policy; everything else is ignored.
func (c *Calculator) Consumed(assignments []model.RoleAssignment) (decimal.Decimal, []Line, error) {
	total := decimal.Zero
	var lines []Line

	for _, a := range assignments {
		var line Line
		switch {
		case a.Imputation == model.ImputationTeachingCredit:
			line = Line{Hours: minutesToHours(a.WeeklyMinutes), Source: SourceImputed}
		case a.Imputation == model.ImputationUnspecified && a.DutyType == model.DutyClassDirector &&
			a.WeeklyMinutes >= c.DirectorThresholdMinutes && c.Apportionment != nil:
			hours, err := c.Apportionment.CreditHours(a)
			if err != nil {
				return decimal.Zero, nil, fmt.Errorf("teacher %s: %w", a.TeacherID, err)
			}
			line = Line{Hours: hours, Source: SourceApportioned}
		default:
			continue
		}

		line.TeacherID = a.TeacherID
		line.DutyType = a.DutyType
		line.Minutes = a.WeeklyMinutes
		lines = append(lines, line)
		total = total.Add(line.Hours)
	}

	return total, lines, nil
}

// Budget computes entitlement, consumption and balance
func (c *Calculator) Budget(classCount int, teachers []model.Teacher, assignments []model.RoleAssignment) (*Report, error) {
	var reduction decimal.Decimal
	if c.GroupDivisors {
		reduction = ReductionHours(teachers, c.isEarlyYears, c.Divisors)
	} else {
		total := 0
		for _, t := range teachers {
			total += t.ReductionMinutes
		}
		reduction = FlatReductionHours(total)
	}

	consumed, lines, err := c.Consumed(assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to compute consumed credit: %w", err)
	}

	entitlement := Entitlement(classCount, c.TEIP, reduction)

	report := &Report{
		ClassCount:     classCount,
		TEIP:           c.TEIP,
		ReductionHours: reduction,
		Entitlement:    entitlement,
		Consumed:       consumed,
		Balance:        entitlement.Sub(consumed),
		Lines:          lines,
	}
	if c.Apportionment != nil {
		report.Apportionment = c.Apportionment.Name()
	}
	return report, nil
}

func (c *Calculator) isEarlyYears(group string) bool {
	if c.IsEarlyYears == nil {
		return false
	}
	return c.IsEarlyYears(group)
}

func minutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty)
}
