package model

import (
	"fmt"
	"strings"
)

// Cycle is a Portuguese schooling stage
type Cycle string

const (
	CyclePre       Cycle = "Pre"
	CycleOne       Cycle = "Cycle1"
	CycleTwo       Cycle = "Cycle2"
	CycleThree     Cycle = "Cycle3"
	CycleSecondary Cycle = "Secondary"
)

func (c Cycle) IsValid() bool {
	switch c {
	case CyclePre, CycleOne, CycleTwo, CycleThree, CycleSecondary:
		return true
	}
	return false
}

// Label returns the label used in Portuguese school tables
func (c Cycle) Label() string {
	switch c {
	case CyclePre:
		return "Pré"
	case CycleOne:
		return "1º"
	case CycleTwo:
		return "2º"
	case CycleThree:
		return "3º"
	case CycleSecondary:
		return "Sec"
	}
	return string(c)
}

var cycleLabels = map[string]Cycle{
	"pre": CyclePre, "pré": CyclePre, "pe": CyclePre,
	"1º": CycleOne, "1": CycleOne, "1c": CycleOne, "cycle1": CycleOne,
	"2º": CycleTwo, "2": CycleTwo, "2c": CycleTwo, "cycle2": CycleTwo,
	"3º": CycleThree, "3": CycleThree, "3c": CycleThree, "cycle3": CycleThree,
	"sec": CycleSecondary, "secundário": CycleSecondary, "secondary": CycleSecondary,
}

// ParseCycle parses a cycle label such as "1º", "Sec" or "Cycle2"
func ParseCycle(s string) (Cycle, error) {
	if c, ok := cycleLabels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown cycle %q", s)
}

// Weekday is a school weekday. The zero value is invalid.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayLabels = [...]string{"", "2ª", "3ª", "4ª", "5ª", "6ª", "Sáb"}

func (d Weekday) IsValid() bool {
	return d >= Monday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayLabels[d]
}

var weekdayAliases = map[string]Weekday{
	"2ª": Monday, "2a": Monday, "seg": Monday, "segunda": Monday, "mon": Monday,
	"3ª": Tuesday, "3a": Tuesday, "ter": Tuesday, "terça": Tuesday, "tue": Tuesday,
	"4ª": Wednesday, "4a": Wednesday, "qua": Wednesday, "quarta": Wednesday, "wed": Wednesday,
	"5ª": Thursday, "5a": Thursday, "qui": Thursday, "quinta": Thursday, "thu": Thursday,
	"6ª": Friday, "6a": Friday, "sex": Friday, "sexta": Friday, "fri": Friday,
	"sáb": Saturday, "sab": Saturday, "sábado": Saturday, "sat": Saturday,
}

// ParseWeekday parses a weekday label such as "2ª", "seg" or "Mon"
func ParseWeekday(s string) (Weekday, error) {
	if d, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Category classifies the time a schedule block represents
type Category string

const (
	// CategoryTeaching is direct instruction (componente letiva)
	CategoryTeaching Category = "LETIVA"
	// CategorySchoolStudy is non-teaching time at school (NLet Est.)
	CategorySchoolStudy Category = "NLET_EST"
	// CategoryIndividualWork is individual preparation time (NLet Ind.)
	CategoryIndividualWork Category = "NLET_IND"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryTeaching, CategorySchoolStudy, CategoryIndividualWork:
		return true
	}
	return false
}

var categoryAliases = map[string]Category{
	"letiva": CategoryTeaching, "let": CategoryTeaching,
	"nlet_est": CategorySchoolStudy, "nlet est.": CategorySchoolStudy, "nlet est": CategorySchoolStudy,
	"nlet_ind": CategoryIndividualWork, "nlet ind.": CategoryIndividualWork, "nlet ind": CategoryIndividualWork,
}

// ParseCategory normalizes the category labels used in school tables.
// Unknown labels are returned unchanged so the aggregator can report them.
func ParseCategory(s string) Category {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return Category(strings.TrimSpace(s))
}

// ParseImputation parses an imputation code; an empty string is unspecified
func ParseImputation(s string) (Imputation, error) {
	i := Imputation(strings.ToUpper(strings.TrimSpace(s)))
	if !i.IsValid() {
		return "", fmt.Errorf("unknown imputation %q", s)
	}
	return i, nil
}

// Imputation says which budget an administrative duty draws from
type Imputation string

const (
	ImputationUnspecified    Imputation = ""
	ImputationTeachingCredit Imputation = "CH"
	ImputationReduction      Imputation = "ART79"
	ImputationSchoolDuty     Imputation = "NLET"
)

func (i Imputation) IsValid() bool {
	switch i {
	case ImputationUnspecified, ImputationTeachingCredit, ImputationReduction, ImputationSchoolDuty:
		return true
	}
	return false
}

// DutyClassDirector is the duty type of a class director (diretor de turma)
const DutyClassDirector = "DT"

// Teacher represents a teacher and the attributes the rules depend on
type Teacher struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	RecruitmentGroup string `json:"recruitmentGroup"`
	ReductionMinutes int    `json:"reductionMinutes"` // Art. 79 reduction
}

// ClassGroup represents a class (turma)
type ClassGroup struct {
	ID           string `json:"id"`
	Cycle        Cycle  `json:"cycle"`
	Year         string `json:"year"` // "1".."12" or "Pre"
	Track        string `json:"track"`
	StudentCount int    `json:"studentCount"`
	Site         string `json:"site"`
}

// ScheduleBlock is one weekly timetable block of a teacher
type ScheduleBlock struct {
	TeacherID    string   `json:"teacherId"`
	Weekday      Weekday  `json:"weekday"`
	Start        string   `json:"start"` // HH:MM
	End          string   `json:"end"`   // HH:MM
	Category     Category `json:"category"`
	Site         string   `json:"site,omitempty"`
	ClassGroupID string   `json:"classGroupId,omitempty"`
	Subject      string   `json:"subject,omitempty"`
}

// RoleAssignment is an administrative duty held by a teacher
type RoleAssignment struct {
	TeacherID     string     `json:"teacherId"`
	DutyType      string     `json:"dutyType"`
	WeeklyMinutes int        `json:"weeklyMinutes"`
	Imputation    Imputation `json:"imputation"`
}

// CurriculumRequirement is the weekly minutes a subject needs in a cycle year
type CurriculumRequirement struct {
	Cycle           Cycle  `json:"cycle"`
	Year            string `json:"year"`
	Subject         string `json:"subject"`
	RequiredMinutes int    `json:"requiredMinutes"`
}

// Dataset holds the normalized input tables of one evaluation run
type Dataset struct {
	Teachers     []Teacher
	Classes      []ClassGroup
	Blocks       []ScheduleBlock
	Roles        []RoleAssignment
	Requirements []CurriculumRequirement
}

// ClassIndex returns the class groups keyed by ID
func (d *Dataset) ClassIndex() map[string]ClassGroup {
	index := make(map[string]ClassGroup, len(d.Classes))
	for _, c := range d.Classes {
		index[c.ID] = c
	}
	return index
}

// TeacherIndex returns the teachers keyed by ID
func (d *Dataset) TeacherIndex() map[string]Teacher {
	index := make(map[string]Teacher, len(d.Teachers))
	for _, t := range d.Teachers {
		index[t.ID] = t
	}
	return index
}
