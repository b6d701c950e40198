package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/servicodocente/dsd/pkg/core/credit"
	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/rules"
)

// Data source kinds
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceFile     = "file"
)

// SchoolConfig describes the school being evaluated
type SchoolConfig struct {
	Name string `yaml:"name"`
	TEIP bool   `yaml:"teip"`
}

// SourceConfig selects where the input tables are read from
type SourceConfig struct {
	Kind            string `yaml:"kind" validate:"required,oneof=sheets postgres file"`
	DatabaseSheetID string `yaml:"databaseSheetID" validate:"required_if=Kind sheets"`
	PostgresURL     string `yaml:"postgresURL" validate:"required_if=Kind postgres"`
	DatasetPath     string `yaml:"datasetPath" validate:"required_if=Kind file"`
}

// PolicyConfig holds every numeric constant of the compliance rules
type PolicyConfig struct {
	EarlyYearsGroups         []string `yaml:"earlyYearsGroups" validate:"required,min=1,dive,required"`
	EarlyYearsTeachingTarget int      `yaml:"earlyYearsTeachingTarget" validate:"min=1"`
	TeachingCeiling          int      `yaml:"teachingCeiling" validate:"min=1"`
	RemainderThreshold       int      `yaml:"remainderThreshold" validate:"min=1"`
	StudyTimeMinimum         int      `yaml:"studyTimeMinimum" validate:"min=0"`
	StudyTimeCap             int      `yaml:"studyTimeCap" validate:"gtefield=StudyTimeMinimum"`
	BlockUnit                int      `yaml:"blockUnit" validate:"min=1"`
	GranularityCycles        []string `yaml:"granularityCycles" validate:"dive,oneof=Pre Cycle1 Cycle2 Cycle3 Secondary"`
	ShiftGapThreshold        int      `yaml:"shiftGapThreshold" validate:"min=1"`
	MaxShiftsPerDay          int      `yaml:"maxShiftsPerDay" validate:"min=1"`
	ApplyReduction           bool     `yaml:"applyReduction"`
}

// CreditConfig tunes the credit-hour budget
type CreditConfig struct {
	// GroupDivisors converts reduction minutes with 60 min units for early-years
	// groups and UnitMinutes for the rest; when false everything is divided by 60
	GroupDivisors            bool    `yaml:"groupDivisors"`
	EarlyYearsDivisor        int     `yaml:"earlyYearsDivisor" validate:"min=1"`
	UnitMinutes              int     `yaml:"unitMinutes" validate:"min=1"`
	DirectorThresholdMinutes int     `yaml:"directorThresholdMinutes" validate:"min=0"`
	DirectorShare            float64 `yaml:"directorShare" validate:"gte=0,lte=1"`

	// DirectorFormula replaces DirectorShare when set, e.g. "horas >= 4 ? 2 : horas * 0.5"
	DirectorFormula string `yaml:"directorFormula,omitempty"`
}

// CoverageConfig tunes the curriculum reconciliation
type CoverageConfig struct {
	IncludeMissing bool `yaml:"includeMissing"`
}

// EvaluationConfig tunes how runs are executed
type EvaluationConfig struct {
	Workers int `yaml:"workers" validate:"min=1,max=64"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,required"`
}

// Config represents the application configuration
type Config struct {
	School     SchoolConfig     `yaml:"school"`
	Source     SourceConfig     `yaml:"source"`
	Policy     PolicyConfig     `yaml:"policy"`
	Credit     CreditConfig     `yaml:"credit"`
	Coverage   CoverageConfig   `yaml:"coverage"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Server     ServerConfig     `yaml:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration matching Despacho Normativo n.º 10-B/2018
func Default() Config {
	policy := rules.DefaultPolicy()

	cycles := make([]string, len(policy.GranularityCycles))
	for i, c := range policy.GranularityCycles {
		cycles[i] = string(c)
	}

	divisors := credit.DefaultDivisors()

	return Config{
		Source: SourceConfig{Kind: SourceSheets},
		Policy: PolicyConfig{
			EarlyYearsGroups:         append([]string(nil), policy.EarlyYearsGroups...),
			EarlyYearsTeachingTarget: policy.EarlyYearsTeachingTarget,
			TeachingCeiling:          policy.TeachingCeiling,
			RemainderThreshold:       policy.RemainderThreshold,
			StudyTimeMinimum:         policy.StudyTimeMinimum,
			StudyTimeCap:             policy.StudyTimeCap,
			BlockUnit:                policy.BlockUnit,
			GranularityCycles:        cycles,
			ShiftGapThreshold:        policy.ShiftGapThreshold,
			MaxShiftsPerDay:          policy.MaxShiftsPerDay,
			ApplyReduction:           policy.ApplyReduction,
		},
		Credit: CreditConfig{
			GroupDivisors:     true,
			EarlyYearsDivisor: divisors.EarlyYears,
			UnitMinutes:       divisors.Other,
			DirectorShare:     0.5,
		},
		Evaluation: EvaluationConfig{Workers: 8},
		Server:     ServerConfig{Addr: ":8080"},
	}
}

// Load loads and validates the configuration from dsd_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="prod" will look for "dsd_config.prod.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Values missing from the file keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks the apportionment formula
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Credit.DirectorFormula != "" {
		if _, err := credit.NewFormulaPolicy(cfg.Credit.DirectorFormula); err != nil {
			return fmt.Errorf("invalid credit.directorFormula: %w", err)
		}
	}

	return nil
}

// RulesPolicy converts the policy section to the rule engine policy
func (p PolicyConfig) RulesPolicy() rules.Policy {
	cycles := make([]model.Cycle, len(p.GranularityCycles))
	for i, c := range p.GranularityCycles {
		cycles[i] = model.Cycle(c)
	}

	return rules.Policy{
		EarlyYearsGroups:         append([]string(nil), p.EarlyYearsGroups...),
		EarlyYearsTeachingTarget: p.EarlyYearsTeachingTarget,
		TeachingCeiling:          p.TeachingCeiling,
		RemainderThreshold:       p.RemainderThreshold,
		StudyTimeMinimum:         p.StudyTimeMinimum,
		StudyTimeCap:             p.StudyTimeCap,
		BlockUnit:                p.BlockUnit,
		GranularityCycles:        cycles,
		ShiftGapThreshold:        p.ShiftGapThreshold,
		MaxShiftsPerDay:          p.MaxShiftsPerDay,
		ApplyReduction:           p.ApplyReduction,
	}
}

// Calculator builds the credit calculator for the school
func (c *Config) Calculator() (*credit.Calculator, error) {
	policy := c.Policy.RulesPolicy()

	calc := credit.NewCalculator(c.School.TEIP, policy.IsEarlyYears)
	calc.GroupDivisors = c.Credit.GroupDivisors
	calc.Divisors = credit.Divisors{EarlyYears: c.Credit.EarlyYearsDivisor, Other: c.Credit.UnitMinutes}
	calc.DirectorThresholdMinutes = c.Credit.DirectorThresholdMinutes

	if c.Credit.DirectorFormula != "" {
		formula, err := credit.NewFormulaPolicy(c.Credit.DirectorFormula)
		if err != nil {
			return nil, err
		}
		calc.Apportionment = formula
	} else {
		calc.Apportionment = credit.FlatShare{Share: decimal.NewFromFloat(c.Credit.DirectorShare)}
	}

	return calc, nil
}

// findConfigFile searches for dsd_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "dsd_config.prod.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "dsd_config.yaml"
	if env != "" {
		configFileName = "dsd_config." + env + ".yaml"
	}
	return findFile(configFileName)
}
