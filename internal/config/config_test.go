package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicodocente/dsd/pkg/core/credit"
	"github.com/servicodocente/dsd/pkg/core/model"
	"github.com/servicodocente/dsd/pkg/core/rules"
)

func sheetsConfig() *Config {
	cfg := Default()
	cfg.Source.DatabaseSheetID = "db789"
	return &cfg
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dsd_config.test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_MatchesRulesPolicy(t *testing.T) {
	cfg := Default()
	assert.Equal(t, rules.DefaultPolicy(), cfg.Policy.RulesPolicy())
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(sheetsConfig()))
}

func TestValidate_SourceRequirements(t *testing.T) {
	tests := []struct {
		name   string
		source SourceConfig
		valid  bool
	}{
		{name: "sheets with id", source: SourceConfig{Kind: SourceSheets, DatabaseSheetID: "abc"}, valid: true},
		{name: "sheets without id", source: SourceConfig{Kind: SourceSheets}},
		{name: "postgres with url", source: SourceConfig{Kind: SourcePostgres, PostgresURL: "postgres://localhost/dsd"}, valid: true},
		{name: "postgres without url", source: SourceConfig{Kind: SourcePostgres}},
		{name: "file with path", source: SourceConfig{Kind: SourceFile, DatasetPath: "escola.yaml"}, valid: true},
		{name: "file without path", source: SourceConfig{Kind: SourceFile}},
		{name: "unknown kind", source: SourceConfig{Kind: "excel"}},
		{name: "missing kind", source: SourceConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Source = tt.source

			err := Validate(&cfg)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "validation failed")
			}
		})
	}
}

func TestValidate_PolicyBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "study cap below minimum", mutate: func(c *Config) { c.Policy.StudyTimeCap = 60 }},
		{name: "zero block unit", mutate: func(c *Config) { c.Policy.BlockUnit = 0 }},
		{name: "no early-years groups", mutate: func(c *Config) { c.Policy.EarlyYearsGroups = nil }},
		{name: "unknown granularity cycle", mutate: func(c *Config) { c.Policy.GranularityCycles = []string{"Cycle9"} }},
		{name: "director share above one", mutate: func(c *Config) { c.Credit.DirectorShare = 1.5 }},
		{name: "zero workers", mutate: func(c *Config) { c.Evaluation.Workers = 0 }},
		{name: "missing server addr", mutate: func(c *Config) { c.Server.Addr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sheetsConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestValidate_StudyMinimumEqualToCap(t *testing.T) {
	cfg := sheetsConfig()
	cfg.Policy.StudyTimeMinimum = 150
	cfg.Policy.StudyTimeCap = 150

	assert.NoError(t, Validate(cfg))
}

func TestValidate_InvalidFormula(t *testing.T) {
	cfg := sheetsConfig()
	cfg.Credit.DirectorFormula = "horas *"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "directorFormula")
}

func TestLoadFromPath_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
school:
  name: "Agrupamento de Escolas de Exemplo"
  teip: true
source:
  kind: file
  datasetPath: escola.yaml
policy:
  studyTimeMinimum: 100
  applyReduction: true
credit:
  directorFormula: "horas >= 4 ? 2 : horas * 0.5"
coverage:
  includeMissing: true
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "Agrupamento de Escolas de Exemplo", cfg.School.Name)
	assert.True(t, cfg.School.TEIP)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, 100, cfg.Policy.StudyTimeMinimum)
	assert.True(t, cfg.Policy.ApplyReduction)
	assert.True(t, cfg.Coverage.IncludeMissing)

	// untouched values keep their defaults
	assert.Equal(t, 1100, cfg.Policy.TeachingCeiling)
	assert.Equal(t, []string{"100", "110"}, cfg.Policy.EarlyYearsGroups)
	assert.True(t, cfg.Credit.GroupDivisors)
	assert.Equal(t, 8, cfg.Evaluation.Workers)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "source: [kind")

	_, err := LoadFromPath(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/dsd_config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestRulesPolicy(t *testing.T) {
	cfg := sheetsConfig()
	cfg.Policy.GranularityCycles = []string{"Pre"}
	cfg.Policy.MaxShiftsPerDay = 3

	policy := cfg.Policy.RulesPolicy()
	assert.Equal(t, []model.Cycle{model.CyclePre}, policy.GranularityCycles)
	assert.Equal(t, 3, policy.MaxShiftsPerDay)
	assert.True(t, policy.IsEarlyYears("110"))
}

func TestCalculator(t *testing.T) {
	t.Run("flat share", func(t *testing.T) {
		cfg := sheetsConfig()
		cfg.Credit.DirectorShare = 0.25

		calc, err := cfg.Calculator()
		require.NoError(t, err)
		assert.IsType(t, credit.FlatShare{}, calc.Apportionment)
		assert.Equal(t, "flat 25%", calc.Apportionment.Name())
	})

	t.Run("formula", func(t *testing.T) {
		cfg := sheetsConfig()
		cfg.Credit.DirectorFormula = "horas * 0.5"
		cfg.Credit.DirectorThresholdMinutes = 240

		calc, err := cfg.Calculator()
		require.NoError(t, err)
		assert.Equal(t, "formula horas * 0.5", calc.Apportionment.Name())
		assert.Equal(t, 240, calc.DirectorThresholdMinutes)
	})

	t.Run("school settings", func(t *testing.T) {
		cfg := sheetsConfig()
		cfg.School.TEIP = true
		cfg.Credit.UnitMinutes = 45

		calc, err := cfg.Calculator()
		require.NoError(t, err)
		assert.True(t, calc.TEIP)
		assert.Equal(t, credit.Divisors{EarlyYears: 60, Other: 45}, calc.Divisors)
		assert.True(t, calc.IsEarlyYears("100"))
	})
}

func TestLoadFromPath_ExampleConfig(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join("..", "..", "dsd_config.example.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SourceSheets, cfg.Source.Kind)
	assert.Equal(t, Default().Policy, cfg.Policy)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)

	calc, err := cfg.Calculator()
	require.NoError(t, err)
	assert.Equal(t, "flat 50%", calc.Apportionment.Name())
}
