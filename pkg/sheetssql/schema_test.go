package sheetssql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestTeacher struct {
	ID        string `ssql_header:"id" ssql_type:"text"`
	Name      string `ssql_header:"nome" ssql_type:"text"`
	Reduction int    `ssql_header:"reducao_min" ssql_type:"int"`
}

type TestRun struct {
	ID       string `ssql_header:"id" ssql_type:"uuid"`
	Teachers int    `ssql_header:"docentes" ssql_type:"int"`
	Internal string `ssql_header:"-"`
}

func (TestRun) TableName() string {
	return "execucoes"
}

func TestSchemaFromModels(t *testing.T) {
	schema, err := SchemaFromModels(TestTeacher{}, &TestRun{})
	require.NoError(t, err)
	require.Len(t, schema.Tables, 2)

	teachers := schema.Tables[0]
	assert.Equal(t, "test_teacher", teachers.Name)
	assert.Equal(t, []Column{
		{Name: "id", Type: "text"},
		{Name: "nome", Type: "text"},
		{Name: "reducao_min", Type: "int"},
	}, teachers.Columns)

	runs, ok := schema.Table("execucoes")
	require.True(t, ok)
	assert.Len(t, runs.Columns, 2)

	_, ok = schema.Table("missing")
	assert.False(t, ok)
}

func TestSchemaFromModels_Errors(t *testing.T) {
	type NoHeader struct {
		ID string `ssql_type:"text"`
	}
	type NoType struct {
		ID string `ssql_header:"id"`
	}
	type Empty struct{}

	tests := []struct {
		name     string
		model    interface{}
		expected string
	}{
		{name: "not a struct", model: "docentes", expected: "model must be a struct"},
		{name: "missing header", model: NoHeader{}, expected: "missing 'ssql_header' tag"},
		{name: "missing type", model: NoType{}, expected: "missing 'ssql_type' tag"},
		{name: "no fields", model: Empty{}, expected: "has no fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SchemaFromModels(tt.model)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "schedule_block", toSnakeCase("ScheduleBlock"))
	assert.Equal(t, "teacher", toSnakeCase("Teacher"))
	assert.Equal(t, "a_b_c", toSnakeCase("ABC"))
}

func TestNewDB_CreatesMissingTables(t *testing.T) {
	fake := newFakeSheets()
	fake.addTab("test_teacher", row("id", "nome", "reducao_min"), row("text", "text", "int"))

	schema, err := SchemaFromModels(TestTeacher{}, TestRun{})
	require.NoError(t, err)

	_, err = NewDB(context.Background(), fake, "sheet", schema)
	require.NoError(t, err)

	assert.Equal(t, []string{"execucoes"}, fake.created)
	assert.Equal(t, [][]interface{}{
		{"id", "docentes"},
		{"uuid", "int"},
	}, fake.tabs["execucoes"])
}

func TestNewDB_AcceptsReorderedAndExtraColumns(t *testing.T) {
	fake := newFakeSheets()
	fake.addTab("test_teacher",
		row("observacoes", "reducao_min", "id", "nome"),
		row("text", "int", "text", "text"),
	)

	schema, err := SchemaFromModels(TestTeacher{})
	require.NoError(t, err)

	_, err = NewDB(context.Background(), fake, "sheet", schema)
	assert.NoError(t, err)
	assert.Empty(t, fake.created)
}

func TestNewDB_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]interface{}
		expected string
	}{
		{
			name:     "missing type row",
			rows:     [][]interface{}{row("id", "nome", "reducao_min")},
			expected: "missing header or type row",
		},
		{
			name:     "missing column",
			rows:     [][]interface{}{row("id", "nome"), row("text", "text")},
			expected: "missing columns: reducao_min",
		},
		{
			name:     "wrong type",
			rows:     [][]interface{}{row("id", "nome", "reducao_min"), row("text", "text", "text")},
			expected: "column reducao_min: expected type 'int'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeSheets()
			fake.addTab("test_teacher", tt.rows...)

			schema, err := SchemaFromModels(TestTeacher{})
			require.NoError(t, err)

			_, err = NewDB(context.Background(), fake, "sheet", schema)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "table test_teacher schema mismatch")
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}
