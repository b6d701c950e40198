package sheetssql

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, fake *fakeSheets) *DB {
	t.Helper()

	schema, err := SchemaFromModels(TestTeacher{}, TestRun{})
	require.NoError(t, err)

	db, err := NewDB(context.Background(), fake, "sheet", schema)
	require.NoError(t, err)
	return db
}

func TestGetTableAs(t *testing.T) {
	fake := newFakeSheets()
	fake.addTab("test_teacher",
		row("nome", "id", "reducao_min", "observacoes"),
		row("text", "text", "int", "text"),
		row("Ana Sousa", "D1", "120", "coordenadora"),
		row(),
		row(" Rui Costa ", "D2"),
		row("Eva Lima", "D3", "muito"),
		row("Rita Dias", "D4", 90.0),
	)
	db := openTestDB(t, fake)

	rows, err := GetTableAs[TestTeacher](context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, 3, rows[0].Number)
	assert.Equal(t, TestTeacher{ID: "D1", Name: "Ana Sousa", Reduction: 120}, rows[0].Value)
	assert.NoError(t, rows[0].Err)

	// the blank row keeps its number slot
	assert.Equal(t, 5, rows[1].Number)
	assert.Equal(t, TestTeacher{ID: "D2", Name: "Rui Costa"}, rows[1].Value)

	assert.Equal(t, 6, rows[2].Number)
	require.Error(t, rows[2].Err)
	assert.Contains(t, rows[2].Err.Error(), "column reducao_min")
	assert.Equal(t, "D3", rows[2].Value.ID)

	assert.Equal(t, 90, rows[3].Value.Reduction)
}

func TestGetTableAs_EmptyTable(t *testing.T) {
	fake := newFakeSheets()
	db := openTestDB(t, fake)

	rows, err := GetTableAs[TestTeacher](context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestInsertModels(t *testing.T) {
	fake := newFakeSheets()
	db := openTestDB(t, fake)

	err := InsertModels(context.Background(), db, []TestRun{
		{ID: "run-1", Teachers: 12, Internal: "ignored"},
		{ID: "run-2", Teachers: 3},
	})
	require.NoError(t, err)
	require.NoError(t, InsertModel(context.Background(), db, TestRun{ID: "run-3", Teachers: 1}))
	require.NoError(t, InsertModels[TestRun](context.Background(), db, nil))

	assert.Equal(t, [][]interface{}{
		{"id", "docentes"},
		{"uuid", "int"},
		{"run-1", 12},
		{"run-2", 3},
		{"run-3", 1},
	}, fake.tabs["execucoes"])

	rows, err := GetTableAs[TestRun](context.Background(), db)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "run-2", rows[1].Value.ID)
	assert.Equal(t, 3, rows[1].Value.Teachers)
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "test_teacher", TableName[TestTeacher]())
	assert.Equal(t, "execucoes", TableName[TestRun]())
}

func TestSetFieldValue(t *testing.T) {
	type target struct {
		Name   string
		Count  int
		Ratio  float64
		Active bool
	}

	tests := []struct {
		name     string
		field    int
		cell     interface{}
		expected interface{}
		wantErr  string
	}{
		{name: "string trimmed", field: 0, cell: "  Português ", expected: "Português"},
		{name: "int", field: 1, cell: "42", expected: 42},
		{name: "empty int", field: 1, cell: "", expected: 0},
		{name: "whole float as int", field: 1, cell: "90.0", expected: 90},
		{name: "fractional int", field: 1, cell: "90.5", wantErr: "failed to parse int"},
		{name: "invalid int", field: 1, cell: "not a number", wantErr: "failed to parse int"},
		{name: "numeric cell", field: 1, cell: 150.0, expected: 150},
		{name: "decimal comma", field: 2, cell: "0,5", expected: 0.5},
		{name: "bool", field: 3, cell: "true", expected: true},
		{name: "sim", field: 3, cell: "Sim", expected: true},
		{name: "não", field: 3, cell: "não", expected: false},
		{name: "invalid bool", field: 3, cell: "talvez", wantErr: "failed to parse bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s target
			field := reflect.ValueOf(&s).Elem().Field(tt.field)

			err := setFieldValue(field, tt.cell)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, field.Interface())
		})
	}
}
