package sheetssql

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// TableNamer lets a model choose its table name instead of the snake_case struct name
type TableNamer interface {
	TableName() string
}

// SchemaFromModels builds a Schema by reflecting on struct definitions.
// Each struct is a table and each field a column; fields must carry
// `ssql_header:"column_name"` and `ssql_type:"column_type"` tags, and
// fields tagged `ssql_header:"-"` are skipped.
func SchemaFromModels(models ...interface{}) (*Schema, error) {
	tables := make([]TableSchema, 0, len(models))

	for _, model := range models {
		table, err := tableSchemaFromModel(model)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return &Schema{Tables: tables}, nil
}

func tableSchemaFromModel(model interface{}) (TableSchema, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return TableSchema{}, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	columns := make([]Column, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		header := field.Tag.Get("ssql_header")
		if header == "-" {
			continue
		}
		if header == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_header' tag", t.Name(), field.Name)
		}

		typeTag := field.Tag.Get("ssql_type")
		if typeTag == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_type' tag", t.Name(), field.Name)
		}

		columns = append(columns, Column{Name: header, Type: typeTag})
	}

	if len(columns) == 0 {
		return TableSchema{}, fmt.Errorf("struct %s has no fields", t.Name())
	}

	return TableSchema{
		Name:    tableName(t),
		Columns: columns,
	}, nil
}

// tableName returns the TableNamer name of a struct type, or its snake_case name
func tableName(t reflect.Type) string {
	if namer, ok := reflect.New(t).Elem().Interface().(TableNamer); ok {
		return namer.TableName()
	}
	return toSnakeCase(t.Name())
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// ensureSchema verifies the tables that exist and creates the missing ones
func (db *DB) ensureSchema(ctx context.Context) error {
	titles, err := db.client.SheetTitles(ctx, db.spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to get existing sheets: %w", err)
	}

	existing := make(map[string]bool, len(titles))
	for _, title := range titles {
		existing[title] = true
	}

	for _, table := range db.schema.Tables {
		if existing[table.Name] {
			if err := db.verifyTableSchema(ctx, table); err != nil {
				return fmt.Errorf("table %s schema mismatch: %w", table.Name, err)
			}
			continue
		}

		if err := db.createTable(ctx, table); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
	}

	return nil
}

// verifyTableSchema checks that every column of the schema is present with the right type.
// Columns may appear in any order and extra columns (notes kept by staff) are allowed.
func (db *DB) verifyTableSchema(ctx context.Context, table TableSchema) error {
	values, err := db.client.GetValues(ctx, db.spreadsheetID, fmt.Sprintf("%s!1:2", table.Name))
	if err != nil {
		return fmt.Errorf("failed to read table headers: %w", err)
	}

	if len(values) < 2 {
		return fmt.Errorf("table missing header or type row")
	}

	headers := columnIndexes(values[0])
	types := values[1]

	var missing []string
	for _, col := range table.Columns {
		idx, ok := headers[col.Name]
		if !ok {
			missing = append(missing, col.Name)
			continue
		}

		if idx >= len(types) || cellString(types[idx]) != col.Type {
			var found interface{}
			if idx < len(types) {
				found = types[idx]
			}
			return fmt.Errorf("column %s: expected type '%s', got '%v'", col.Name, col.Type, found)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}

	return nil
}

// createTable creates a new sheet with header and type rows
func (db *DB) createTable(ctx context.Context, table TableSchema) error {
	if _, err := db.client.CreateSheet(ctx, db.spreadsheetID, table.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := make([]interface{}, len(table.Columns))
	types := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		headers[i] = col.Name
		types[i] = col.Type
	}

	if err := db.client.AppendRows(ctx, db.spreadsheetID, table.Name, [][]interface{}{headers, types}); err != nil {
		return fmt.Errorf("failed to write headers and types: %w", err)
	}

	return nil
}
