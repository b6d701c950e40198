package sheetssql

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// dataStartRow is the sheet row number of the first data row
const dataStartRow = 3

// Row is one data row mapped to T. Err is set when a cell could not be converted;
// the other fields of Value are still filled in.
type Row[T any] struct {
	// Number is the row number as shown in the spreadsheet
	Number int
	Value  T
	Err    error
}

// TableName returns the table name used for T
func TableName[T any]() string {
	var model T
	return tableName(reflect.TypeOf(model))
}

// GetTableAs reads every data row of T's table and maps it to T by column header.
// Blank rows are skipped. A bad cell only fails its own row.
func GetTableAs[T any](ctx context.Context, db *DB) ([]Row[T], error) {
	var model T
	t := reflect.TypeOf(model)
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}
	name := tableName(t)

	values, err := db.client.GetValues(ctx, db.spreadsheetID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", name, err)
	}

	if len(values) < 1 {
		return nil, fmt.Errorf("table %s has no header row", name)
	}
	if len(values) < dataStartRow {
		return []Row[T]{}, nil
	}

	indexes := columnIndexes(values[0])

	// Map each tagged field to its column position
	type fieldColumn struct {
		field  int
		column int
		header string
	}
	var mapping []fieldColumn
	for i := 0; i < t.NumField(); i++ {
		header := t.Field(i).Tag.Get("ssql_header")
		if header == "" || header == "-" {
			continue
		}
		if idx, ok := indexes[header]; ok {
			mapping = append(mapping, fieldColumn{field: i, column: idx, header: header})
		}
	}

	results := make([]Row[T], 0, len(values)-dataStartRow+1)
	for i, cells := range values[dataStartRow-1:] {
		if isBlankRow(cells) {
			continue
		}

		result := reflect.New(t).Elem()
		row := Row[T]{Number: i + dataStartRow}

		for _, m := range mapping {
			if m.column >= len(cells) || cells[m.column] == nil {
				continue
			}
			if err := setFieldValue(result.Field(m.field), cells[m.column]); err != nil && row.Err == nil {
				row.Err = fmt.Errorf("column %s: %w", m.header, err)
			}
		}

		row.Value = result.Interface().(T)
		results = append(results, row)
	}

	return results, nil
}

// setFieldValue converts a sheet cell value to the field's Go type and sets it
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	cellStr := strings.TrimSpace(cellString(cellValue))

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			// Sheets may render whole numbers as "90.0"
			floatVal, ferr := strconv.ParseFloat(cellStr, 64)
			if ferr != nil || floatVal != float64(int64(floatVal)) {
				return fmt.Errorf("failed to parse int: %w", err)
			}
			intVal = int64(floatVal)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		if cellStr == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(strings.Replace(cellStr, ",", ".", 1), 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		boolVal, err := parseBool(cellStr)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// parseBool accepts Go booleans plus the Portuguese sim/não and S/N
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "não", "nao", "n":
		return false, nil
	case "sim", "s":
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("failed to parse bool: %w", err)
	}
	return b, nil
}

// InsertModels appends structs as rows to their table, in schema column order
func InsertModels[T any](ctx context.Context, db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	var zero T
	t := reflect.TypeOf(zero)
	name := tableName(t)

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		v := reflect.ValueOf(model)
		row := make([]interface{}, 0, t.NumField())

		for i := 0; i < t.NumField(); i++ {
			header := t.Field(i).Tag.Get("ssql_header")
			if header == "" || header == "-" {
				continue
			}
			row = append(row, v.Field(i).Interface())
		}

		rows = append(rows, row)
	}

	return db.InsertRows(ctx, name, rows)
}

// InsertModel appends a single struct as a row to its table
func InsertModel[T any](ctx context.Context, db *DB, model T) error {
	return InsertModels(ctx, db, []T{model})
}

func columnIndexes(headers []interface{}) map[string]int {
	indexes := make(map[string]int, len(headers))
	for i, header := range headers {
		name := strings.TrimSpace(cellString(header))
		if name == "" {
			continue
		}
		if _, dup := indexes[name]; !dup {
			indexes[name] = i
		}
	}
	return indexes
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	default:
		return fmt.Sprint(c)
	}
}

func isBlankRow(cells []interface{}) bool {
	for _, c := range cells {
		if strings.TrimSpace(cellString(c)) != "" {
			return false
		}
	}
	return true
}
