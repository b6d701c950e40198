// Package sheetssql treats a Google Sheets spreadsheet as a small database.
// Each tab is a table whose first row holds the column names and whose second
// row holds the column types; data starts on the third row.
package sheetssql

import (
	"context"
	"fmt"
)

// SheetsClient defines the sheets operations the database needs
type SheetsClient interface {
	GetValues(ctx context.Context, spreadsheetID, sheetRange string) ([][]interface{}, error)
	AppendRows(ctx context.Context, spreadsheetID, sheetRange string, values [][]interface{}) error
	CreateSheet(ctx context.Context, spreadsheetID, sheetTitle string) (int64, error)
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
}

// Column defines a column with name and type
type Column struct {
	Name string
	Type string // e.g. "text", "int", "bool", "time", "uuid", "timestamp"
}

// TableSchema defines the structure of a table
type TableSchema struct {
	Name    string
	Columns []Column
}

// Schema defines the database schema
type Schema struct {
	Tables []TableSchema
}

// Table returns the schema of a table by name
func (s *Schema) Table(name string) (TableSchema, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableSchema{}, false
}

// DB represents a connection to a Google Sheets "database"
type DB struct {
	client        SheetsClient
	spreadsheetID string
	schema        *Schema
}

// NewDB connects to a spreadsheet and ensures every table of the schema exists.
// Missing tabs are created with their header and type rows so they can be filled in.
func NewDB(ctx context.Context, client SheetsClient, spreadsheetID string, schema *Schema) (*DB, error) {
	db := &DB{
		client:        client,
		spreadsheetID: spreadsheetID,
		schema:        schema,
	}

	if err := db.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

// SpreadsheetID returns the database spreadsheet ID
func (db *DB) SpreadsheetID() string {
	return db.spreadsheetID
}

// Schema returns the database schema
func (db *DB) Schema() *Schema {
	return db.schema
}

// InsertRows appends rows to the specified table
func (db *DB) InsertRows(ctx context.Context, tableName string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	return db.client.AppendRows(ctx, db.spreadsheetID, tableName, rows)
}
