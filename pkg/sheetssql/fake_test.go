package sheetssql

import (
	"context"
	"fmt"
	"strings"
)

// fakeSheets keeps tabs in memory
type fakeSheets struct {
	tabs    map[string][][]interface{}
	order   []string
	created []string
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{tabs: map[string][][]interface{}{}}
}

func (f *fakeSheets) addTab(name string, rows ...[]interface{}) {
	f.tabs[name] = rows
	f.order = append(f.order, name)
}

func (f *fakeSheets) GetValues(_ context.Context, _ string, sheetRange string) ([][]interface{}, error) {
	name, rowRange, _ := strings.Cut(sheetRange, "!")
	rows, ok := f.tabs[name]
	if !ok {
		return nil, fmt.Errorf("unable to parse range: %s", sheetRange)
	}
	if rowRange == "1:2" && len(rows) > 2 {
		return rows[:2], nil
	}
	return rows, nil
}

func (f *fakeSheets) AppendRows(_ context.Context, _ string, sheetRange string, values [][]interface{}) error {
	if _, ok := f.tabs[sheetRange]; !ok {
		return fmt.Errorf("unable to parse range: %s", sheetRange)
	}
	f.tabs[sheetRange] = append(f.tabs[sheetRange], values...)
	return nil
}

func (f *fakeSheets) CreateSheet(_ context.Context, _ string, title string) (int64, error) {
	f.addTab(title)
	f.created = append(f.created, title)
	return int64(len(f.order)), nil
}

func (f *fakeSheets) SheetTitles(context.Context, string) ([]string, error) {
	return append([]string(nil), f.order...), nil
}

func row(cells ...interface{}) []interface{} {
	return cells
}
