package db

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrRunsNotSupported is returned by stores that cannot persist runs
var ErrRunsNotSupported = errors.New("this data source does not store evaluation runs")

// FileStore reads the input tables from a single YAML (or JSON) dataset file.
// The file is read again on every call, so edits show up without a restart.
type FileStore struct {
	path string
}

// NewFileStore creates a store for the dataset at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// ParseDataset decodes a YAML or JSON dataset and numbers the rows of each table from 1
func ParseDataset(data []byte) (*RawDataset, error) {
	var raw RawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	raw.NumberRows()
	return &raw, nil
}

// NumberRows sets the row number of every record to its 1-based position
func (raw *RawDataset) NumberRows() {
	for i := range raw.Teachers {
		raw.Teachers[i].Row = i + 1
	}
	for i := range raw.Classes {
		raw.Classes[i].Row = i + 1
	}
	for i := range raw.Blocks {
		raw.Blocks[i].Row = i + 1
	}
	for i := range raw.Roles {
		raw.Roles[i].Row = i + 1
	}
	for i := range raw.Requirements {
		raw.Requirements[i].Row = i + 1
	}
}

func (s *FileStore) load() (*RawDataset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return ParseDataset(data)
}

func (s *FileStore) GetTeachers(ctx context.Context) ([]TeacherRecord, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	return raw.Teachers, nil
}

func (s *FileStore) GetClassGroups(ctx context.Context) ([]ClassGroupRecord, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	return raw.Classes, nil
}

func (s *FileStore) GetScheduleBlocks(ctx context.Context) ([]ScheduleBlockRecord, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	return raw.Blocks, nil
}

func (s *FileStore) GetRoleAssignments(ctx context.Context) ([]RoleAssignmentRecord, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	return raw.Roles, nil
}

func (s *FileStore) GetCurriculumRequirements(ctx context.Context) ([]CurriculumRequirementRecord, error) {
	raw, err := s.load()
	if err != nil {
		return nil, err
	}
	return raw.Requirements, nil
}
