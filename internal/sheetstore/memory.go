package sheetstore

import (
	"fmt"
	"sync"
)

// Memory is an in-memory Store used by tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	rows [][]interface{}

	// Error overrides for failure-path tests.
	AppendErr error
	DeleteErr error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) AppendRow(values []interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row := make([]interface{}, len(values))
	copy(row, values)
	m.rows = append(m.rows, row)
	return nil
}

func (m *Memory) ReadRange(startRow, rowCount, colCount int) ([][]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if startRow < 1 {
		return nil, fmt.Errorf("start row %d out of range", startRow)
	}

	out := [][]interface{}{}
	for i := startRow - 1; i < startRow-1+rowCount && i < len(m.rows); i++ {
		row := m.rows[i]
		if len(row) > colCount {
			row = row[:colCount]
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *Memory) DeleteRow(rowIndex int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rowIndex < 1 || rowIndex > len(m.rows) {
		return fmt.Errorf("row %d out of range", rowIndex)
	}
	m.rows = append(m.rows[:rowIndex-1], m.rows[rowIndex:]...)
	return nil
}

func (m *Memory) LastRowIndex() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.rows), nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rows = nil
	return nil
}

// Rows returns a copy of the current contents.
func (m *Memory) Rows() [][]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([][]interface{}, len(m.rows))
	for i, row := range m.rows {
		out[i] = append([]interface{}{}, row...)
	}
	return out
}
