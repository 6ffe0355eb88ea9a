// Package sheetstore provides the tabular storage collaborator used by the
// extraction and merge runners: a header row plus append-only data rows.
package sheetstore

import "errors"

// ErrSheetNotFound reports that the named sheet does not exist in its
// spreadsheet. The merger treats this as an empty source; extraction treats
// it as fatal.
var ErrSheetNotFound = errors.New("sheet not found")

// Store is one sheet of flat rows. Row indices are 1-based and row 1 holds
// the header.
type Store interface {
	AppendRow(values []interface{}) error
	// ReadRange returns rowCount rows of colCount columns starting at
	// startRow. Short rows are padded by the implementation's backend and
	// may come back with fewer columns.
	ReadRange(startRow, rowCount, colCount int) ([][]interface{}, error)
	DeleteRow(rowIndex int) error
	// LastRowIndex returns the index of the last populated row, 0 when the
	// sheet is empty.
	LastRowIndex() (int, error)
	Clear() error
}

// DateFormatter is implemented by stores that can apply display formatting
// to a date column. Formatting is cosmetic and optional.
type DateFormatter interface {
	FormatDateColumn(column int, pattern string) error
}
