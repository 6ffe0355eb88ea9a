package sheetstore

import (
	"k8s.io/klog"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// ReadRecords decodes every data row of a ledger sheet, skipping rows that
// fail validation. colCount should cover the Source column when reading the
// master ledger.
func ReadRecords(s Store, colCount int) ([]ledger.TransactionRecord, error) {
	lastRow, err := s.LastRowIndex()
	if err != nil {
		return nil, err
	}
	if lastRow <= 1 {
		return nil, nil
	}

	rows, err := s.ReadRange(2, lastRow-1, colCount)
	if err != nil {
		return nil, err
	}

	var records []ledger.TransactionRecord
	for i, row := range rows {
		record, err := ledger.RecordFromRow(row)
		if err != nil {
			klog.Warningf("Skipping row %d: %s", i+2, err.Error())
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
