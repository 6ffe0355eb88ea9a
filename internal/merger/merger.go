// Package merger rebuilds the master ledger from every per-person ledger.
// The master has no identity of its own: each run clears it and re-derives
// it in full, so the per-person sheets stay the system of record.
package merger

import (
	"context"
	"errors"
	"fmt"

	"k8s.io/klog"

	"github.com/aavugari/Smart-Expense-Monitor/internal/sheetstore"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// Source is one person's ledger. Open is deferred so a missing or unreadable
// source degrades to zero records instead of failing the whole merge.
type Source struct {
	Label string
	Open  func() (sheetstore.Store, error)
}

type MergeRunner struct {
	master  sheetstore.Store
	sources []Source
}

func New(master sheetstore.Store, sources []Source) *MergeRunner {
	return &MergeRunner{master: master, sources: sources}
}

// NewMergeRunner wires the runner from configuration.
func NewMergeRunner() (*MergeRunner, error) {
	ctx := context.Background()
	cfg := config.CurrentMergerConfig()
	creds := config.CurrentGoogleSecrets().CredentialsJSON

	svc, err := sheetstore.NewSheetsService(ctx, creds)
	if err != nil {
		return nil, err
	}

	master, err := sheetstore.OpenGoogleSheet(ctx, svc, cfg.MasterSpreadsheetID, cfg.MasterSheetName)
	if err != nil {
		return nil, fmt.Errorf("Error opening master sheet: %s", err.Error())
	}

	var sources []Source
	for _, s := range cfg.Sources {
		s := s
		sources = append(sources, Source{
			Label: s.SourceLabel,
			Open: func() (sheetstore.Store, error) {
				return sheetstore.OpenGoogleSheet(ctx, svc, s.SpreadsheetID, s.SheetName)
			},
		})
	}

	return New(master, sources), nil
}

func (r *MergeRunner) Run() error {
	_, err := r.Merge()
	return err
}

// Merge clears the master, rewrites its header, then appends every valid
// source row tagged with its source label, in source order. A failed source
// keeps whatever was merged before it; a failed master mutation aborts.
func (r *MergeRunner) Merge() (int, error) {
	if err := r.master.Clear(); err != nil {
		return 0, fmt.Errorf("Error clearing master sheet: %s", err.Error())
	}
	if err := r.master.AppendRow(ledger.MasterHeaders); err != nil {
		return 0, fmt.Errorf("Error writing master header: %s", err.Error())
	}

	total := 0
	for _, source := range r.sources {
		count, err := r.mergeSource(source)
		if err != nil {
			return total, err
		}

		klog.Infof("Added %d transactions from %s", count, source.Label)
		total += count
	}

	klog.Infof("Merge completed: %d transactions", total)

	return total, nil
}

func (r *MergeRunner) mergeSource(source Source) (int, error) {
	store, err := source.Open()
	if err != nil {
		if errors.Is(err, sheetstore.ErrSheetNotFound) {
			klog.Warningf("Sheet not found for %s, merging 0 records", source.Label)
		} else {
			klog.Errorf("Error opening ledger for %s: %s", source.Label, err.Error())
		}
		return 0, nil
	}

	lastRow, err := store.LastRowIndex()
	if err != nil {
		klog.Errorf("Error reading ledger for %s: %s", source.Label, err.Error())
		return 0, nil
	}
	if lastRow <= 1 {
		klog.Infof("No data found in ledger for %s", source.Label)
		return 0, nil
	}

	rows, err := store.ReadRange(2, lastRow-1, len(ledger.Headers))
	if err != nil {
		klog.Errorf("Error reading ledger for %s: %s", source.Label, err.Error())
		return 0, nil
	}

	count := 0
	for i, row := range rows {
		if _, err := ledger.RecordFromRow(row); err != nil {
			klog.Warningf("Skipping invalid row %d from %s: %s", i+2, source.Label, err.Error())
			continue
		}

		tagged := make([]interface{}, len(ledger.Headers)+1)
		copy(tagged, row)
		for j := len(row); j < len(ledger.Headers); j++ {
			tagged[j] = ""
		}
		tagged[len(ledger.Headers)] = source.Label

		if err := r.master.AppendRow(tagged); err != nil {
			return count, fmt.Errorf("Error appending row from %s: %s", source.Label, err.Error())
		}
		count++
	}

	return count, nil
}
