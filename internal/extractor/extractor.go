// Package extractor runs the incremental extraction batch: re-scan the
// trailing window, delete what was stored inside it, and re-extract every
// bank's notifications through its parser.
package extractor

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog"

	"github.com/aavugari/Smart-Expense-Monitor/internal/gmailstore"
	"github.com/aavugari/Smart-Expense-Monitor/internal/sheetstore"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/bankparser"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/classifier"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// BankSource pairs a parser with the mail filter that feeds it. The filter
// is deliberately broader than "only transactions"; the parser is the thing
// that rejects irrelevant mail.
type BankSource struct {
	Parser bankparser.Parser
	Query  string
}

type ExtractRunner struct {
	store    sheetstore.Store
	messages gmailstore.MessageStore
	sources  []BankSource
	window   time.Duration
	now      func() time.Time
}

// New builds a runner over explicit collaborators; tests use this with the
// in-memory store.
func New(store sheetstore.Store, messages gmailstore.MessageStore, sources []BankSource, window time.Duration) *ExtractRunner {
	return &ExtractRunner{
		store:    store,
		messages: messages,
		sources:  sources,
		window:   window,
		now:      time.Now,
	}
}

// NewExtractRunner wires the runner from configuration: Gmail mailbox,
// Google Sheet ledger, configured keyword table and bank filters.
func NewExtractRunner() (*ExtractRunner, error) {
	ctx := context.Background()
	cfg := config.CurrentExtractionConfig()
	creds := config.CurrentGoogleSecrets().CredentialsJSON

	mailbox, err := gmailstore.NewGmail(ctx, creds)
	if err != nil {
		return nil, err
	}

	svc, err := sheetstore.NewSheetsService(ctx, creds)
	if err != nil {
		return nil, err
	}

	store, err := sheetstore.OpenGoogleSheet(ctx, svc, cfg.SpreadsheetID, cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("Error opening ledger sheet: %s", err.Error())
	}

	categories := classifier.New(CategoryRules(cfg))

	amexCutoff := bankparser.DefaultAmexFormatCutoff
	if cfg.AmexFormatCutoff != "" {
		amexCutoff, err = time.Parse("2006-01-02", cfg.AmexFormatCutoff)
		if err != nil {
			return nil, fmt.Errorf("Unable to parse amexFormatCutoff: %s", err.Error())
		}
	}

	var sources []BankSource
	for _, bank := range ledger.Banks() {
		sources = append(sources, BankSource{
			Parser: bankparser.ForBank(bank, categories, amexCutoff),
			Query:  cfg.BankQuery(string(bank)),
		})
	}

	return New(store, mailbox, sources, time.Duration(cfg.WindowHours)*time.Hour), nil
}

// CategoryRules converts the configured keyword table, falling back to the
// stock one.
func CategoryRules(cfg *config.ExtractionConfig) []classifier.Rule {
	if len(cfg.Categories) == 0 {
		return classifier.DefaultRules()
	}

	rules := make([]classifier.Rule, len(cfg.Categories))
	for i, r := range cfg.Categories {
		rules[i] = classifier.Rule{Keyword: r.Keyword, Category: r.Category}
	}
	return rules
}

func (r *ExtractRunner) Run() error {
	_, err := r.Extract(r.now())
	return err
}

// Extract runs one extraction pass against nowRef and returns per-bank
// appended counts.
//
// The re-scan window is [cutoff, nowRef] with cutoff = nowRef - window,
// inclusive at the cutoff. Window membership and the deletion pass both key
// on the record's stored timestamp (the extracted transaction date when a
// parser recovers one, else the arrival time), which is what makes a rerun
// idempotent: every row the pass can append is a row the next pass can
// delete.
func (r *ExtractRunner) Extract(nowRef time.Time) (map[ledger.Bank]int, error) {
	lastRow, err := r.store.LastRowIndex()
	if err != nil {
		return nil, err
	}
	if lastRow == 0 {
		if err := r.store.AppendRow(ledger.Headers); err != nil {
			return nil, err
		}
	}

	cutoff := nowRef.Add(-r.window)

	// Deleting inside the window is the correctness step; if it fails the
	// run must not continue, otherwise re-inserted rows would duplicate
	// surviving ones.
	if err := r.removeRecentRows(cutoff); err != nil {
		return nil, fmt.Errorf("Error removing rows inside re-scan window: %s", err.Error())
	}

	klog.Infof("Extracting transactions since %s", cutoff.Format(ledger.DateLayout))

	counts := map[ledger.Bank]int{}
	total := 0

	for _, source := range r.sources {
		bank := source.Parser.Bank()

		count, err := r.extractBank(source, cutoff)
		if err != nil {
			klog.Errorf("Error extracting %s transactions: %s", bank, err.Error())
		}

		counts[bank] = count
		total += count
		klog.Infof("%s: %d transactions", bank, count)
	}

	r.formatDateColumn()

	klog.Infof("TOTAL: %d transactions extracted", total)

	return counts, nil
}

func (r *ExtractRunner) extractBank(source BankSource, cutoff time.Time) (int, error) {
	notifications, err := r.messages.Search(source.Query)
	if err != nil {
		return 0, err
	}

	bank := source.Parser.Bank()
	count := 0

	for _, n := range notifications {
		record, err := source.Parser.Parse(n)
		if err != nil {
			klog.Warningf("Skipping %s notification: %s", bank, err.Error())
			continue
		}
		if record == nil {
			continue
		}
		if record.Timestamp.Before(cutoff) {
			continue
		}

		if err := r.store.AppendRow(record.Row()); err != nil {
			klog.Warningf("Error appending %s record: %s", bank, err.Error())
			continue
		}
		count++
	}

	return count, nil
}

// removeRecentRows deletes every stored row whose timestamp is inside the
// window. Rows with an unreadable date are left in place.
func (r *ExtractRunner) removeRecentRows(cutoff time.Time) error {
	lastRow, err := r.store.LastRowIndex()
	if err != nil {
		return err
	}
	if lastRow <= 1 {
		return nil
	}

	rows, err := r.store.ReadRange(2, lastRow-1, len(ledger.Headers))
	if err != nil {
		return err
	}

	var toDelete []int
	for i, row := range rows {
		if len(row) < 2 {
			continue
		}

		t, err := ledger.ParseDate(fmt.Sprintf("%v", row[1]))
		if err != nil {
			klog.Warningf("Leaving row %d in place: %s", i+2, err.Error())
			continue
		}

		if !t.Before(cutoff) {
			toDelete = append(toDelete, i+2)
		}
	}

	// Bottom-up so earlier deletions do not shift pending indices.
	for i := len(toDelete) - 1; i >= 0; i-- {
		if err := r.store.DeleteRow(toDelete[i]); err != nil {
			return err
		}
	}

	return nil
}

func (r *ExtractRunner) formatDateColumn() {
	formatter, ok := r.store.(sheetstore.DateFormatter)
	if !ok {
		return
	}
	if err := formatter.FormatDateColumn(2, ledger.DisplayedFormat); err != nil {
		klog.Warningf("Error formatting date column: %s", err.Error())
	}
}
