// Package digest assembles and delivers the daily and weekly Telegram
// summaries from the master ledger. Delivery is best-effort: a failed send
// is logged, never escalated.
package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"k8s.io/klog"

	"github.com/aavugari/Smart-Expense-Monitor/internal/goals"
	"github.com/aavugari/Smart-Expense-Monitor/internal/sheetstore"
	"github.com/aavugari/Smart-Expense-Monitor/internal/telegram"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// Notifier delivers one formatted text blob to a destination.
type Notifier interface {
	Send(text, destination string) error
}

type DigestRunner struct {
	master   sheetstore.Store
	tracker  *goals.Tracker
	notifier Notifier
	chatID   string
	weekly   bool
	now      func() time.Time
}

func New(master sheetstore.Store, tracker *goals.Tracker, notifier Notifier, chatID string, weekly bool) *DigestRunner {
	return &DigestRunner{
		master:   master,
		tracker:  tracker,
		notifier: notifier,
		chatID:   chatID,
		weekly:   weekly,
		now:      time.Now,
	}
}

// NewDigestRunner wires the runner from configuration.
func NewDigestRunner(weekly bool) (*DigestRunner, error) {
	ctx := context.Background()
	cfg := config.CurrentMergerConfig()

	svc, err := sheetstore.NewSheetsService(ctx, config.CurrentGoogleSecrets().CredentialsJSON)
	if err != nil {
		return nil, err
	}

	master, err := sheetstore.OpenGoogleSheet(ctx, svc, cfg.MasterSpreadsheetID, cfg.MasterSheetName)
	if err != nil {
		return nil, fmt.Errorf("Error opening master sheet: %s", err.Error())
	}

	tracker, err := goals.NewTracker(config.CurrentGoalsConfig())
	if err != nil {
		return nil, err
	}

	telegramSecrets := config.CurrentTelegramSecrets()

	return New(master, tracker, telegram.NewClient(telegramSecrets.BotToken), telegramSecrets.ChatID, weekly), nil
}

func (r *DigestRunner) Run() error {
	records, err := sheetstore.ReadRecords(r.master, len(ledger.MasterHeaders))
	if err != nil {
		return fmt.Errorf("Error reading master ledger: %s", err.Error())
	}

	now := r.now()
	targets := r.tracker.Targets(records, now)
	spending := r.tracker.CurrentMonthSpending(records, now)
	subscriptions := r.tracker.CurrentMonthSubscriptions(records, now)
	alerts := r.tracker.SmartAlerts(targets, spending, now)

	var message string
	if r.weekly {
		summary := r.tracker.Weekly(records, now)
		insights := r.tracker.WeeklyInsights(summary, targets, spending, now)
		message = BuildWeeklyMessage(summary, targets, spending, subscriptions, insights)
	} else {
		message = BuildDailyMessage(summarize(records, now), targets, spending, subscriptions, alerts, now)
	}

	if err := r.notifier.Send(message, r.chatID); err != nil {
		klog.Errorf("Error sending digest: %s", err.Error())
		return nil
	}

	klog.Infof("Digest sent")
	return nil
}

// DailySummary holds today's and month-to-date debit totals broken down by
// person and bank.
type DailySummary struct {
	Today      map[string]map[ledger.Bank]decimal.Decimal
	MTD        map[string]map[ledger.Bank]decimal.Decimal
	TotalToday decimal.Decimal
	TotalMTD   decimal.Decimal
}

func summarize(records []ledger.TransactionRecord, now time.Time) DailySummary {
	s := DailySummary{
		Today: map[string]map[ledger.Bank]decimal.Decimal{},
		MTD:   map[string]map[ledger.Bank]decimal.Decimal{},
	}

	today := now.Format(ledger.DateOnlyLayout)

	for _, r := range records {
		if r.Direction != ledger.Debit {
			continue
		}

		if r.Timestamp.Format(ledger.DateOnlyLayout) == today {
			if s.Today[r.Source] == nil {
				s.Today[r.Source] = map[ledger.Bank]decimal.Decimal{}
			}
			s.Today[r.Source][r.Bank] = s.Today[r.Source][r.Bank].Add(r.Amount)
			s.TotalToday = s.TotalToday.Add(r.Amount)
		}

		if r.Timestamp.Year() == now.Year() && r.Timestamp.Month() == now.Month() {
			if s.MTD[r.Source] == nil {
				s.MTD[r.Source] = map[ledger.Bank]decimal.Decimal{}
			}
			s.MTD[r.Source][r.Bank] = s.MTD[r.Source][r.Bank].Add(r.Amount)
			s.TotalMTD = s.TotalMTD.Add(r.Amount)
		}
	}

	return s
}
