package digest

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aavugari/Smart-Expense-Monitor/internal/goals"
	"github.com/aavugari/Smart-Expense-Monitor/internal/sheetstore"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

type fakeNotifier struct {
	sent []string
	dest []string
	err  error
}

func (f *fakeNotifier) Send(text, destination string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	f.dest = append(f.dest, destination)
	return nil
}

func masterRecord(source string, bank ledger.Bank, category, amount string, ts time.Time) ledger.TransactionRecord {
	return ledger.TransactionRecord{
		Bank:        bank,
		Timestamp:   ts,
		Amount:      decimal.RequireFromString(amount),
		Description: "MERCHANT",
		Direction:   ledger.Debit,
		Category:    category,
		Source:      source,
	}
}

func masterWith(t *testing.T, records ...ledger.TransactionRecord) *sheetstore.Memory {
	t.Helper()

	store := sheetstore.NewMemory()
	require.NoError(t, store.AppendRow(ledger.MasterHeaders))
	for _, r := range records {
		require.NoError(t, store.AppendRow(r.MasterRow()))
	}
	return store
}

func testTracker(t *testing.T) *goals.Tracker {
	t.Helper()

	tracker, err := goals.NewTracker(&config.GoalsConfig{
		StartDate:          "2025-01-01",
		ExcludedCategories: []string{"Netflix"},
	})
	require.NoError(t, err)
	return tracker
}

func TestDailyDigestDelivery(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, time.UTC)
	master := masterWith(t,
		masterRecord("Surya", ledger.BankICICI, "Food", "450.00", now.Add(-time.Hour)),
		masterRecord("Priya", ledger.BankHDFC, "Grocery", "320.00", now.AddDate(0, 0, -4)),
		masterRecord("Surya", ledger.BankAmex, "Netflix", "399.00", now.AddDate(0, 0, -2)),
	)

	notifier := &fakeNotifier{}
	runner := New(master, testTracker(t), notifier, "chat-42", false)
	runner.now = func() time.Time { return now }

	require.NoError(t, runner.Run())
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "chat-42", notifier.dest[0])

	message := notifier.sent[0]
	assert.Contains(t, message, "*Daily Spend Summary* - 03/20/2025")
	assert.Contains(t, message, "*Total Spent Today*: Rs. 450.00")
	assert.Contains(t, message, "*Total MTD*: Rs. 1169.00")
	assert.Contains(t, message, "*Active Subscriptions*")
	assert.Contains(t, message, "Netflix: Rs. 399.00")
}

func TestWeeklyDigestDelivery(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, time.UTC)
	master := masterWith(t,
		masterRecord("Surya", ledger.BankICICI, "Food", "450.00", now.AddDate(0, 0, -1)),
		masterRecord("Priya", ledger.BankHDFC, "Grocery", "320.00", now.AddDate(0, 0, -3)),
	)

	notifier := &fakeNotifier{}
	runner := New(master, testTracker(t), notifier, "chat-42", true)
	runner.now = func() time.Time { return now }

	require.NoError(t, runner.Run())
	require.Len(t, notifier.sent, 1)

	message := notifier.sent[0]
	assert.Contains(t, message, "*Weekly Summary* (Mar 13 - Mar 20)")
	assert.Contains(t, message, "Surya: Rs. 450.00")
	assert.Contains(t, message, "Priya: Rs. 320.00")
	assert.Contains(t, message, "*Total Weekly*: Rs. 770.00")
	assert.Contains(t, message, "*Top Categories This Week*")
}

func TestDigestSendFailureIsNotFatal(t *testing.T) {
	master := masterWith(t)
	notifier := &fakeNotifier{err: fmt.Errorf("telegram unreachable")}
	runner := New(master, testTracker(t), notifier, "chat-42", false)

	assert.NoError(t, runner.Run())
}

func TestBuildDailyMessageNoSpendsToday(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	message := BuildDailyMessage(DailySummary{
		Today: map[string]map[ledger.Bank]decimal.Decimal{},
		MTD:   map[string]map[ledger.Bank]decimal.Decimal{},
	}, nil, nil, nil, nil, now)

	assert.Contains(t, message, "No spends today")
	assert.NotContains(t, message, "*Goal Progress*")
	assert.NotContains(t, message, "*Smart Alerts*")
	assert.NotContains(t, message, "*Active Subscriptions*")
}

func TestBuildDailyMessageGoalProgressAndSavings(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	targets := map[string]goals.Goal{
		"Food": {
			Baseline: decimal.RequireFromString("5000"),
			Target:   decimal.RequireFromString("4500"),
		},
	}
	spending := map[string]decimal.Decimal{"Food": decimal.RequireFromString("900")}

	message := BuildDailyMessage(DailySummary{
		Today: map[string]map[ledger.Bank]decimal.Decimal{},
		MTD:   map[string]map[ledger.Bank]decimal.Decimal{},
	}, targets, spending, nil, nil, now)

	assert.Contains(t, message, "*Goal Progress*")
	assert.Contains(t, message, "*Food*: 20% (Rs. 900/Rs. 4500)")
	assert.Contains(t, message, "*Total Savings*: Rs. 4100")
	// Savings above 1000 always earn the motivational closing line.
	assert.Contains(t, message, "Excellent! You've saved Rs. 4100 this month!")
}

func TestBuildDailyMessageCapsAlerts(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	var alerts []goals.Alert
	for i := 0; i < 5; i++ {
		alerts = append(alerts, goals.Alert{
			Type:    goals.AlertWarning,
			Message: fmt.Sprintf("alert-%d", i),
		})
	}

	message := BuildDailyMessage(DailySummary{
		Today: map[string]map[ledger.Bank]decimal.Decimal{},
		MTD:   map[string]map[ledger.Bank]decimal.Decimal{},
	}, nil, nil, nil, alerts, now)

	assert.Contains(t, message, "alert-0")
	assert.Contains(t, message, "alert-2")
	assert.NotContains(t, message, "alert-3")
}

func TestBuildWeeklyMessageGoalScore(t *testing.T) {
	summary := goals.WeeklySummary{
		SpendingByPerson:   map[string]decimal.Decimal{"Surya": decimal.RequireFromString("700")},
		SpendingByCategory: map[string]decimal.Decimal{"Food": decimal.RequireFromString("700")},
		Total:              decimal.RequireFromString("700"),
		WeekStart:          time.Date(2025, time.March, 13, 0, 0, 0, 0, time.UTC),
		WeekEnd:            time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
	}

	targets := map[string]goals.Goal{
		"Food":    {Target: decimal.RequireFromString("1000")},
		"Grocery": {Target: decimal.RequireFromString("1000")},
	}
	spending := map[string]decimal.Decimal{
		"Food":    decimal.RequireFromString("700"),
		"Grocery": decimal.RequireFromString("1200"),
	}

	message := BuildWeeklyMessage(summary, targets, spending, nil, []string{"*Insight*: test line"})

	assert.Contains(t, message, "- Food: On Track (Rs. 700/Rs. 1000 - 70%)")
	assert.Contains(t, message, "- Grocery: Over Budget (Rs. 1200/Rs. 1000 - 120%)")
	assert.Contains(t, message, "*Overall Score*: 50% goals on track")
	assert.Contains(t, message, "*Weekly Insights*")
	assert.Contains(t, message, "*Insight*: test line")
}

func TestSummarizeGroupsByPersonAndBank(t *testing.T) {
	now := time.Date(2025, time.March, 20, 18, 0, 0, 0, time.UTC)

	credit := masterRecord("Surya", ledger.BankICICI, "Others", "9999.00", now)
	credit.Direction = ledger.Credit

	s := summarize([]ledger.TransactionRecord{
		masterRecord("Surya", ledger.BankICICI, "Food", "450.00", now.Add(-time.Hour)),
		masterRecord("Surya", ledger.BankICICI, "Food", "50.00", now.Add(-2*time.Hour)),
		masterRecord("Priya", ledger.BankHDFC, "Grocery", "320.00", now.AddDate(0, 0, -4)),
		credit,
	}, now)

	assert.True(t, s.TotalToday.Equal(decimal.RequireFromString("500")))
	assert.True(t, s.TotalMTD.Equal(decimal.RequireFromString("820")))
	assert.True(t, s.Today["Surya"][ledger.BankICICI].Equal(decimal.RequireFromString("500")))
	assert.True(t, s.MTD["Priya"][ledger.BankHDFC].Equal(decimal.RequireFromString("320")))
}
