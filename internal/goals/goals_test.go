package goals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()

	tracker, err := NewTracker(&config.GoalsConfig{
		StartDate:          "2025-01-01",
		ExcludedCategories: []string{"Netflix", "Youtube Subscription", "Google Subscription"},
	})
	require.NoError(t, err)
	return tracker
}

func debit(category, description, amount string, ts time.Time) ledger.TransactionRecord {
	return ledger.TransactionRecord{
		Bank:        ledger.BankHDFC,
		Timestamp:   ts,
		Amount:      decimal.RequireFromString(amount),
		Description: description,
		Direction:   ledger.Debit,
		Category:    category,
	}
}

func TestNewTrackerRejectsBadStartDate(t *testing.T) {
	_, err := NewTracker(&config.GoalsConfig{StartDate: "January 2025"})
	assert.Error(t, err)
}

func TestPhaseProgression(t *testing.T) {
	tracker := newTestTracker(t)

	assert.Equal(t, 1, tracker.Phase(time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3, tracker.Phase(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 4, tracker.Phase(time.Date(2025, time.April, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 7, tracker.Phase(time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)))
	// Capped once the nine month program is over.
	assert.Equal(t, 9, tracker.Phase(time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)))
}

func TestTargetsAverageOverObservedMonths(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	records := []ledger.TransactionRecord{
		debit("Food", "ZOMATO", "600.00", time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)),
		debit("Food", "SWIGGY", "400.00", time.Date(2025, time.February, 8, 0, 0, 0, 0, time.UTC)),
		// Subscriptions never feed a baseline.
		debit("Netflix", "NETFLIX", "399.00", time.Date(2025, time.February, 9, 0, 0, 0, 0, time.UTC)),
	}
	// Credits never feed a baseline either.
	refund := debit("Food", "REFUND", "100.00", time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC))
	refund.Direction = ledger.Credit
	records = append(records, refund)

	goals := tracker.Targets(records, now)

	require.Contains(t, goals, "Food")
	assert.NotContains(t, goals, "Netflix")

	food := goals["Food"]
	// Two observed months, so the baseline is 1000 / 2.
	assert.True(t, food.Baseline.Equal(decimal.RequireFromString("500")), food.Baseline.String())
	assert.True(t, food.Target.Equal(decimal.RequireFromString("450")), food.Target.String())
	assert.Equal(t, 10, food.ReductionRate)
	assert.Equal(t, "Phase 1", food.Phase)
}

func TestTargetsReductionRateFollowsPhase(t *testing.T) {
	tracker := newTestTracker(t)
	records := []ledger.TransactionRecord{
		debit("Food", "ZOMATO", "600.00", time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC)),
	}

	phase2 := tracker.Targets(records, time.Date(2025, time.May, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 20, phase2["Food"].ReductionRate)
	assert.Equal(t, "Phase 2", phase2["Food"].Phase)

	records[0].Timestamp = time.Date(2025, time.August, 5, 0, 0, 0, 0, time.UTC)
	phase3 := tracker.Targets(records, time.Date(2025, time.August, 20, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 30, phase3["Food"].ReductionRate)
	assert.Equal(t, "Phase 3", phase3["Food"].Phase)
}

func TestCurrentMonthSpendingFilters(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	spending := tracker.CurrentMonthSpending([]ledger.TransactionRecord{
		debit("Food", "ZOMATO", "250.00", time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)),
		debit("Food", "SWIGGY", "150.00", time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)),
		debit("Food", "OLD", "999.00", time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC)),
		debit("Netflix", "NETFLIX", "399.00", time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)),
	}, now)

	require.Contains(t, spending, "Food")
	assert.True(t, spending["Food"].Equal(decimal.RequireFromString("400")))
	assert.NotContains(t, spending, "Netflix")
}

func TestCurrentMonthSubscriptionsGroupByService(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	subs := tracker.CurrentMonthSubscriptions([]ledger.TransactionRecord{
		debit("Netflix", "NETFLIX COM", "399.00", time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)),
		debit("Youtube Subscription", "GOOGLE YOUTUBE", "129.00", time.Date(2025, time.March, 11, 0, 0, 0, 0, time.UTC)),
		debit("Food", "ZOMATO", "250.00", time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)),
	}, now)

	assert.True(t, subs["Netflix"].Equal(decimal.RequireFromString("399")))
	assert.True(t, subs["YouTube Premium"].Equal(decimal.RequireFromString("129")))
	assert.NotContains(t, subs, "Food")
}

func TestServiceName(t *testing.T) {
	assert.Equal(t, "Netflix", ServiceName("NETFLIX COM AMSTERDAM", "Netflix"))
	assert.Equal(t, "YouTube Premium", ServiceName("GOOGLE *YOUTUBEPREMIUM", ""))
	assert.Equal(t, "Apple Services", ServiceName("APPLE.COM/BILL", ""))
	assert.Equal(t, "Amazon Prime", ServiceName("AMAZON PRIME MEMBERSHIP", ""))
	assert.Equal(t, "Spotify", ServiceName("SPOTIFY AB", ""))
	assert.Equal(t, "Some Category", ServiceName("UNKNOWN MERCHANT", "Some Category"))
	assert.Equal(t, "Other Subscription", ServiceName("UNKNOWN MERCHANT", ""))
}

func TestSmartAlertThresholds(t *testing.T) {
	tracker := newTestTracker(t)
	goals := map[string]Goal{
		"Food": {Baseline: decimal.RequireFromString("111.11"), Target: decimal.RequireFromString("100")},
	}

	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	critical := tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Food": decimal.RequireFromString("120"),
	}, now)
	require.NotEmpty(t, critical)
	assert.Equal(t, AlertCritical, critical[0].Type)
	assert.Contains(t, critical[0].Message, "exceeded by Rs. 20")

	warning := tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Food": decimal.RequireFromString("80"),
	}, now)
	require.NotEmpty(t, warning)
	assert.Equal(t, AlertWarning, warning[0].Type)
}

func TestSmartAlertAnomalyEarlyInMonth(t *testing.T) {
	tracker := newTestTracker(t)
	goals := map[string]Goal{
		"Grocery": {Baseline: decimal.RequireFromString("250"), Target: decimal.RequireFromString("1000")},
	}

	// Day 5 of a 31 day month: expected spend so far is ~161, so 300 is
	// running ahead of 1.5x pace while still under the warning threshold.
	early := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)
	alerts := tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Grocery": decimal.RequireFromString("300"),
	}, early)
	require.NotEmpty(t, alerts)
	assert.Equal(t, AlertAnomaly, alerts[0].Type)

	// The same pace past mid-month is no longer an anomaly.
	late := time.Date(2025, time.March, 16, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Grocery": decimal.RequireFromString("300"),
	}, late))
}

func TestSmartAlertPositivePastMidMonth(t *testing.T) {
	tracker := newTestTracker(t)
	goals := map[string]Goal{
		"Food": {Baseline: decimal.RequireFromString("1111"), Target: decimal.RequireFromString("1000")},
	}

	now := time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)
	alerts := tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Food": decimal.RequireFromString("300"),
	}, now)
	require.NotEmpty(t, alerts)
	assert.Equal(t, AlertPositive, alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "saved Rs. 811")
}

func TestSmartAlertsSkipZeroTargets(t *testing.T) {
	tracker := newTestTracker(t)
	goals := map[string]Goal{"Food": {Target: decimal.Zero}}

	alerts := tracker.SmartAlerts(goals, map[string]decimal.Decimal{
		"Food": decimal.RequireFromString("900"),
	}, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, alerts)
}

func TestContextualMessages(t *testing.T) {
	now := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)

	onTrack := ContextualMessages(nil, decimal.RequireFromString("2500"), now)
	require.Len(t, onTrack, 2)
	assert.Contains(t, onTrack[0], "saved Rs. 2500")
	assert.Contains(t, onTrack[1], "on track")

	critical := ContextualMessages([]Alert{{Type: AlertCritical}}, decimal.Zero, now)
	require.Len(t, critical, 1)
	assert.Contains(t, critical[0], "Focus on reducing")

	november := time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)
	seasonal := ContextualMessages(nil, decimal.Zero, november)
	require.Len(t, seasonal, 2)
	assert.Contains(t, seasonal[1], "Festival season")
}

func TestWeeklySummary(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)

	inWeek := func(category, source, amount string, daysAgo int) ledger.TransactionRecord {
		r := debit(category, "MERCHANT", amount, now.Add(-time.Duration(daysAgo)*24*time.Hour))
		r.Source = source
		return r
	}

	old := inWeek("Food", "Surya", "999.00", 10)
	summary := tracker.Weekly([]ledger.TransactionRecord{
		inWeek("Food", "Surya", "300.00", 1),
		inWeek("Grocery", "Priya", "500.00", 2),
		inWeek("Food", "Priya", "100.00", 6),
		old,
	}, now)

	assert.True(t, summary.Total.Equal(decimal.RequireFromString("900")))
	assert.True(t, summary.SpendingByPerson["Surya"].Equal(decimal.RequireFromString("300")))
	assert.True(t, summary.SpendingByPerson["Priya"].Equal(decimal.RequireFromString("600")))
	assert.Equal(t, []string{"Grocery", "Food"}, summary.TopCategories(2))
	assert.Equal(t, []string{"Grocery"}, summary.TopCategories(1))
}

func TestWeeklyInsights(t *testing.T) {
	tracker := newTestTracker(t)
	now := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	goals := map[string]Goal{
		"Food": {Target: decimal.RequireFromString("10000")},
	}

	summary := WeeklySummary{
		Total:              decimal.RequireFromString("8400"),
		SpendingByCategory: map[string]decimal.Decimal{"Food": decimal.RequireFromString("8000"), "Grocery": decimal.RequireFromString("400")},
	}

	insights := tracker.WeeklyInsights(summary, goals, map[string]decimal.Decimal{
		"Food": decimal.RequireFromString("8400"),
	}, now)

	// Spending over 1.2x the prorated target, a daily average above 1000
	// and one category over a 40% share all trip their lines.
	require.Len(t, insights, 3)
	assert.Contains(t, insights[0], "20% higher")
	assert.Contains(t, insights[1], "Daily average")
	assert.Contains(t, insights[2], "Food")
}
