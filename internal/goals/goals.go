// Package goals derives rolling spending goals from the master ledger:
// six-month category baselines, progressive reduction targets, and the
// alerts the digest surfaces when a month drifts off course.
package goals

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/config"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

const baselineMonths = 6

// Goal is a per-category baseline/target pair for the current phase.
type Goal struct {
	Baseline      decimal.Decimal
	Target        decimal.Decimal
	ReductionRate int // percent
	Phase         string
}

type AlertType string

const (
	AlertWarning  AlertType = "warning"
	AlertCritical AlertType = "critical"
	AlertAnomaly  AlertType = "anomaly"
	AlertPositive AlertType = "positive"
)

type Alert struct {
	Type     AlertType
	Category string
	Message  string
}

// Tracker computes goals against a configured start date and subscription
// exclusion list.
type Tracker struct {
	excluded  []string
	startDate time.Time
}

func NewTracker(cfg *config.GoalsConfig) (*Tracker, error) {
	start, err := time.Parse("2006-01-02", cfg.StartDate)
	if err != nil {
		return nil, fmt.Errorf("Unable to parse goals start date: %s", err.Error())
	}

	return &Tracker{excluded: cfg.ExcludedCategories, startDate: start}, nil
}

// IsSubscriptionCategory reports whether a category is excluded from goal
// tracking and counted as a subscription instead.
func (t *Tracker) IsSubscriptionCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, excluded := range t.excluded {
		if strings.Contains(lower, strings.ToLower(excluded)) {
			return true
		}
	}
	return false
}

// Phase is the 1-based month count since the goal start date, capped at 9.
func (t *Tracker) Phase(now time.Time) int {
	months := (now.Year()-t.startDate.Year())*12 + int(now.Month()) - int(t.startDate.Month()) + 1
	if months > 9 {
		return 9
	}
	return months
}

// Targets computes per-category goals from six months of debit history,
// applying the progressive reduction for the current phase: 10% in months
// 1-3, 20% in 4-6, 30% after.
func (t *Tracker) Targets(records []ledger.TransactionRecord, now time.Time) map[string]Goal {
	horizon := now.AddDate(0, -baselineMonths, 0)

	categoryTotals := map[string]map[string]decimal.Decimal{}
	months := map[string]bool{}

	for _, r := range records {
		if r.Direction != ledger.Debit || r.Timestamp.Before(horizon) || t.IsSubscriptionCategory(r.Category) {
			continue
		}

		monthKey := r.Timestamp.Format("2006-01")
		if categoryTotals[r.Category] == nil {
			categoryTotals[r.Category] = map[string]decimal.Decimal{}
		}
		categoryTotals[r.Category][monthKey] = categoryTotals[r.Category][monthKey].Add(r.Amount)
		months[monthKey] = true
	}

	totalMonths := int64(len(months))
	if totalMonths == 0 {
		totalMonths = baselineMonths
	}

	phase := t.Phase(now)
	rate := 10
	label := "Phase 1"
	switch {
	case phase > 6:
		rate, label = 30, "Phase 3"
	case phase > 3:
		rate, label = 20, "Phase 2"
	}

	goals := map[string]Goal{}
	for category, monthly := range categoryTotals {
		total := decimal.Zero
		for _, amount := range monthly {
			total = total.Add(amount)
		}

		baseline := total.Div(decimal.NewFromInt(totalMonths))
		target := baseline.Mul(decimal.NewFromInt(int64(100 - rate))).Div(decimal.NewFromInt(100))

		goals[category] = Goal{
			Baseline:      baseline,
			Target:        target,
			ReductionRate: rate,
			Phase:         label,
		}
	}

	return goals
}

// CurrentMonthSpending sums this month's debits per category, excluding
// subscriptions.
func (t *Tracker) CurrentMonthSpending(records []ledger.TransactionRecord, now time.Time) map[string]decimal.Decimal {
	spending := map[string]decimal.Decimal{}

	for _, r := range records {
		if !sameMonth(r.Timestamp, now) || r.Direction != ledger.Debit || t.IsSubscriptionCategory(r.Category) {
			continue
		}
		spending[r.Category] = spending[r.Category].Add(r.Amount)
	}

	return spending
}

// CurrentMonthSubscriptions sums this month's subscription debits grouped by
// detected service name.
func (t *Tracker) CurrentMonthSubscriptions(records []ledger.TransactionRecord, now time.Time) map[string]decimal.Decimal {
	subscriptions := map[string]decimal.Decimal{}

	for _, r := range records {
		if !sameMonth(r.Timestamp, now) || r.Direction != ledger.Debit || !t.IsSubscriptionCategory(r.Category) {
			continue
		}
		subscriptions[ServiceName(r.Description, r.Category)] = subscriptions[ServiceName(r.Description, r.Category)].Add(r.Amount)
	}

	return subscriptions
}

// ServiceName maps a transaction description to a subscription service.
func ServiceName(info, category string) string {
	lower := strings.ToLower(info)
	switch {
	case strings.Contains(lower, "netflix"):
		return "Netflix"
	case strings.Contains(lower, "youtube"), strings.Contains(lower, "google"):
		return "YouTube Premium"
	case strings.Contains(lower, "apple"):
		return "Apple Services"
	case strings.Contains(lower, "amazon"):
		return "Amazon Prime"
	case strings.Contains(lower, "spotify"):
		return "Spotify"
	}

	if category != "" {
		return category
	}
	return "Other Subscription"
}

// SmartAlerts inspects each goal against the month so far. Thresholds:
// warning at 75% of target, critical at 100%, anomaly when spending runs
// ahead of 1.5x the prorated target before the 15th, positive when under
// half the target past mid-month.
func (t *Tracker) SmartAlerts(goals map[string]Goal, spending map[string]decimal.Decimal, now time.Time) []Alert {
	var alerts []Alert

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	daysPassed := now.Day()
	monthProgress := float64(daysPassed) / float64(daysInMonth)

	for category, goal := range goals {
		spent := spending[category]
		if !goal.Target.IsPositive() {
			continue
		}

		budgetUsed, _ := spent.Div(goal.Target).Float64()
		targetSpent := goal.Target.Mul(decimal.NewFromFloat(monthProgress))

		switch {
		case budgetUsed >= 1.0:
			excess := spent.Sub(goal.Target)
			alerts = append(alerts, Alert{
				Type:     AlertCritical,
				Category: category,
				Message: fmt.Sprintf("*%s*: Budget exceeded by Rs. %s! Consider reducing spending.",
					category, excess.StringFixed(0)),
			})
		case budgetUsed >= 0.75:
			remaining := goal.Target.Sub(spent)
			alerts = append(alerts, Alert{
				Type:     AlertWarning,
				Category: category,
				Message: fmt.Sprintf("*%s*: You're Rs. %s away from your goal! (%.0f%% used)",
					category, remaining.StringFixed(0), budgetUsed*100),
			})
		case spent.GreaterThan(targetSpent.Mul(decimal.NewFromFloat(1.5))) && daysPassed < 15:
			alerts = append(alerts, Alert{
				Type:     AlertAnomaly,
				Category: category,
				Message: fmt.Sprintf("*%s*: Spending faster than usual. Current: Rs. %s, Expected: Rs. %s",
					category, spent.StringFixed(0), targetSpent.StringFixed(0)),
			})
		case budgetUsed < 0.5 && monthProgress > 0.5:
			saved := goal.Baseline.Sub(spent)
			if saved.IsPositive() {
				alerts = append(alerts, Alert{
					Type:     AlertPositive,
					Category: category,
					Message: fmt.Sprintf("*%s*: Great progress! You've saved Rs. %s compared to your baseline.",
						category, saved.StringFixed(0)),
				})
			}
		}
	}

	return alerts
}

// ContextualMessages builds the digest's closing lines from the month's
// alerts and savings.
func ContextualMessages(alerts []Alert, totalSavings decimal.Decimal, now time.Time) []string {
	var messages []string

	if totalSavings.GreaterThan(decimal.NewFromInt(1000)) {
		messages = append(messages,
			fmt.Sprintf("*Motivational*: Excellent! You've saved Rs. %s this month!", totalSavings.StringFixed(0)))
	}

	critical, warning := 0, 0
	for _, a := range alerts {
		switch a.Type {
		case AlertCritical:
			critical++
		case AlertWarning:
			warning++
		}
	}

	if critical == 0 && warning == 0 {
		messages = append(messages, "*Educational*: All categories are on track! Keep up the great work!")
	} else if critical > 0 {
		messages = append(messages,
			fmt.Sprintf("*Actionable*: Focus on reducing spending in %d category(ies) to get back on track.", critical))
	}

	if now.Month() == time.November || now.Month() == time.December {
		messages = append(messages, "*Seasonal*: Festival season - plan your spending to stay within goals!")
	}

	return messages
}

func sameMonth(t, now time.Time) bool {
	return t.Year() == now.Year() && t.Month() == now.Month()
}
