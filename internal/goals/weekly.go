package goals

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

// WeeklySummary aggregates the trailing seven days of the master ledger.
type WeeklySummary struct {
	SpendingByPerson   map[string]decimal.Decimal
	SpendingByCategory map[string]decimal.Decimal
	Total              decimal.Decimal
	WeekStart          time.Time
	WeekEnd            time.Time
}

func (t *Tracker) Weekly(records []ledger.TransactionRecord, now time.Time) WeeklySummary {
	weekAgo := now.Add(-7 * 24 * time.Hour)

	summary := WeeklySummary{
		SpendingByPerson:   map[string]decimal.Decimal{},
		SpendingByCategory: map[string]decimal.Decimal{},
		WeekStart:          weekAgo,
		WeekEnd:            now,
	}

	for _, r := range records {
		if r.Direction != ledger.Debit || r.Timestamp.Before(weekAgo) || r.Timestamp.After(now) {
			continue
		}

		summary.SpendingByPerson[r.Source] = summary.SpendingByPerson[r.Source].Add(r.Amount)
		summary.SpendingByCategory[r.Category] = summary.SpendingByCategory[r.Category].Add(r.Amount)
		summary.Total = summary.Total.Add(r.Amount)
	}

	return summary
}

// TopCategories returns up to n categories by weekly spend, descending.
func (s WeeklySummary) TopCategories(n int) []string {
	categories := make([]string, 0, len(s.SpendingByCategory))
	for c := range s.SpendingByCategory {
		categories = append(categories, c)
	}

	sort.Slice(categories, func(i, j int) bool {
		a, b := s.SpendingByCategory[categories[i]], s.SpendingByCategory[categories[j]]
		if a.Equal(b) {
			return categories[i] < categories[j]
		}
		return a.GreaterThan(b)
	})

	if len(categories) > n {
		categories = categories[:n]
	}
	return categories
}

// WeeklyInsights produces the recommendation lines for the weekly digest.
func (t *Tracker) WeeklyInsights(summary WeeklySummary, goals map[string]Goal, spending map[string]decimal.Decimal, now time.Time) []string {
	var insights []string

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	monthProgress := decimal.NewFromInt(int64(now.Day())).Div(decimal.NewFromInt(int64(daysInMonth)))

	totalTarget := decimal.Zero
	for _, g := range goals {
		totalTarget = totalTarget.Add(g.Target)
	}
	totalSpent := decimal.Zero
	for _, s := range spending {
		totalSpent = totalSpent.Add(s)
	}
	expected := totalTarget.Mul(monthProgress)

	if totalSpent.LessThan(expected.Mul(decimal.NewFromFloat(0.8))) {
		insights = append(insights, "*Excellent*: You're spending 20% less than expected this month!")
	} else if totalSpent.GreaterThan(expected.Mul(decimal.NewFromFloat(1.2))) {
		insights = append(insights, "*Alert*: Spending is 20% higher than expected. Consider reducing expenses.")
	}

	dailyAverage := summary.Total.Div(decimal.NewFromInt(7))
	if dailyAverage.GreaterThan(decimal.NewFromInt(1000)) {
		insights = append(insights,
			fmt.Sprintf("*Insight*: Daily average this week: Rs. %s. Consider meal planning to reduce food costs.",
				dailyAverage.StringFixed(0)))
	}

	if top := summary.TopCategories(1); len(top) > 0 && summary.Total.IsPositive() {
		amount := summary.SpendingByCategory[top[0]]
		share := amount.Div(summary.Total)
		if share.GreaterThan(decimal.NewFromFloat(0.4)) {
			insights = append(insights,
				fmt.Sprintf("*Focus Area*: %s accounts for %s%% of weekly spending. Look for optimization opportunities.",
					top[0], share.Mul(decimal.NewFromInt(100)).StringFixed(0)))
		}
	}

	return insights
}
