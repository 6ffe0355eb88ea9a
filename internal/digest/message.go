package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aavugari/Smart-Expense-Monitor/internal/goals"
	"github.com/aavugari/Smart-Expense-Monitor/pkg/ledger"
)

const maxAlerts = 3

// BuildDailyMessage renders the daily digest. Sections with no data are
// omitted; emphasis uses literal asterisk wrapping only.
func BuildDailyMessage(summary DailySummary, targets map[string]goals.Goal, spending, subscriptions map[string]decimal.Decimal, alerts []goals.Alert, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Daily Spend Summary* - %s\n\n", now.Format(ledger.DateOnlyLayout))

	if summary.TotalToday.IsPositive() {
		writeBreakdown(&b, summary.Today)
		fmt.Fprintf(&b, "*Total Spent Today*: Rs. %s\n\n", summary.TotalToday.StringFixed(2))
	} else {
		b.WriteString("No spends today\n\n")
	}

	fmt.Fprintf(&b, "*Month-to-Date (%s)*\n\n", now.Format("January 2006"))
	writeBreakdown(&b, summary.MTD)
	fmt.Fprintf(&b, "*Total MTD*: Rs. %s\n\n", summary.TotalMTD.StringFixed(2))

	totalSavings := writeGoalProgress(&b, targets, spending)
	writeSubscriptions(&b, subscriptions)

	if len(alerts) > 0 {
		b.WriteString("*Smart Alerts*\n\n")
		for i, alert := range alerts {
			if i == maxAlerts {
				break
			}
			b.WriteString(alert.Message + "\n\n")
		}
	}

	for _, msg := range goals.ContextualMessages(alerts, totalSavings, now) {
		b.WriteString(msg + "\n\n")
	}

	return b.String()
}

// BuildWeeklyMessage renders the weekly digest.
func BuildWeeklyMessage(summary goals.WeeklySummary, targets map[string]goals.Goal, spending, subscriptions map[string]decimal.Decimal, insights []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*Weekly Summary* (%s - %s)\n\n",
		summary.WeekStart.Format("Jan 02"), summary.WeekEnd.Format("Jan 02"))

	b.WriteString("*Weekly Spending*\n")
	for _, person := range sortedKeys(summary.SpendingByPerson) {
		fmt.Fprintf(&b, "%s: Rs. %s\n", person, summary.SpendingByPerson[person].StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*Total Weekly*: Rs. %s\n\n", summary.Total.StringFixed(2))

	if len(summary.SpendingByCategory) > 0 {
		b.WriteString("*Top Categories This Week*\n")
		for _, category := range summary.TopCategories(5) {
			fmt.Fprintf(&b, "%s: Rs. %s\n", category, summary.SpendingByCategory[category].StringFixed(2))
		}
		b.WriteString("\n")
	}

	if len(targets) > 0 {
		b.WriteString("*Monthly Goal Progress*\n\n")
		onTrack := 0
		for _, category := range sortedGoalKeys(targets) {
			goal := targets[category]
			spent := spending[category]
			progress := percentUsed(spent, goal.Target)

			status := "Over Budget"
			switch {
			case progress < 75:
				status = "On Track"
				onTrack++
			case progress < 100:
				status = "Warning"
				onTrack++
			}

			fmt.Fprintf(&b, "- %s: %s (Rs. %s/Rs. %s - %.0f%%)\n",
				category, status, spent.StringFixed(0), goal.Target.StringFixed(0), progress)
		}
		fmt.Fprintf(&b, "\n*Overall Score*: %.0f%% goals on track\n\n",
			float64(onTrack)/float64(len(targets))*100)
	}

	writeSubscriptions(&b, subscriptions)

	if len(insights) > 0 {
		b.WriteString("*Weekly Insights*\n\n")
		for _, insight := range insights {
			b.WriteString(insight + "\n\n")
		}
	}

	return b.String()
}

func writeBreakdown(b *strings.Builder, breakdown map[string]map[ledger.Bank]decimal.Decimal) {
	persons := make([]string, 0, len(breakdown))
	for p := range breakdown {
		persons = append(persons, p)
	}
	sort.Strings(persons)

	for _, person := range persons {
		fmt.Fprintf(b, "*%s*\n", person)
		for _, bank := range ledger.Banks() {
			if amount, ok := breakdown[person][bank]; ok {
				fmt.Fprintf(b, "%s: Rs. %s\n", bank, amount.StringFixed(2))
			}
		}
		b.WriteString("\n")
	}
}

func writeGoalProgress(b *strings.Builder, targets map[string]goals.Goal, spending map[string]decimal.Decimal) decimal.Decimal {
	totalSavings := decimal.Zero
	if len(targets) == 0 {
		return totalSavings
	}

	b.WriteString("*Goal Progress*\n\n")
	for _, category := range sortedGoalKeys(targets) {
		goal := targets[category]
		spent := spending[category]

		progress := percentUsed(spent, goal.Target)
		if progress > 100 {
			progress = 100
		}

		if saved := goal.Baseline.Sub(spent); saved.IsPositive() {
			totalSavings = totalSavings.Add(saved)
		}

		fmt.Fprintf(b, "*%s*: %.0f%% (Rs. %s/Rs. %s)\n",
			category, progress, spent.StringFixed(0), goal.Target.StringFixed(0))
	}

	if totalSavings.IsPositive() {
		fmt.Fprintf(b, "\n*Total Savings*: Rs. %s\n", totalSavings.StringFixed(0))
	}
	b.WriteString("\n")

	return totalSavings
}

func writeSubscriptions(b *strings.Builder, subscriptions map[string]decimal.Decimal) {
	if len(subscriptions) == 0 {
		return
	}

	b.WriteString("*Active Subscriptions*\n")
	total := decimal.Zero
	for _, service := range sortedKeys(subscriptions) {
		amount := subscriptions[service]
		total = total.Add(amount)
		fmt.Fprintf(b, "%s: Rs. %s\n", service, amount.StringFixed(2))
	}
	fmt.Fprintf(b, "*Total Subscriptions*: Rs. %s\n\n", total.StringFixed(2))
}

func percentUsed(spent decimal.Decimal, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	used, _ := spent.Div(target).Float64()
	return used * 100
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedGoalKeys(m map[string]goals.Goal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
