package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

// BudgetStatus reports the consumption of one category's budget for a
// month. Limit and Remaining are nil for NO_BUDGET rows, where no budget
// is configured for the category.
type BudgetStatus struct {
	Category       string           `json:"category"`
	Limit          *decimal.Decimal `json:"limit"`
	Spent          decimal.Decimal  `json:"spent"`
	Remaining      *decimal.Decimal `json:"remaining"`
	PercentageUsed int64            `json:"percentageUsed"`
	AlertLevel     core.AlertLevel  `json:"alertLevel"`
}

// EvaluateBudget computes the status of a stored budget against the spend
// recorded for its category. The alert tier is derived from the exact
// spent/limit ratio; PercentageUsed is that ratio rounded for display, so
// a ratio of 0.699999 reads as 70% but still reports SAFE.
func EvaluateBudget(b core.Budget, spent decimal.Decimal) BudgetStatus {
	limit := b.Limit
	remaining := limit.Sub(spent)

	var pct decimal.Decimal
	if !limit.IsZero() {
		pct = spent.Mul(hundred).Div(limit)
	}

	return BudgetStatus{
		Category:       b.Category,
		Limit:          &limit,
		Spent:          spent,
		Remaining:      &remaining,
		PercentageUsed: pct.Round(0).IntPart(),
		AlertLevel:     alertFor(pct),
	}
}

// alertFor maps a used percentage to its tier. Thresholds are inclusive
// lower bounds checked in descending order, so exactly 100 is EXCEEDED,
// exactly 90 CRITICAL and exactly 70 WARNING. A zero limit cannot be
// meaningfully exceeded: the percentage stays 0 and the tier SAFE.
func alertFor(pct decimal.Decimal) core.AlertLevel {
	switch {
	case pct.GreaterThanOrEqual(hundred):
		return core.AlertExceeded
	case pct.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return core.AlertCritical
	case pct.GreaterThanOrEqual(decimal.NewFromInt(70)):
		return core.AlertWarning
	default:
		return core.AlertSafe
	}
}

// EvaluateBudgets returns one status per stored budget, in input order,
// followed by NO_BUDGET rows for categories that recorded spend without a
// configured budget (sorted by name). Untracked spend is reported rather
// than omitted so callers can enumerate it.
func EvaluateBudgets(budgets []core.Budget, perCategory map[string]decimal.Decimal) []BudgetStatus {
	statuses := make([]BudgetStatus, 0, len(budgets))
	seen := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		statuses = append(statuses, EvaluateBudget(b, perCategory[b.Category]))
		seen[b.Category] = true
	}

	untracked := make([]string, 0)
	for cat := range perCategory {
		if !seen[cat] {
			untracked = append(untracked, cat)
		}
	}
	sort.Strings(untracked)
	for _, cat := range untracked {
		statuses = append(statuses, BudgetStatus{
			Category:   cat,
			Spent:      perCategory[cat],
			AlertLevel: core.AlertNoBudget,
		})
	}
	return statuses
}
