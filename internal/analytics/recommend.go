package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var (
	needsShare      = decimal.NewFromFloat(0.5)
	wantsShare      = decimal.NewFromFloat(0.3)
	savingsShare    = decimal.NewFromFloat(0.2)
	overspendFactor = decimal.NewFromFloat(1.2)

	twenty = decimal.NewFromInt(20)
	forty  = decimal.NewFromInt(40)
	ten    = decimal.NewFromInt(10)

	// Tip thresholds: a single category dominating total spend, and a high
	// average amount per transaction (in currency units).
	largeTransactionAvg = decimal.NewFromInt(1000)
)

type (
	// RecommendedSplit is the 50-30-20 allocation of a month's income.
	RecommendedSplit struct {
		Needs   decimal.Decimal `json:"needs"`
		Wants   decimal.Decimal `json:"wants"`
		Savings decimal.Decimal `json:"savings"`
	}

	// ActualSpend is what actually happened in the month.
	ActualSpend struct {
		NeedsSpent  decimal.Decimal `json:"needsSpent"`
		WantsSpent  decimal.Decimal `json:"wantsSpent"`
		TotalSpent  decimal.Decimal `json:"totalSpent"`
		SavingsRate decimal.Decimal `json:"savingsRate"`
	}

	// Personality is a spending-personality verdict with user-visible copy.
	Personality struct {
		Type        string `json:"type"`
		Description string `json:"description"`
	}

	// Suggestion is one actionable message; Type is warning, success or info.
	Suggestion struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}

	// RecommendationResult is the full verdict for one owner and month.
	// Purely derived, never persisted.
	RecommendationResult struct {
		TotalIncome      decimal.Decimal            `json:"totalIncome"`
		Recommended      RecommendedSplit           `json:"recommended"`
		Actual           ActualSpend                `json:"actual"`
		Personality      Personality                `json:"personality"`
		Suggestions      []Suggestion               `json:"suggestions"`
		Tips             []string                   `json:"tips"`
		CategorySpending map[string]decimal.Decimal `json:"categorySpending"`
	}
)

// ruleInput feeds the personality decision list.
type ruleInput struct {
	needsSpent  decimal.Decimal
	wantsSpent  decimal.Decimal
	needsLimit  decimal.Decimal
	wantsLimit  decimal.Decimal
	savingsRate decimal.Decimal
}

// personalityRules is an ordered decision list, first match wins. The
// overspend checks are strictly greater-than: spending exactly 120% of a
// limit does not trip them.
var personalityRules = []struct {
	match  func(in ruleInput) bool
	result Personality
}{
	{
		match: func(in ruleInput) bool { return in.needsSpent.GreaterThan(in.needsLimit.Mul(overspendFactor)) },
		result: Personality{
			Type:        "Essential Focused",
			Description: "You prioritize essential needs, which is great for financial security. Consider allocating some funds for enjoyment.",
		},
	},
	{
		match: func(in ruleInput) bool { return in.wantsSpent.GreaterThan(in.wantsLimit.Mul(overspendFactor)) },
		result: Personality{
			Type:        "Lifestyle Enthusiast",
			Description: "You enjoy spending on lifestyle and entertainment. Try to balance this with savings goals.",
		},
	},
	{
		match: func(in ruleInput) bool { return in.savingsRate.GreaterThanOrEqual(twenty) },
		result: Personality{
			Type:        "Savings Champion",
			Description: "Excellent! You're saving more than 20% of your income. Keep up the great work!",
		},
	},
	{
		match: func(in ruleInput) bool { return in.savingsRate.IsNegative() },
		result: Personality{
			Type:        "Overspender",
			Description: "You're spending more than you earn. Focus on reducing expenses and increasing income.",
		},
	},
	{
		match: func(in ruleInput) bool { return in.savingsRate.LessThan(ten) },
		result: Personality{
			Type:        "Minimal Saver",
			Description: "You're saving less than 10% of your income. Try to increase your savings rate gradually.",
		},
	},
}

var balancedSpender = Personality{
	Type:        "Balanced Spender",
	Description: "You maintain a good balance between needs and wants.",
}

// Recommend applies the 50-30-20 rule to the month's income, compares it
// to actual needs/wants spend, and derives a personality verdict plus
// ranked suggestions and tips. With zero income all limits are zero and
// the savings rate is forced to 0 rather than computed; that keeps the
// Overspender rule from firing on a zero-income month with spend, which
// matches the historical behavior.
func Recommend(window core.MonthWindow, incomes, expenses []core.Transaction) RecommendationResult {
	agg := Aggregate(window, incomes, expenses)
	totalIncome := agg.TotalIncome

	needsLimit := totalIncome.Mul(needsShare)
	wantsLimit := totalIncome.Mul(wantsShare)
	savingsTarget := totalIncome.Mul(savingsShare)

	var needsSpent, wantsSpent decimal.Decimal
	for cat, amt := range agg.PerCategory {
		if Classify(cat) == Needs {
			needsSpent = needsSpent.Add(amt)
		} else {
			wantsSpent = wantsSpent.Add(amt)
		}
	}
	totalSpent := needsSpent.Add(wantsSpent)

	var savingsRate decimal.Decimal
	if totalIncome.IsPositive() {
		savingsRate = totalIncome.Sub(totalSpent).Mul(hundred).Div(totalIncome)
	}

	in := ruleInput{
		needsSpent:  needsSpent,
		wantsSpent:  wantsSpent,
		needsLimit:  needsLimit,
		wantsLimit:  wantsLimit,
		savingsRate: savingsRate,
	}
	personality := balancedSpender
	for _, rule := range personalityRules {
		if rule.match(in) {
			personality = rule.result
			break
		}
	}

	expenseCount := 0
	for _, e := range expenses {
		if window.Contains(e.Date) {
			expenseCount++
		}
	}

	return RecommendationResult{
		TotalIncome: totalIncome,
		Recommended: RecommendedSplit{
			Needs:   needsLimit,
			Wants:   wantsLimit,
			Savings: savingsTarget,
		},
		Actual: ActualSpend{
			NeedsSpent:  needsSpent,
			WantsSpent:  wantsSpent,
			TotalSpent:  totalSpent,
			SavingsRate: savingsRate,
		},
		Personality:      personality,
		Suggestions:      buildSuggestions(in, totalIncome),
		Tips:             buildTips(agg.PerCategory, totalSpent, savingsRate, expenseCount),
		CategorySpending: agg.PerCategory,
	}
}

// buildSuggestions runs the independent needs/wants/savings checks. All
// applicable messages are included, in fixed order.
func buildSuggestions(in ruleInput, totalIncome decimal.Decimal) []Suggestion {
	suggestions := make([]Suggestion, 0, 3)

	if in.needsSpent.GreaterThan(in.needsLimit) {
		suggestions = append(suggestions, Suggestion{
			Type:    "warning",
			Message: fmt.Sprintf("You're spending %s more on needs than recommended. Review your essential expenses.", in.needsSpent.Sub(in.needsLimit).StringFixed(2)),
		})
	} else {
		suggestions = append(suggestions, Suggestion{
			Type:    "success",
			Message: fmt.Sprintf("Great! Your needs spending (%s) is within the recommended limit.", in.needsSpent.StringFixed(2)),
		})
	}

	if in.wantsSpent.GreaterThan(in.wantsLimit) {
		suggestions = append(suggestions, Suggestion{
			Type:    "warning",
			Message: fmt.Sprintf("Your discretionary spending is %s over budget. Consider cutting back on non-essentials.", in.wantsSpent.Sub(in.wantsLimit).StringFixed(2)),
		})
	} else {
		suggestions = append(suggestions, Suggestion{
			Type:    "success",
			Message: "Well done! Your wants spending is within budget.",
		})
	}

	if in.savingsRate.LessThan(twenty) && totalIncome.IsPositive() {
		suggestions = append(suggestions, Suggestion{
			Type:    "info",
			Message: fmt.Sprintf("Aim to save at least 20%% of your income. Currently saving %s%%.", in.savingsRate.StringFixed(1)),
		})
	}

	return suggestions
}

// buildTips assembles the heuristic tip list in fixed order: dominant
// category, transaction size, savings-rate advice, category diversity.
func buildTips(perCategory map[string]decimal.Decimal, totalSpent, savingsRate decimal.Decimal, expenseCount int) []string {
	tips := make([]string, 0, 4)

	if topName, topAmount, ok := topCategory(perCategory); ok && totalSpent.IsPositive() {
		pct := topAmount.Mul(hundred).Div(totalSpent)
		if pct.GreaterThan(forty) {
			tips = append(tips, fmt.Sprintf("You spend %s%% of your budget on %s. Consider diversifying your spending.", pct.StringFixed(1), topName))
		}
	}

	if expenseCount > 0 {
		avg := totalSpent.Div(decimal.NewFromInt(int64(expenseCount)))
		if avg.GreaterThan(largeTransactionAvg) {
			tips = append(tips, fmt.Sprintf("Your average expense per transaction is %s. Look for opportunities to reduce transaction sizes.", avg.StringFixed(2)))
		}
	}

	switch {
	case savingsRate.IsNegative():
		tips = append(tips,
			"You're spending more than you earn. Create a strict budget and track every expense.",
			"Consider finding ways to increase your income or reduce recurring expenses.")
	case savingsRate.GreaterThanOrEqual(twenty):
		tips = append(tips, "Excellent savings rate! Consider investing your savings to grow your wealth.")
	default:
		tips = append(tips,
			"Try the 50-30-20 rule: 50% needs, 30% wants, 20% savings. Adjust based on your goals.",
			"Review your expenses weekly to identify patterns and areas for improvement.")
	}

	if len(perCategory) < 3 {
		tips = append(tips, "You have limited spending categories. Diversifying can help identify optimization opportunities.")
	}

	return tips
}

// topCategory returns the category with the highest spend. Ties break on
// the lexicographically smaller name so the result is deterministic.
func topCategory(perCategory map[string]decimal.Decimal) (string, decimal.Decimal, bool) {
	names := make([]string, 0, len(perCategory))
	for name := range perCategory {
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", decimal.Decimal{}, false
	}
	sort.Strings(names)

	top := names[0]
	for _, name := range names[1:] {
		if perCategory[name].GreaterThan(perCategory[top]) {
			top = name
		}
	}
	return top, perCategory[top], true
}
