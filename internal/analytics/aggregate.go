package analytics

import (
	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// AggregateResult holds the derived monthly totals for one owner. It is
// recomputed on every request and never persisted.
type AggregateResult struct {
	TotalIncome  decimal.Decimal            `json:"totalIncome"`
	TotalExpense decimal.Decimal            `json:"totalExpense"`
	Savings      decimal.Decimal            `json:"savings"`
	PerCategory  map[string]decimal.Decimal `json:"perCategory"`
}

// Aggregate sums the incomes and expenses that fall inside the window and
// groups expense totals by raw category label (bucket totals are the
// recommendation engine's job). Filtering by the window happens here, the
// caller passes full record sets. Empty inputs yield zero totals.
func Aggregate(window core.MonthWindow, incomes, expenses []core.Transaction) AggregateResult {
	res := AggregateResult{
		PerCategory: make(map[string]decimal.Decimal),
	}
	for _, in := range incomes {
		if !window.Contains(in.Date) {
			continue
		}
		res.TotalIncome = res.TotalIncome.Add(in.Amount)
	}
	for _, ex := range expenses {
		if !window.Contains(ex.Date) {
			continue
		}
		res.TotalExpense = res.TotalExpense.Add(ex.Amount)
		res.PerCategory[ex.Category] = res.PerCategory[ex.Category].Add(ex.Amount)
	}
	res.Savings = res.TotalIncome.Sub(res.TotalExpense)
	return res
}
