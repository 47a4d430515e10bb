// Package voice turns free-form expense descriptions ("spent 500 on
// food") into structured expense fields. The parsing is a keyword and
// regex heuristic, not NLP: good enough for dictated one-liners.
package voice

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// fallbackTitle is used when the input has no usable tokens.
const fallbackTitle = "Voice expense"

// amountPattern matches the first integer or decimal substring. A comma
// is accepted as decimal separator, same as core.ParseAmount.
var amountPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// keywordTable maps spoken hints to canonical categories. Entries are
// scanned in declaration order and the first hit wins; the match is a
// case-insensitive substring check against the whole text.
var keywordTable = []struct {
	category string
	keywords []string
}{
	{"Food", []string{"food", "lunch", "dinner", "breakfast", "grocery", "groceries", "restaurant", "snack", "coffee", "pizza"}},
	{"Travel", []string{"travel", "taxi", "uber", "cab", "bus", "train", "flight", "fuel", "petrol"}},
	{"Shopping", []string{"shopping", "clothes", "shoes", "bought", "purchase", "amazon"}},
	{"Entertainment", []string{"movie", "cinema", "entertainment", "game", "concert", "netflix", "subscription"}},
	{"Utilities", []string{"electricity", "water", "internet", "utility", "utilities", "recharge", "bill"}},
	{"Rent", []string{"rent", "lease"}},
}

// ParsedExpense is the structured result of parsing one utterance.
type ParsedExpense struct {
	Amount   decimal.Decimal
	Category string
	Title    string
}

// Parse extracts an amount, a category guess and a short title from
// unstructured text. Returns core.ErrMissingAmount when no numeric
// substring is present; everything else has a defined fallback, so the
// category is "Other" when no keyword matches and the title degrades to
// a fixed string for empty input.
func Parse(text string) (ParsedExpense, error) {
	trimmed := strings.TrimSpace(text)

	raw := amountPattern.FindString(trimmed)
	if raw == "" {
		return ParsedExpense{}, core.ErrMissingAmount
	}
	amount, err := core.ParseAmount(raw)
	if err != nil {
		return ParsedExpense{}, core.ErrMissingAmount
	}

	return ParsedExpense{
		Amount:   amount,
		Category: guessCategory(trimmed),
		Title:    titleFrom(trimmed),
	}, nil
}

func guessCategory(text string) string {
	lower := strings.ToLower(text)
	for _, entry := range keywordTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.category
			}
		}
	}
	return "Other"
}

// titleFrom keeps the first three whitespace-separated tokens.
func titleFrom(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return fallbackTitle
	}
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, " ")
}
