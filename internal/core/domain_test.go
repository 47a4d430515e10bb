package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Owner:    "u1",
		Kind:     Expense,
		Amount:   decimal.NewFromInt(100),
		Category: "Food",
		Title:    "groceries",
		Date:     time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Owner: "", Kind: Expense, Amount: decimal.NewFromInt(1), Category: "Food", Title: "a", Date: good.Date},
		{Owner: "u1", Kind: "transfer", Amount: decimal.NewFromInt(1), Category: "Food", Title: "a", Date: good.Date},
		{Owner: "u1", Kind: Expense, Amount: decimal.NewFromInt(-1), Category: "Food", Title: "a", Date: good.Date},
		{Owner: "u1", Kind: Expense, Amount: decimal.NewFromInt(1), Category: "Food", Title: "a"}, // zero date
		{Owner: "u1", Kind: Expense, Amount: decimal.NewFromInt(1), Category: "", Title: "a", Date: good.Date},
		{Owner: "u1", Kind: Expense, Amount: decimal.NewFromInt(1), Category: "Food", Title: "", Date: good.Date},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}

	// Income needs a source but no category.
	income := Transaction{
		Owner:  "u1",
		Kind:   Income,
		Amount: decimal.NewFromInt(1000),
		Title:  "Salary",
		Date:   good.Date,
	}
	if err := income.Validate(); err != nil {
		t.Fatalf("income expected ok, got %v", err)
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Owner: "u1", Category: "Food", Limit: decimal.NewFromInt(500), Month: 3, Year: 2025}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Budget{
		{Owner: "", Category: "Food", Limit: decimal.NewFromInt(500), Month: 3, Year: 2025},
		{Owner: "u1", Category: "", Limit: decimal.NewFromInt(500), Month: 3, Year: 2025},
		{Owner: "u1", Category: "Food", Limit: decimal.Zero, Month: 3, Year: 2025},
		{Owner: "u1", Category: "Food", Limit: decimal.NewFromInt(500), Month: 0, Year: 2025},
		{Owner: "u1", Category: "Food", Limit: decimal.NewFromInt(500), Month: 13, Year: 2025},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
