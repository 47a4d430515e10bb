package core

import (
	"errors"
	"testing"
	"time"
)

func TestNewMonthWindow(t *testing.T) {
	w, err := NewMonthWindow(2, 2025)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got := w.Start; !got.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", got)
	}
	if got := w.End; !got.Equal(time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("end = %v", got)
	}
	if w.Month() != 2 || w.Year() != 2025 {
		t.Fatalf("month/year = %d/%d", w.Month(), w.Year())
	}

	// Leap year February.
	w, _ = NewMonthWindow(2, 2024)
	if got := w.End.Day(); got != 29 {
		t.Fatalf("leap end day = %d", got)
	}

	// January of Y stays in Y, never December of Y-1.
	w, _ = NewMonthWindow(1, 2025)
	if w.Start.Year() != 2025 || w.Start.Month() != time.January {
		t.Fatalf("january window start = %v", w.Start)
	}

	for _, m := range []int{0, 13, -1} {
		if _, err := NewMonthWindow(m, 2025); !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("month %d: expected ErrInvalidPeriod, got %v", m, err)
		}
	}
}

func TestMonthWindowContains(t *testing.T) {
	w, _ := NewMonthWindow(3, 2025)
	cases := []struct {
		ts time.Time
		in bool
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC), true},
		{time.Date(2025, 2, 28, 23, 59, 59, 0, time.UTC), false},
		{time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), false},
	}
	for i, tc := range cases {
		if got := w.Contains(tc.ts); got != tc.in {
			t.Fatalf("case %d: Contains(%v) = %v", i, tc.ts, got)
		}
	}
}
