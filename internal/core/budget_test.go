package core

import "testing"

func TestClassifyBudget(t *testing.T) {
	tests := []struct {
		name      string
		remaining int64
		budget    int64
		want      Tier
	}{
		{name: "untouched budget", remaining: 50000, budget: 50000, want: TierOK},
		{name: "above half", remaining: 40450, budget: 50000, want: TierOK},
		{name: "exactly half", remaining: 25000, budget: 50000, want: TierWarning},
		{name: "below half", remaining: 20000, budget: 50000, want: TierWarning},
		{name: "exactly twenty percent", remaining: 10000, budget: 50000, want: TierCritical},
		{name: "nearly spent", remaining: 450, budget: 10000, want: TierCritical},
		{name: "fully spent", remaining: 0, budget: 10000, want: TierCritical},
		{name: "zero budget zero remaining", remaining: 0, budget: 0, want: TierOK},
		{name: "zero budget with remainder", remaining: 100, budget: 0, want: TierCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyBudget(Money{Cents: tt.remaining}, Money{Cents: tt.budget})
			if got != tt.want {
				t.Errorf("ClassifyBudget(%d, %d) = %q, want %q", tt.remaining, tt.budget, got, tt.want)
			}
		})
	}
}

func TestComputeTotalsBucketsSumToGrand(t *testing.T) {
	receipts := []Receipt{
		{Category: Coffee, Amount: Money{Cents: 1550}},
		{Category: Dinner, Amount: Money{Cents: 8000}},
		{Category: Dinner, Amount: Money{Cents: 1200}},
		{Category: "souvenirs", Amount: Money{Cents: 3000}}, // folds into Other
		{Category: Laundry, Amount: Money{Cents: 900}},
	}

	totals := ComputeTotals(receipts)

	var sum int64
	for _, ca := range totals.ByCategory {
		sum += ca.Amount.Cents
	}
	if sum != totals.Grand.Cents {
		t.Errorf("bucket sum = %d, grand total = %d", sum, totals.Grand.Cents)
	}
	if got := totals.Amount(Other).Cents; got != 3000 {
		t.Errorf("Other bucket = %d, want 3000", got)
	}
	if got := totals.Amount(Dinner).Cents; got != 9200 {
		t.Errorf("Dinner bucket = %d, want 9200", got)
	}
	if totals.Grand.Cents != 14650 {
		t.Errorf("grand total = %d, want 14650", totals.Grand.Cents)
	}
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	if !totals.Grand.IsZero() {
		t.Errorf("grand total of empty list = %d, want 0", totals.Grand.Cents)
	}
	if len(totals.ByCategory) != len(Categories()) {
		t.Errorf("bucket count = %d, want %d", len(totals.ByCategory), len(Categories()))
	}
}
