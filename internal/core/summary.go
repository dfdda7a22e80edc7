package core

// CategoryAmount is an amount aggregated under one category bucket.
type CategoryAmount struct {
	Category Category
	Amount   Money
}

// Totals is the full recomputation of a receipt list: one bucket per
// category in enum order plus the grand total. The buckets always sum to
// Grand because unmatched categories are folded into Other at parse time.
type Totals struct {
	ByCategory []CategoryAmount
	Grand      Money
}

// Amount returns the bucket total for the given category.
func (t Totals) Amount(c Category) Money {
	for _, ca := range t.ByCategory {
		if ca.Category == c {
			return ca.Amount
		}
	}
	return Money{}
}

// ComputeTotals aggregates receipts by category with a single traversal.
// It is always recomputed from scratch, never patched incrementally.
func ComputeTotals(receipts []Receipt) Totals {
	byCat := map[Category]int64{}
	var grand int64
	for _, r := range receipts {
		c := ParseCategory(string(r.Category))
		byCat[c] += r.Amount.Cents
		grand += r.Amount.Cents
	}
	totals := Totals{Grand: Money{Cents: grand}}
	for _, c := range Categories() {
		totals.ByCategory = append(totals.ByCategory, CategoryAmount{
			Category: c,
			Amount:   Money{Cents: byCat[c]},
		})
	}
	return totals
}
