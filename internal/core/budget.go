package core

const (
	TierOK       Tier = "ok"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// Tier is the qualitative classification of the remaining balance.
type Tier string

// ClassifyBudget maps a remaining balance to a severity tier: critical at or
// below 20% of budget, warning at or below 50%, ok otherwise.
//
// A zero budget with zero spend is ok by convention; a zero budget with any
// spend is critical.
func ClassifyBudget(remaining, budget Money) Tier {
	if budget.IsZero() {
		if remaining.IsZero() {
			return TierOK
		}
		return TierCritical
	}
	// Compare on cents scaled by 100 to avoid float ratios.
	if remaining.Cents*100 <= budget.Cents*20 {
		return TierCritical
	}
	if remaining.Cents*100 <= budget.Cents*50 {
		return TierWarning
	}
	return TierOK
}
