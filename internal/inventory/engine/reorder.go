package engine

// Tier is the urgency of a low-stock condition.
type Tier string

const (
	TierNone     Tier = ""
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
)

// ReorderPolicy holds the deployment-tunable urgency threshold. The fraction
// is the share of the reorder level below which a warning escalates to
// critical.
type ReorderPolicy struct {
	CriticalFraction float64
}

// DefaultReorderPolicy escalates once stock falls under half the reorder level.
func DefaultReorderPolicy() ReorderPolicy {
	return ReorderPolicy{CriticalFraction: 0.5}
}

// ReorderEvaluation is the outcome of comparing aggregate stock against a
// medicine's reorder level.
type ReorderEvaluation struct {
	BelowReorder bool `json:"below_reorder"`
	Urgency      Tier `json:"urgency"`
}

// EvaluateReorder compares a medicine's aggregate on-hand quantity against
// its reorder level. No alert fires while quantity covers the reorder level.
// Urgency never decreases as quantity drops.
func EvaluateReorder(reorderLevel, aggregateQty int, policy ReorderPolicy) ReorderEvaluation {
	if aggregateQty >= reorderLevel {
		return ReorderEvaluation{}
	}

	eval := ReorderEvaluation{BelowReorder: true, Urgency: TierWarning}
	if aggregateQty <= 0 || float64(aggregateQty) < float64(reorderLevel)*policy.CriticalFraction {
		eval.Urgency = TierCritical
	}
	return eval
}
