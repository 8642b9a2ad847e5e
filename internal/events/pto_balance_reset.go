package events

import "time"

const PtoBalanceResetTopic = "hr.pto.balance.reset.v1"

const PtoBalanceAnnualReset = "pto_balance.annual_reset"

// PtoBalanceResetEvent is emitted once per company after an annual
// projection run completes.
type PtoBalanceResetEvent struct {
	EventType       string    `json:"event_type"`
	CompanyID       string    `json:"company_id"`
	Year            int       `json:"year"`
	PoliciesReset   int       `json:"policies_reset"`
	PoliciesSkipped int       `json:"policies_skipped"`
	ActorID         string    `json:"actor_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}
