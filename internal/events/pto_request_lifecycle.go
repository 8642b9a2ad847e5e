package events

import "time"

const PtoRequestLifecycleTopic = "hr.pto.request.lifecycle.v1"

const (
	PtoRequestSubmitted = "pto_request.submitted"
	PtoRequestApproved  = "pto_request.approved"
	PtoRequestDenied    = "pto_request.denied"
	PtoRequestCancelled = "pto_request.cancelled"
)

// PtoRequestLifecycleEvent is emitted on every request status transition.
// The worker relays it to Kafka for downstream notification fan-out.
type PtoRequestLifecycleEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id"`
	RequestNumber string    `json:"request_number"`
	CompanyID     string    `json:"company_id"`
	UserID        string    `json:"user_id"`
	PtoTypeID     string    `json:"pto_type_id"`
	Status        string    `json:"status"`
	TotalDays     string    `json:"total_days"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	ActorID       string    `json:"actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
