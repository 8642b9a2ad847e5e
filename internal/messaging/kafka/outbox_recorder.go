package kafka

import (
	"context"
	"database/sql"
	"encoding/json"

	"go-pto/internal/events"

	"github.com/google/uuid"
)

// Recorder stages domain events in the outbox inside the caller's
// transaction, so a rolled-back state change never leaks a notification.
//
//go:generate mockgen -source=outbox_recorder.go -destination=mock/outbox_recorder_mock.go -package=mock
type Recorder interface {
	RecordRequestLifecycle(ctx context.Context, tx *sql.Tx, event events.PtoRequestLifecycleEvent) error
	RecordBalanceReset(ctx context.Context, tx *sql.Tx, event events.PtoBalanceResetEvent) error
}

type recorder struct {
	repo OutboxRepository
}

func NewRecorder(repo OutboxRepository) Recorder {
	return &recorder{repo: repo}
}

func (r *recorder) RecordRequestLifecycle(ctx context.Context, tx *sql.Tx, event events.PtoRequestLifecycleEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.repo.WithTx(tx).Create(ctx, OutboxEvent{
		ID:            uuid.NewString(),
		CompanyID:     event.CompanyID,
		AggregateType: "pto_request",
		AggregateID:   event.RequestID,
		EventType:     event.EventType,
		Topic:         events.PtoRequestLifecycleTopic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	})
}

func (r *recorder) RecordBalanceReset(ctx context.Context, tx *sql.Tx, event events.PtoBalanceResetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.repo.WithTx(tx).Create(ctx, OutboxEvent{
		ID:            uuid.NewString(),
		CompanyID:     event.CompanyID,
		AggregateType: "pto_balance",
		AggregateID:   event.CompanyID,
		EventType:     event.EventType,
		Topic:         events.PtoBalanceResetTopic,
		Payload:       payload,
		Status:        OutboxStatusPending,
	})
}
