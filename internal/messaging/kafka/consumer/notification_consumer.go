package consumer

import (
	"context"
	"encoding/json"

	"go-pto/internal/directory"
	"go-pto/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePtoLifecycle turns request lifecycle events into notifications.
// Delivery is a structured log line carrying the recipient; an SMTP or chat
// integration would hang off the same loop.
func ConsumePtoLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	dir directory.Directory,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.pto_lifecycle")
	log.Info("pto lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("pto lifecycle consumer stopped")
				return
			}
			log.Error("fetch pto lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.PtoRequestLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode pto lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		recipient := event.UserID
		if emp, err := dir.FindByIDAndCompany(ctx, event.CompanyID, event.UserID); err == nil {
			recipient = emp.Email
		} else {
			log.Warn("resolve notification recipient failed",
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
		}

		log.Info("pto notification dispatched",
			zap.String("event_type", event.EventType),
			zap.String("request_number", event.RequestNumber),
			zap.String("recipient", recipient),
			zap.String("status", event.Status),
			zap.String("total_days", event.TotalDays),
		)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit pto lifecycle message failed", zap.Error(err))
		}
	}
}
