package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/middleware"
	"github.com/DivyaP1063/shophub/models"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrPoisonMessage marks a message that can never be processed.
var ErrPoisonMessage = errors.New("undecodable message")

// Notifier turns order events into buyer-facing notifications. Delivery is
// a structured log line per notification.
type Notifier struct {
	logger *zap.Logger
}

func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) Handle(ctx context.Context, m kafkago.Message) error {
	ctx = otel.GetTextMapPropagator().Extract(ctx, readerHeaderCarrier(m.Headers))
	ctx, span := otel.Tracer("notifications").Start(ctx, "ProcessNotification")
	defer span.End()

	var event models.OrderEvent
	if err := json.Unmarshal(m.Value, &event); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", ErrPoisonMessage, err)
	}
	if event.EventType == "" {
		return fmt.Errorf("%w: missing event_type", ErrPoisonMessage)
	}

	span.SetAttributes(
		attribute.String("event.type", event.EventType),
		attribute.String("order.id", event.OrderID),
	)

	message, ok := notificationText(event)
	if !ok {
		n.logger.Debug("Ignoring event", zap.String("event_type", event.EventType))
		return nil
	}

	middleware.RecordNotificationSent(event.EventType)
	n.logger.Info("Notification sent",
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.String("event_id", event.EventID),
		zap.String("event_type", event.EventType),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.String("message", message),
	)
	return nil
}

func notificationText(e models.OrderEvent) (string, bool) {
	switch e.EventType {
	case models.EventOrderCreated:
		return fmt.Sprintf("Your order %s for %s has been placed. Complete the payment to confirm it.", e.OrderID, e.TotalAmount.StringFixed(2)), true
	case models.EventOrderPaid:
		return fmt.Sprintf("Payment received for order %s. We'll let you know when it ships.", e.OrderID), true
	case models.EventOrderStatusUpdated:
		return fmt.Sprintf("Your order %s is now %s.", e.OrderID, e.Status), true
	}
	return "", false
}
