// Package notify delivers booking emails. The broker notifier hands a mail request to the
// mailer service over AMQP; the mailer resolves recipients from the reference ids.
package notify

import (
	"context"
	"fmt"
	"time"

	"feline-finder/internal/data/entity"
	"feline-finder/internal/lifecycle"

	"go.uber.org/zap"
)

// RoutingKeyPrefix prefixes every published message; the message type completes the key.
const RoutingKeyPrefix = "booking.notify."

// Publisher is satisfied by *mq.Publisher.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// MailRequest is the message body the mailer consumes.
type MailRequest struct {
	Type        lifecycle.MessageType `json:"type"`
	BookingID   string                `json:"booking_id"`
	OrgID       string                `json:"org_id"`
	Adopter     entity.Ref            `json:"adopter"`
	Cat         entity.Ref            `json:"cat"`
	Volunteer   entity.Ref            `json:"volunteer"`
	StartTime   time.Time             `json:"start_time"`
	StartTZ     string                `json:"start_tz"`
	EndTime     time.Time             `json:"end_time"`
	EndTZ       string                `json:"end_tz"`
	Summary     string                `json:"summary,omitempty"`
	Status      entity.BookingStatus  `json:"status"`
	RequestedAt time.Time             `json:"requested_at"`
}

type BrokerNotifier struct {
	pub Publisher
	log *zap.Logger
	now func() time.Time
}

func NewBrokerNotifier(pub Publisher, log *zap.Logger) *BrokerNotifier {
	return &BrokerNotifier{
		pub: pub,
		log: log.With(zap.String("adapter", "broker_notifier")),
		now: time.Now,
	}
}

func (n *BrokerNotifier) Send(ctx context.Context, b *entity.Booking, msg lifecycle.MessageType) error {
	if msg == lifecycle.MessageNone {
		return nil
	}
	if !msg.Valid() {
		return fmt.Errorf("unknown message type %q", msg)
	}

	req := MailRequest{
		Type:        msg,
		BookingID:   b.ID.String(),
		OrgID:       b.OrgID.String(),
		Adopter:     b.Adopter,
		Cat:         b.Cat,
		Volunteer:   b.Volunteer,
		StartTime:   b.StartTime,
		StartTZ:     b.StartTZ,
		EndTime:     b.EndTime,
		EndTZ:       b.EndTZ,
		Summary:     b.Summary,
		Status:      b.Status,
		RequestedAt: n.now().UTC(),
	}
	key := RoutingKeyPrefix + string(msg)
	if err := n.pub.PublishJSON(ctx, key, req); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}

	n.log.Debug("Mail request published", zap.String("booking_id", req.BookingID), zap.String("routing_key", key))
	return nil
}
