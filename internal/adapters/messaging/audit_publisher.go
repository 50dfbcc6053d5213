package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/school-portal/portal-service/internal/core/ports"
)

var _ ports.AuditEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishAuditEvent(ctx context.Context, evt ports.AuditEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    evt.ID,
				Timestamp:    evt.Timestamp,
				Type:         "audit.user_updated",
				Body:         body,
			},
		)
		return nil, err
	})
	return err
}
