package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sahmed73/Simulation-Automation/internal/core/domain"
	"github.com/sahmed73/Simulation-Automation/internal/core/port"
	"go.uber.org/zap"
)

const eventsExchange = "simulations.events"

type eventPublisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	log  *zap.Logger
}

// NewEventPublisher connects to RabbitMQ and declares the lifecycle-event
// exchange. Connection setup retries with incremental backoff; the broker is
// often still starting when the manager comes up.
func NewEventPublisher(url string, log *zap.Logger) (port.EventPublisher, error) {
	var conn *amqp.Connection
	var err error

	maxRetries := 5
	for i := 1; i <= maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			ch, chErr := conn.Channel()
			if chErr == nil {
				if declErr := ch.ExchangeDeclare(
					eventsExchange, // name
					"topic",        // kind
					true,           // durable
					false,          // auto-delete
					false,          // internal
					false,          // no-wait
					nil,            // arguments
				); declErr != nil {
					conn.Close()
					return nil, declErr
				}
				return &eventPublisher{conn: conn, ch: ch, log: log}, nil
			}
			conn.Close()
			err = chErr
		}

		log.Warn("Failed to connect to RabbitMQ, retrying...",
			zap.Int("attempt", i),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}

	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", maxRetries, err)
}

// Publish sends one lifecycle event, routed as simulation.<type>.
func (p *eventPublisher) Publish(ctx context.Context, event domain.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	routingKey := "simulation." + string(event.Type)
	err = p.ch.PublishWithContext(ctx,
		eventsExchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		p.log.Error("Failed to publish event", zap.Error(err))
		return err
	}

	p.log.Debug("Published lifecycle event",
		zap.String("directory", event.Directory),
		zap.String("key", routingKey))
	return nil
}

// Close tears the channel and connection down.
func (p *eventPublisher) Close() {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
