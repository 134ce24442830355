package functions

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"food-delivery-admin/logger"
	"food-delivery-admin/models"
)

const Exchange = "notifications"

// Message is one push delivered to one recipient.
type Message struct {
	RecipientID string                  `json:"recipientId"`
	Type        models.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body"`
	OfferID     string                  `json:"offerId,omitempty"`
	ImageURL    string                  `json:"imageUrl,omitempty"`
}

func (m Message) RoutingKey() string {
	return "notification." + string(m.Type)
}

type Pusher interface {
	Push(ctx context.Context, msg Message) error
}

// AMQPPusher publishes pushes on a topic exchange for the delivery workers.
type AMQPPusher struct {
	conn     *amqp.Connection
	exchange string
}

func NewAMQPPusher(conn *amqp.Connection) *AMQPPusher {
	return &AMQPPusher{conn: conn, exchange: Exchange}
}

func DialAMQP(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return conn, nil
}

func (p *AMQPPusher) Push(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode push: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open a channel: %w", err)
	}
	defer ch.Close()

	err = ch.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	err = ch.PublishWithContext(
		ctx,
		p.exchange,
		msg.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}

// LogPusher only logs. Used when no broker is configured.
type LogPusher struct {
	log logger.ILogger
}

func NewLogPusher(log logger.ILogger) *LogPusher {
	return &LogPusher{log: log}
}

func (p *LogPusher) Push(_ context.Context, msg Message) error {
	p.log.Info("push",
		logger.String("recipient", msg.RecipientID),
		logger.String("type", string(msg.Type)),
		logger.String("title", msg.Title))
	return nil
}
