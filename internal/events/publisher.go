// Package events publishes order lifecycle events to RabbitMQ so downstream
// consumers (fulfillment, analytics) can react to checkouts.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/storefront-backend/internal/order"
)

const OrderCreatedQueue = "order.created"

type OrderCreatedItem struct {
	ProductID               string `json:"productId"`
	Quantity                int    `json:"quantity"`
	EstimatedDeliveryTimeMs int64  `json:"estimatedDeliveryTimeMs"`
}

type OrderCreated struct {
	EventType      string             `json:"eventType"`
	OrderID        string             `json:"orderId"`
	OrderTimeMs    int64              `json:"orderTimeMs"`
	TotalCostCents int                `json:"totalCostCents"`
	Items          []OrderCreatedItem `json:"items"`
	Timestamp      time.Time          `json:"timestamp"`
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declare the queue so publish never fails due to missing infra
	_, err = ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("declare %s: %w", OrderCreatedQueue, err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o *order.Order) error {
	ev := OrderCreated{
		EventType:      "OrderCreated",
		OrderID:        o.ID,
		OrderTimeMs:    o.OrderTimeMs,
		TotalCostCents: o.TotalCostCents,
		Timestamp:      time.Now().UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderCreatedItem{
			ProductID:               it.ProductID,
			Quantity:                it.Quantity,
			EstimatedDeliveryTimeMs: it.EstimatedDeliveryTimeMs,
		})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		"",                // default exchange
		OrderCreatedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
