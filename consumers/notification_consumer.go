package consumers

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"groupbuy-service/config"
	"groupbuy-service/models"
)

// StartNotificationConsumer drains the order event queue and dispatches
// confirmation notifications. It runs until the channel closes. The mail
// transport is a stand-in: messages are rendered and logged, matching the
// mocked SendGrid integration the deployment currently runs with.
func StartNotificationConsumer(ch *amqp.Channel, cfg *config.Config) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"groupbuy-notifier", // consumer tag
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register notification consumer: %v", err)
		return
	}

	go func() {
		for msg := range msgs {
			processOrderEvent(cfg, msg)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"groupbuy-notifier-dlq",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			log.Printf("Dead-lettered order event: %s", msg.Body)
			msg.Ack(false)
		}
	}()
}

func processOrderEvent(cfg *config.Config, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in notification processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid order event payload: %v", err)
		msg.Nack(false, false) // reject, route to DLQ
		return
	}

	switch event.Type {
	case "created":
		sendOrderConfirmation(cfg, event)
	case "status_updated":
		log.Printf("Order %d status changed to %s", event.OrderID, event.Status)
	default:
		log.Printf("Unknown order event type: %s", event.Type)
	}

	msg.Ack(false)
}

// sendOrderConfirmation renders the admin notification and, when the customer
// left an email, the customer confirmation. Delivery failures stay inside the
// consumer; order creation never waits on this.
func sendOrderConfirmation(cfg *config.Config, event models.OrderEvent) {
	var lines strings.Builder
	for _, item := range event.Items {
		fmt.Fprintf(&lines, "  - %s (ID: %d) x%d — TWD %d\n",
			item.SnapshotName, item.ProductID, item.Quantity, item.SubtotalTWD)
	}

	log.Printf("[notification] new order %d from member %s, total TWD %d\n%s",
		event.OrderID, event.MemberID, event.TotalAmountTWD, lines.String())

	if cfg.AdminEmail != "" {
		log.Printf("[notification] admin mail to %s from %s (%s): order %d awaiting processing",
			cfg.AdminEmail, cfg.SenderEmail, cfg.SiteName, event.OrderID)
	}
	if event.CustomerEmail != "" {
		log.Printf("[notification] customer mail to %s: order %d received, member %s, total TWD %d",
			event.CustomerEmail, event.OrderID, event.MemberID, event.TotalAmountTWD)
	}
}
