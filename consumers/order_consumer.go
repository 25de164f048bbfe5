package consumers

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"ecommerce-service/config"
	"ecommerce-service/models"
	"ecommerce-service/repository"
)

// StartOrderConsumer drains the order event queue and the dead letter queue.
// Handlers only ever touch committed state; a lost or duplicated event never
// affects order correctness.
func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config, orders *repository.OrderRepository) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"ecommerce-service", // consumer tag
		false,               // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumer: %v", err)
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg, orders)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"ecommerce-service-dlq", // consumer tag
		false,                   // auto-ack
		false,                   // exclusive
		false,                   // no-local
		false,                   // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery, orders *repository.OrderRepository) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	var ev models.OrderEvent
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		log.Printf("Invalid event payload: %s", msg.Body)
		_ = msg.Nack(false, false) // reject without requeue, goes to DLQ
		return
	}

	log.Printf("Processing order event: id=%d type=%s", ev.OrderID, ev.Type)

	switch ev.Type {
	case models.EventOrderCreated:
		handleOrderCreated(ev)
	case models.EventStatusUpdated:
		handleStatusUpdated(ev, orders)
	case models.EventPaymentCheck:
		handlePaymentCheck(ev, orders)
	default:
		log.Printf("Unknown event type: %s", ev.Type)
	}

	_ = msg.Ack(false)
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	_ = msg.Ack(false)
}

func handleOrderCreated(ev models.OrderEvent) {
	log.Printf("Handling order created: %d (total %.2f)", ev.OrderID, ev.Total)
}

func handleStatusUpdated(ev models.OrderEvent, orders *repository.OrderRepository) {
	order, err := orders.FindByID(context.Background(), ev.OrderID)
	if err != nil {
		log.Printf("Failed to get order %d: %v", ev.OrderID, err)
		return
	}

	switch order.Status {
	case models.StatusShipped:
		// shipping notification hook
	case models.StatusCancelled:
		// cancellation follow-up hook
	}
	log.Printf("Handling status update for order %d: %s", order.ID, order.Status)
}

// handlePaymentCheck cancels orders still pending when the delayed payment
// check fires.
func handlePaymentCheck(ev models.OrderEvent, orders *repository.OrderRepository) {
	order, err := orders.FindByID(context.Background(), ev.OrderID)
	if err != nil {
		log.Printf("Failed to get order %d: %v", ev.OrderID, err)
		return
	}

	if order.Status != models.StatusPending {
		return
	}
	if err := orders.UpdateStatus(context.Background(), order.ID, models.StatusCancelled); err != nil {
		log.Printf("Failed to auto-cancel order %d: %v", order.ID, err)
		return
	}
	log.Printf("Auto-cancelled order %d due to non-payment", order.ID)
}
