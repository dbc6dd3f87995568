package kafka

import (
	"encoding/json"
	"log"
	"os"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"github.com/penzolll/umi-kelontong-digital-siap/model"
)

type Producer struct {
	producer sarama.SyncProducer
}

// NewProducer returns nil when no broker is reachable; a nil Producer
// publishes nothing so the API keeps working without Kafka.
func NewProducer() *Producer {
	broker := os.Getenv("KAFKA_BROKER")
	if broker == "" {
		broker = "localhost:9092"
	}

	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer([]string{broker}, config)
	if err != nil {
		log.Printf("Kafka unavailable, domain events disabled: %v", err)
		return nil
	}

	log.Println("Kafka producer initialized")
	return &Producer{producer: producer}
}

func (p *Producer) publish(topic string, data map[string]interface{}) {
	if p == nil {
		return
	}

	event := map[string]interface{}{
		"event_id":   uuid.NewString(),
		"event_type": topic,
		"data":       data,
	}

	raw, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", topic, err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(raw),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		log.Printf("failed to send %s event: %v", topic, err)
		return
	}

	log.Printf("published %s event: %s", topic, string(raw))
}

func (p *Producer) PublishOrderCreated(order *model.Order) {
	p.publish("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
		"item_count":   len(order.Items),
		"created_at":   order.CreatedAt,
	})
}

func (p *Producer) PublishOrderCancelled(order *model.Order) {
	p.publish("order.cancelled", map[string]interface{}{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"total_amount": order.TotalAmount,
	})
}

func (p *Producer) PublishInventoryAdjusted(productID uint, newStock int, transactionType string) {
	p.publish("inventory.adjusted", map[string]interface{}{
		"product_id":       productID,
		"stock":            newStock,
		"transaction_type": transactionType,
	})
}
