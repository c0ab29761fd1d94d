package kafka

import (
	"context"
	"encoding/json"
	"log"

	"order-admin-service/models"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the event-publishing surface the order service depends on.
type ProducerAPI interface {
	PublishStatusChanged(evt models.OrderStatusChangedEvent) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Printf("[OrderAdmin][KafkaProducer] initialized topic=%s brokers=%v", topic, brokers)
	return &Producer{writer: w, topic: topic}
}

// PublishStatusChanged publishes an order.status.changed event keyed by order ID.
func (p *Producer) PublishStatusChanged(evt models.OrderStatusChangedEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:   []byte(evt.OrderID),
		Value: data,
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("[OrderAdmin][KafkaProducer] failed to publish status-changed order=%s topic=%s err=%v", evt.OrderID, p.topic, err)
		return err
	}
	log.Printf("[OrderAdmin][KafkaProducer] status-changed published order=%s %s->%s topic=%s", evt.OrderID, evt.PreviousStatus, evt.NewStatus, p.topic)
	return nil
}

func (p *Producer) Close() error {
	log.Printf("[OrderAdmin][KafkaProducer] closing writer topic=%s", p.topic)
	return p.writer.Close()
}
