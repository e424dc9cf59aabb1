package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mwalton/price-tracker/internal/models"
	"github.com/segmentio/kafka-go"
)

// Producer publishes change events to the notification topic. Downstream
// consumers own the final delivery channel (email, chat, push).
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer creates a Kafka change-event producer
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// PublishChanges emits one event per new item and per price update
func (p *Producer) PublishChanges(ctx context.Context, result *models.CheckResult) error {
	if result == nil || result.Empty() {
		return nil
	}

	now := time.Now()
	messages := make([]kafka.Message, 0, len(result.NewItems)+len(result.Updates))

	for i := range result.NewItems {
		item := result.NewItems[i]
		event := models.ChangeEvent{
			EventType: models.EventTypeNewItem,
			NewItem:   &item,
			Timestamp: now,
		}
		msg, err := encodeEvent(item.Title, event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	for i := range result.Updates {
		update := result.Updates[i]
		event := models.ChangeEvent{
			EventType: models.EventTypePriceUpdate,
			Update:    &update,
			Timestamp: now,
		}
		msg, err := encodeEvent(update.Title, event)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to write messages to kafka: %w", err)
	}
	return nil
}

func encodeEvent(key string, event models.ChangeEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal change event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: data,
	}, nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
