package events

import (
	"context"
	"encoding/json"
	"time"

	"sealtrack/internal/config"

	"github.com/segmentio/kafka-go"
)

// Publisher writes tracking events to the worker topic.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(cfg *config.Config) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 100 * time.Millisecond,
	}
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.Platform),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
