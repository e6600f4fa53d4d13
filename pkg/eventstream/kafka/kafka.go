// Package kafka implements the eventstream.Publisher interface on a Kafka
// topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/smartydani12345/physical-ai-humanoid-robotics/pkg/eventstream"
)

// DefaultTopic is where turn-completed events land.
const DefaultTopic = "ragbot.turns"

// Kafka writes events as JSON messages keyed by conversation id, so one
// conversation's events stay ordered within a partition.
type Kafka struct {
	writer *kafkago.Writer
}

// Config carries broker settings. Brokers is a comma-separated list.
type Config struct {
	Brokers string
	Topic   string
}

// New creates a Kafka publisher. No connection is made until the first write.
func New(cfg Config) (*Kafka, error) {
	if cfg.Brokers == "" {
		return nil, fmt.Errorf("kafka: missing brokers")
	}
	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafkago.RequireOne,
	}

	return &Kafka{writer: writer}, nil
}

// PublishTurnCompleted writes one event.
func (k *Kafka) PublishTurnCompleted(ctx context.Context, event eventstream.TurnCompletedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: encoding event: %w", err)
	}

	msg := kafkago.Message{Value: payload}
	if event.ConversationID != "" {
		msg.Key = []byte(event.ConversationID)
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: writing event: %w", err)
	}
	return nil
}

// Close flushes pending messages.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
