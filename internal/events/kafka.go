package events

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaSender writes order events to a Kafka topic keyed by order id, so all
// events for one order land on the same partition.
type KafkaSender struct {
	writer *kafka.Writer
}

// NewKafkaSender creates a synchronous writer for topic.
func NewKafkaSender(brokers []string, topic string) *KafkaSender {
	return &KafkaSender{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			BatchTimeout: 10 * time.Millisecond,
		},
	}
}

// Send implements Sender.
func (s *KafkaSender) Send(ctx context.Context, key, value []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

// Close implements Sender.
func (s *KafkaSender) Close() error {
	return s.writer.Close()
}
