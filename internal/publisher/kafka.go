// Package publisher writes exercise change events to Kafka.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of kafka.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Noop discards events. It is used when Kafka is not configured.
type Noop struct{}

// Publish does nothing.
func (Noop) Publish(context.Context, string, string, any) error { return nil }

// Close implements io.Closer.
func (Noop) Close() error { return nil }

// Kafka publishes JSON-encoded events to a single topic, keyed by exercise id.
type Kafka struct {
	topic  string
	source string

	mu     sync.Mutex
	writer messageWriter
	newFn  func() messageWriter
}

// NewKafka constructs a publisher; the underlying writer is created on first use.
func NewKafka(brokers []string, topic, source string) *Kafka {
	return &Kafka{
		topic:  topic,
		source: source,
		newFn: func() messageWriter {
			return &kafka.Writer{
				Addr:                   kafka.TCP(brokers...),
				Topic:                  topic,
				Balancer:               &kafka.Hash{},
				RequiredAcks:           kafka.RequireAll,
				Compression:            kafka.Snappy,
				BatchTimeout:           10 * time.Millisecond,
				AllowAutoTopicCreation: true,
			}
		},
	}
}

// Publish encodes payload as JSON and writes it with event_type and source headers.
func (p *Kafka) Publish(ctx context.Context, eventType, key string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "source", Value: []byte(p.source)},
		},
	}
	if err := p.writerOnce().WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", eventType, p.topic, err)
	}
	return nil
}

func (p *Kafka) writerOnce() messageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = p.newFn()
	}
	return p.writer
}

// Close releases the writer if one was created.
func (p *Kafka) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
