// Package events publishes forecast output to Kafka so downstream consumers see each run.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
)

const (
	headerRunID     = "run-id"
	headerWeekStart = "week-start"

	writeTimeout = 10 * time.Second
	batchTimeout = 50 * time.Millisecond
	maxAttempts  = 3
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config wires a Publisher. Brokers and Topic are required.
type Config struct {
	Brokers []string
	Topic   string
	Logger  *slog.Logger
}

// Event is the message value: one projection plus the run that produced it.
type Event struct {
	RunID       string                 `json:"runId,omitempty"`
	WeekStart   string                 `json:"weekStart"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Projection  projections.Projection `json:"projection"`
}

// Publisher is a projection sink that writes one Kafka message per projection. Messages are
// keyed by game and player so a compacted topic keeps the latest projection for each pair.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher builds a publisher backed by a synchronous kafka.Writer.
func NewPublisher(cfg Config) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("events: brokers are required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("events: topic is required")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Gzip,
		MaxAttempts:  maxAttempts,
		WriteTimeout: writeTimeout,
		BatchTimeout: batchTimeout,
	}
	return newPublisher(writer, cfg.Topic, cfg.Logger), nil
}

func newPublisher(writer messageWriter, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{writer: writer, topic: topic, logger: logger}
}

// SaveProjections publishes every projection of the week in one batch.
func (p *Publisher) SaveProjections(ctx context.Context, week projections.WeekSnapshot) error {
	if len(week.Projections) == 0 {
		return nil
	}
	msgs, err := buildMessages(week)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish projections to %s: %w", p.topic, err)
	}
	logging.Debug(p.logger, "projections published",
		slog.String("topic", p.topic),
		slog.Int(logging.FieldCount, len(msgs)),
	)
	return nil
}

// Close flushes pending messages and releases broker connections.
func (p *Publisher) Close(context.Context) error {
	return p.writer.Close()
}

func buildMessages(week projections.WeekSnapshot) ([]kafka.Message, error) {
	headers := []kafka.Header{
		{Key: headerRunID, Value: []byte(week.RunID)},
		{Key: headerWeekStart, Value: []byte(week.WeekStart)},
	}
	msgs := make([]kafka.Message, 0, len(week.Projections))
	for _, proj := range week.Projections {
		value, err := json.Marshal(Event{
			RunID:       week.RunID,
			WeekStart:   week.WeekStart,
			GeneratedAt: week.GeneratedAt,
			Projection:  proj,
		})
		if err != nil {
			return nil, fmt.Errorf("encode projection %s/%s: %w", proj.GameID, proj.PlayerID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:     MessageKey(proj),
			Value:   value,
			Headers: headers,
			Time:    week.GeneratedAt,
		})
	}
	return msgs, nil
}

// MessageKey returns the partition key of a projection: "<gameId>:<playerId>".
func MessageKey(p projections.Projection) []byte {
	return []byte(p.GameID + ":" + p.PlayerID)
}
