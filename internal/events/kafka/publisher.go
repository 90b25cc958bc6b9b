package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/banking-session-client/internal/interfaces"
)

// Publisher writes account events to Kafka. The topic is chosen per message,
// so one writer serves every event type.
type Publisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewPublisher(brokers []string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
			ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
				logger.Sugar().Errorf(msg, args...)
			}),
		},
		logger: logger,
	}
}

// Publish marshals event to JSON and writes it to topic. Events carrying an
// account number are keyed by it so they stay ordered per account.
func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(messageKey(data)),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	p.logger.Debug("event published", zap.String("topic", topic), zap.Int("bytes", len(data)))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// messageKey picks the account number, falling back to the event id.
func messageKey(data []byte) string {
	var keyed struct {
		AccountNumber string `json:"account_number"`
		EventID       string `json:"event_id"`
	}
	if err := json.Unmarshal(data, &keyed); err != nil {
		return ""
	}
	if keyed.AccountNumber != "" {
		return keyed.AccountNumber
	}
	return keyed.EventID
}

var _ interfaces.EventPublisher = (*Publisher)(nil)
