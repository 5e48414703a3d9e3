package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/web3-frozen/todo-board/internal/model"
)

type KafkaProducer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewKafkaProducer(brokers []string, topic string, logger *slog.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		Async:        true,
	}
	return &KafkaProducer{writer: w, logger: logger}
}

// PublishEvent never fails the caller; events are best-effort.
func (p *KafkaProducer) PublishEvent(ctx context.Context, eventType string, todoID int64, data any) {
	msg, err := newMessage(eventType, todoID, data, time.Now().UTC())
	if err != nil {
		p.logger.Error("failed to marshal event", "error", err)
		return
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Warn("failed to publish event", "error", err, "type", eventType)
	}
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// newMessage keys by todo id so one todo's events stay ordered on a partition.
func newMessage(eventType string, todoID int64, data any, at time.Time) (kafka.Message, error) {
	event := model.TodoEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		TodoID:    todoID,
		Timestamp: at,
		Data:      data,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatInt(todoID, 10)),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}, nil
}
