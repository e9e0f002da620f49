package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/pkg/tracing"
	"github.com/segmentio/kafka-go"
)

type Writer struct {
	*kafka.Writer
}

func NewWriter(brokers []string) *Writer {
	return &Writer{
		Writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

func (w *Writer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	return w.Writer.WriteMessages(ctx, msgs...)
}

// Publisher writes OrderPlaced events to the shared topic. Messages are
// keyed by course id so adjustments for one course stay on one partition.
type Publisher struct {
	log    *slog.Logger
	writer *Writer
	topic  string
}

func NewPublisher(log *slog.Logger, writer *Writer, topic string) *Publisher {
	return &Publisher{log: log, writer: writer, topic: topic}
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, event domain.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	headers := []kafka.Header{{Key: "event_type", Value: []byte(domain.OrderPlacedType)}}
	headers = tracing.InjectKafkaHeaders(ctx, headers)

	msg := kafka.Message{
		Topic:   p.topic,
		Key:     []byte(strconv.FormatInt(event.CourseID, 10)),
		Value:   payload,
		Headers: headers,
	}
	return p.writer.WriteMessages(ctx, msg)
}
