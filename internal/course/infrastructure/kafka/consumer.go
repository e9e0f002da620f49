package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/GeorgePetre11/CyberEdPlatform/internal/course/application"
	orderdom "github.com/GeorgePetre11/CyberEdPlatform/internal/order/domain"
	"github.com/GeorgePetre11/CyberEdPlatform/pkg/idempotency"
	"github.com/GeorgePetre11/CyberEdPlatform/pkg/tracing"
)

// Consumer applies OrderPlaced events to the inventory ledger. Every
// fetched message is committed whether or not processing succeeded: a
// failed adjustment is logged and dropped, never requeued. The idempotency
// store only skips broker redeliveries of an already-seen offset; a
// republished logical event is applied again.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("course-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if c.idem != nil {
			key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
			seen, err := c.idem.Seen(ctx, key)
			if err != nil {
				c.log.Error("idempotency check failed", "err", err)
				continue
			}
			if seen {
				c.log.Info("duplicate message skipped", "key", key)
				_ = c.reader.CommitMessages(ctx, msg)
				continue
			}
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderPlaced")

		var event orderdom.OrderPlacedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.Error("unmarshal failed", "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		if err := c.svc.HandleOrderPlaced(msgCtx, event); err != nil {
			c.log.Error("order placed event dropped",
				"order_id", event.OrderID, "course_id", event.CourseID, "err", err)
		} else {
			c.log.Info("order placed event applied",
				"order_id", event.OrderID, "course_id", event.CourseID, "delta", event.QuantityChange)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}
