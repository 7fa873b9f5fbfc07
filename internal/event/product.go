package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/msgheader"
)

const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// ProductTopics lists every topic a catalog change is published to.
var ProductTopics = []string{
	TopicProductCreated,
	TopicProductUpdated,
	TopicProductDeleted,
}

type ProductChangedEvent struct {
	Product    model.Product `json:"product"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Publisher announces catalog changes after they are persisted.
type Publisher interface {
	PublishProductChanged(ctx context.Context, topic string, product model.Product) error
}

type publisher struct {
	producer mq.Producer
	now      func() time.Time
}

func NewPublisher(producer mq.Producer) Publisher {
	return &publisher{
		producer: producer,
		now:      time.Now,
	}
}

func (p *publisher) PublishProductChanged(ctx context.Context, topic string, product model.Product) error {
	payload, err := json.Marshal(ProductChangedEvent{
		Product:    product,
		OccurredAt: p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal product changed event: %w", err)
	}

	if err := p.producer.Produce(ctx, mq.ProduceMsg{
		Topic:        topic,
		Headers:      msgheader.Build(ctx),
		Payload:      payload,
		PartitionKey: product.ID,
	}); err != nil {
		return fmt.Errorf("produce %s: %w", topic, err)
	}

	return nil
}

func (s *Service) handleProductChangedEvent(ctx context.Context, topic string, ev ProductChangedEvent) error {
	s.logger.InfoContext(ctx, "catalog product changed",
		slog.String("topic", topic),
		slog.String("product_id", ev.Product.ID),
		slog.String("product_name", ev.Product.Name),
		slog.Time("occurred_at", ev.OccurredAt),
	)
	return nil
}
