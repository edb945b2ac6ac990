package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Egxr41k/volosmeister-backend/internal/domain"
	pkgkafka "github.com/Egxr41k/volosmeister-backend/pkg/kafka"
)

// Kafka topic constants for catalog domain events.
const (
	TopicCategoryCreated = "catalog.category.created"
	TopicCategoryDeleted = "catalog.category.deleted"
	TopicProductCreated  = "catalog.product.created"
	TopicProductDeleted  = "catalog.product.deleted"
	TopicImportCompleted = "catalog.import.completed"
	TopicExportCompleted = "catalog.export.completed"
)

// Aggregate type constants.
const (
	AggregateTypeCategory = "category"
	AggregateTypeProduct  = "product"
	AggregateTypeCatalog  = "catalog"
)

// Source identifier for events originating from this service.
const SourceCatalogService = "catalog-service"

// CategoryEventData is the payload for category lifecycle events.
type CategoryEventData struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// ProductEventData is the payload for product lifecycle events.
type ProductEventData struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	CategoryID *int64 `json:"category_id,omitempty"`
}

// ImportCompletedData is the payload for a catalog.import.completed event.
type ImportCompletedData struct {
	Mode          string `json:"mode"`
	Categories    int    `json:"categories"`
	Manufacturers int    `json:"manufacturers"`
	Users         int    `json:"users"`
	Products      int    `json:"products"`
	Assets        int    `json:"assets"`
}

// ExportCompletedData is the payload for a catalog.export.completed event.
type ExportCompletedData struct {
	Categories    int `json:"categories"`
	Manufacturers int `json:"manufacturers"`
	Users         int `json:"users"`
	Products      int `json:"products"`
	Assets        int `json:"assets"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCategoryCreated publishes a catalog.category.created event.
func (p *Producer) PublishCategoryCreated(ctx context.Context, category *domain.Category) error {
	data := CategoryEventData{
		ID:       category.ID,
		Name:     category.Name,
		Slug:     category.Slug,
		ParentID: category.ParentID,
	}
	return p.publish(ctx, TopicCategoryCreated, strconv.FormatInt(category.ID, 10), AggregateTypeCategory, data)
}

// PublishCategoryDeleted publishes a catalog.category.deleted event.
func (p *Producer) PublishCategoryDeleted(ctx context.Context, id int64) error {
	data := CategoryEventData{ID: id}
	return p.publish(ctx, TopicCategoryDeleted, strconv.FormatInt(id, 10), AggregateTypeCategory, data)
}

// PublishProductCreated publishes a catalog.product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	data := ProductEventData{
		ID:         product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		CategoryID: product.CategoryID,
	}
	return p.publish(ctx, TopicProductCreated, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, data)
}

// PublishProductDeleted publishes a catalog.product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64) error {
	data := ProductEventData{ID: id}
	return p.publish(ctx, TopicProductDeleted, strconv.FormatInt(id, 10), AggregateTypeProduct, data)
}

// PublishImportCompleted publishes a catalog.import.completed event.
func (p *Producer) PublishImportCompleted(ctx context.Context, data ImportCompletedData) error {
	return p.publish(ctx, TopicImportCompleted, SourceCatalogService, AggregateTypeCatalog, data)
}

// PublishExportCompleted publishes a catalog.export.completed event.
func (p *Producer) PublishExportCompleted(ctx context.Context, data ExportCompletedData) error {
	return p.publish(ctx, TopicExportCompleted, SourceCatalogService, AggregateTypeCatalog, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)

	return nil
}
