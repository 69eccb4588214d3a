package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated = "ProductCreated"
	EventTypeProductUpdated = "ProductUpdated"
	EventTypeProductRemoved = "ProductRemoved"
)

// ProductEventTypes lists every catalog change a subscriber can follow
var ProductEventTypes = []string{EventTypeProductCreated, EventTypeProductUpdated, EventTypeProductRemoved}

// ProductChangedEvent carries a snapshot of the product taken when the
// change was recorded. The event type tells which change it was.
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID       `json:"product_id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	StockStatus   StockStatus     `json:"stock_status"`
}

func productChanged(eventType string, p *Product) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           p.Price,
		StockQuantity:   p.StockQuantity,
		StockStatus:     p.StockStatus,
	}
}
