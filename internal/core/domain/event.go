package domain

import "time"

type CatalogEventType string

const (
	ProductCreated CatalogEventType = "created"
	ProductUpdated CatalogEventType = "updated"
	ProductDeleted CatalogEventType = "deleted"
	StockChanged   CatalogEventType = "stock"
)

// A CatalogEvent describes a change committed to the database of record.
//
// Product is set for created and updated events, VariantID and Stock for
// stock events.
type CatalogEvent struct {
	Type       CatalogEventType
	ProductID  string
	Product    *Product
	VariantID  string
	Stock      int
	OccurredAt time.Time
}
