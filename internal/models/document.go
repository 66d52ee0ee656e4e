package models

// Collection names a catalog collection in the store.
type Collection string

const (
	Users      Collection = "users"
	FlashSales Collection = "flashSales"
	Categories Collection = "categories"
	Products   Collection = "products"
)

// Catalog reports whether c accepts schema-less catalog documents.
func (c Collection) Catalog() bool {
	switch c {
	case FlashSales, Categories, Products:
		return true
	}
	return false
}

// Field names the catalog logic depends on. Everything else in a
// document is opaque payload.
const (
	FieldID       = "_id"
	FieldCategory = "category"
	FieldRatings  = "ratings"
)

// Document is a schema-less catalog record (product, category or flash sale).
type Document map[string]any

// InsertResult mirrors the store acknowledgement echoed back to clients.
type InsertResult struct {
	Acknowledged bool `json:"acknowledged"`
	InsertedID   any  `json:"insertedId"`
}
