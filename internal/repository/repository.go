package repository

import (
	"context"

	"github.com/Dan9191/grocery-store/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UserRepository persists storefront accounts
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// CatalogRepository stores schema-less catalog documents
type CatalogRepository interface {
	Insert(ctx context.Context, coll models.Collection, doc models.Document) (*models.InsertResult, error)
	Find(ctx context.Context, coll models.Collection, filter Filter) ([]models.Document, error)
	FindByID(ctx context.Context, coll models.Collection, id bson.ObjectID) (models.Document, error)
}

// Pinger reports store reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is the full set of operations a backing store provides
type Store interface {
	UserRepository
	CatalogRepository
	Pinger
	Close(ctx context.Context) error
}

// Filter narrows and orders a catalog listing.
// Zero value lists everything in store order.
type Filter struct {
	// Category matches the category field exactly, ignoring case.
	Category string
	// ByRatingsDesc orders by the ratings field, highest first.
	ByRatingsDesc bool
}
