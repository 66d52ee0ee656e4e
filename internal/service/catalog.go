package service

import (
	"context"
	"fmt"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/Dan9191/grocery-store/internal/repository"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// CatalogService serves flash sales, categories and products
type CatalogService struct {
	repo repository.CatalogRepository
	log  *logrus.Logger
}

// NewCatalogService initializes a new catalog service
func NewCatalogService(repo repository.CatalogRepository, log *logrus.Logger) *CatalogService {
	return &CatalogService{repo: repo, log: log}
}

// Create stores doc in a catalog collection without validating its shape
func (s *CatalogService) Create(ctx context.Context, coll models.Collection, doc models.Document) (*models.InsertResult, error) {
	if !coll.Catalog() {
		return nil, fmt.Errorf("%w: unknown collection %q", common.ErrValidation, coll)
	}
	if doc == nil {
		doc = models.Document{}
	}

	res, err := s.repo.Insert(ctx, coll, doc)
	if err != nil {
		return nil, err
	}
	s.log.Debugf("Inserted %v into %s", res.InsertedID, coll)
	return res, nil
}

// ListAll returns every document of coll in store order
func (s *CatalogService) ListAll(ctx context.Context, coll models.Collection) ([]models.Document, error) {
	if !coll.Catalog() {
		return nil, fmt.Errorf("%w: unknown collection %q", common.ErrValidation, coll)
	}
	return s.repo.Find(ctx, coll, repository.Filter{})
}

// ListProductsByRatingDesc returns products, highest ratings first
func (s *CatalogService) ListProductsByRatingDesc(ctx context.Context) ([]models.Document, error) {
	return s.repo.Find(ctx, models.Products, repository.Filter{ByRatingsDesc: true})
}

// ListByCategory returns products whose category equals category, ignoring case.
// An empty category lists every product.
func (s *CatalogService) ListByCategory(ctx context.Context, category string) ([]models.Document, error) {
	return s.repo.Find(ctx, models.Products, repository.Filter{Category: category})
}

// GetByID returns the product with the given hex ObjectID
func (s *CatalogService) GetByID(ctx context.Context, id string) (models.Document, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrMalformedID, id)
	}
	return s.repo.FindByID(ctx, models.Products, oid)
}
