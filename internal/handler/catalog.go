package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/gorilla/mux"
)

func (h *Handler) CreateFlashSale(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.FlashSales, "New Flash sale Added successfully!")
}

func (h *Handler) ListFlashSales(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.FlashSales, "Flash sale are retrieved successfully!")
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.Categories, "New Category Added successfully!")
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.Categories, "Category are retrieved successfully!")
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.Products, "New Product Added successfully!")
}

// ListProducts returns every product in store order
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.Products, "Products are retrieved successfully!")
}

// ListPopularProducts returns products ordered by ratings, highest first
func (h *Handler) ListPopularProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	docs, err := h.catalog.ListProductsByRatingDesc(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusOK, "Products are retrieved successfully!", docs)
}

// ListProductsByCategory filters products by the {category} path segment, ignoring case
func (h *Handler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	docs, err := h.catalog.ListByCategory(ctx, mux.Vars(r)["category"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusOK, "Products are retrieved successfully!", docs)
}

// GetProduct returns the product identified by the {id} path segment
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	doc, err := h.catalog.GetByID(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusOK, "Product is retrieved successfully!", doc)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request, coll models.Collection, message string) {
	var doc models.Document
	if err := decodeJSON(w, r, &doc); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, err)
		return
	}
	normalizeNumbers(doc)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.catalog.Create(ctx, coll, doc)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusCreated, message, res)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, coll models.Collection, message string) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	docs, err := h.catalog.ListAll(ctx, coll)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusOK, message, docs)
}

// normalizeNumbers replaces json.Number values so integers are stored as
// integers and everything else as doubles.
func normalizeNumbers(doc map[string]any) {
	for k, v := range doc {
		doc[k] = normalizeValue(v)
	}
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		normalizeNumbers(val)
		return val
	case []any:
		for i := range val {
			val[i] = normalizeValue(val[i])
		}
		return val
	}
	return v
}
