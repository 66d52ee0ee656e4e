package handler

import (
	"net/http"

	"github.com/Dan9191/grocery-store/internal/metrics"
	"github.com/Dan9191/grocery-store/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter registers every route and wraps the router in CORS handling
func NewRouter(h *Handler, m *metrics.Metrics, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	r.Use(middleware.Logging(h.log), middleware.Metrics(m))

	r.HandleFunc("/", h.Liveness).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// Auth routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.Handle("/me", middleware.Auth(h.auth)(http.HandlerFunc(h.Me))).Methods(http.MethodGet)

	// Catalog routes
	r.HandleFunc("/flash-sale", h.CreateFlashSale).Methods(http.MethodPost)
	r.HandleFunc("/flash-sale", h.ListFlashSales).Methods(http.MethodGet)
	r.HandleFunc("/category", h.CreateCategory).Methods(http.MethodPost)
	r.HandleFunc("/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/product", h.CreateProduct).Methods(http.MethodPost)
	r.HandleFunc("/products", h.ListPopularProducts).Methods(http.MethodGet)
	r.HandleFunc("/products/feed.xml", h.ProductFeed).Methods(http.MethodGet)
	r.HandleFunc("/fish", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/fish/{category}", h.ListProductsByCategory).Methods(http.MethodGet)
	r.HandleFunc("/single-fish/{id}", h.GetProduct).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	return c.Handler(r)
}
