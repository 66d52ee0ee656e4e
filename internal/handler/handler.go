package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/middleware"
	"github.com/Dan9191/grocery-store/internal/models"
	"github.com/Dan9191/grocery-store/internal/service"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// HealthReporter reports whether the backing store answered its last ping
type HealthReporter interface {
	Healthy() bool
}

type Handler struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	health  HealthReporter
	log     *logrus.Logger
	timeout time.Duration
}

// NewHandler wires the HTTP layer. health may be nil; timeout bounds every store call.
func NewHandler(auth *service.AuthService, catalog *service.CatalogService, health HealthReporter, log *logrus.Logger, timeout time.Duration) *Handler {
	return &Handler{
		auth:    auth,
		catalog: catalog,
		health:  health,
		log:     log,
		timeout: timeout,
	}
}

// respondJSON encodes body before writing headers, so a value that cannot be
// encoded turns into a logged 500 instead of a truncated success.
func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		h.log.WithField("request_id", middleware.RequestID(r.Context())).
			Errorf("Failed to encode response for %s %s: %v", r.Method, r.URL.Path, err)
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(models.Response{Success: false, Message: "Internal server error"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		h.log.Warnf("Failed to write response for %s %s: %v", r.Method, r.URL.Path, err)
	}
}

func (h *Handler) respondOK(w http.ResponseWriter, r *http.Request, status int, message string, data any) {
	h.respondJSON(w, r, status, models.Response{Success: true, Message: message, Data: data})
}

func (h *Handler) respondFailure(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.respondJSON(w, r, status, models.Response{Success: false, Message: message})
}

// fail maps err to a status and a message that is safe to show clients
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status  int
		message string
	)
	switch {
	case errors.Is(err, common.ErrDuplicateAccount):
		status, message = http.StatusBadRequest, "User already exists"
	case errors.Is(err, common.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrMalformedID):
		status, message = http.StatusBadRequest, "Invalid id"
	case errors.Is(err, common.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid email or password"
	case errors.Is(err, common.ErrTokenExpired):
		status, message = http.StatusUnauthorized, "Token expired"
	case errors.Is(err, common.ErrTokenInvalid):
		status, message = http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrStoreUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		status, message = http.StatusInternalServerError, "Internal server error"
	}

	if status >= http.StatusInternalServerError {
		h.log.WithField("request_id", middleware.RequestID(r.Context())).
			Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	h.respondFailure(w, r, status, message)
}

// decodeJSON reads a single JSON value from the request body into dst.
// An empty body leaves dst untouched and reports io.EOF.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}
	if dec.More() {
		return fmt.Errorf("%w: invalid request body", common.ErrValidation)
	}
	return nil
}

// NotFound answers unknown routes with the standard envelope
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondFailure(w, r, http.StatusNotFound, "Route not found")
}

// MethodNotAllowed answers known routes requested with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondFailure(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
