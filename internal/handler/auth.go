package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Dan9191/grocery-store/internal/common"
	"github.com/Dan9191/grocery-store/internal/middleware"
	"github.com/Dan9191/grocery-store/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, emptyBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondOK(w, r, http.StatusCreated, "User registered successfully", nil)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, emptyBody(err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, models.Response{
		Success: true,
		Message: "Login successful",
		Token:   res.Token,
	})
}

// Me returns the identity carried by the bearer token
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		h.fail(w, r, common.ErrTokenInvalid)
		return
	}
	profile := ProfileResponse{Email: claims.Email}
	if claims.ExpiresAt != nil {
		profile.ExpiresAt = claims.ExpiresAt.Time
	}
	h.respondOK(w, r, http.StatusOK, "Token is valid", profile)
}

func emptyBody(err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body is required", common.ErrValidation)
	}
	return err
}
