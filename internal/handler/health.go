package handler

import (
	"net/http"
	"time"
)

type LivenessResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store,omitempty"`
}

// Liveness reports that the process is serving requests
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	resp := LivenessResponse{
		Message:   "Server is running smoothly",
		Timestamp: time.Now().UTC(),
	}
	if h.health != nil {
		resp.Store = "up"
		if !h.health.Healthy() {
			resp.Store = "down"
		}
	}
	h.respondJSON(w, r, http.StatusOK, resp)
}
