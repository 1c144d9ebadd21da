package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/studyboosters/backend/internal/store"
)

type healthHandler struct {
	adapter *store.Adapter
}

func NewHealthHandler(adapter *store.Adapter) *healthHandler {
	return &healthHandler{adapter: adapter}
}

// Health reports whether the store answers a read within a few seconds.
func (h *healthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	_, err := h.adapter.Raw(ctx, "settings")
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
