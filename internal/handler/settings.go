package handler

import (
	"net/http"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/service"
)

type settingsHandler struct {
	settingsService *service.SettingsService
	activityService *service.ActivityLogService
}

func NewSettingsHandler(settingsService *service.SettingsService, activityService *service.ActivityLogService) *settingsHandler {
	return &settingsHandler{
		settingsService: settingsService,
		activityService: activityService,
	}
}

type settingsRequest struct {
	ManualReview *bool  `json:"manualReview"`
	LatestNews   string `json:"latestNews" validate:"max=2000"`
}

func (h *settingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *settingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	err := decodeJSON(w, r, &req, maxBodySize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), model.Settings{
		ManualReview: req.ManualReview,
		LatestNews:   req.LatestNews,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *settingsHandler) ToggleManualReview(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.ToggleManualReview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *settingsHandler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.activityService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
