package handler

import (
	"net/http"

	"github.com/studyboosters/backend/internal/service"
)

type subjectHandler struct {
	subjectService *service.SubjectService
}

func NewSubjectHandler(subjectService *service.SubjectService) *subjectHandler {
	return &subjectHandler{subjectService: subjectService}
}

type subjectRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (h *subjectHandler) List(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.subjectService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}

func (h *subjectHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	err := decodeJSON(w, r, &req, maxBodySize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subject, err := h.subjectService.Add(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subject)
}

func (h *subjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.subjectService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
