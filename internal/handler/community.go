package handler

import (
	"net/http"

	"github.com/studyboosters/backend/internal/service"
)

type communityHandler struct {
	doubtService  *service.DoubtService
	mentorService *service.MentorService
}

func NewCommunityHandler(doubtService *service.DoubtService, mentorService *service.MentorService) *communityHandler {
	return &communityHandler{
		doubtService:  doubtService,
		mentorService: mentorService,
	}
}

type doubtRequest struct {
	Subject  string `json:"subject" validate:"required,max=100"`
	Question string `json:"question" validate:"required,max=4000"`
}

type mentorRequest struct {
	Expertise string `json:"expertise" validate:"required,max=200"`
	Year      string `json:"year" validate:"max=20"`
}

func (h *communityHandler) ListDoubts(w http.ResponseWriter, r *http.Request) {
	doubts, err := h.doubtService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doubts)
}

func (h *communityHandler) AskDoubt(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req doubtRequest
	err = decodeJSON(w, r, &req, maxBodySize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	doubt, err := h.doubtService.Ask(r.Context(), p.RollNumber, req.Subject, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doubt)
}

func (h *communityHandler) AnswerDoubt(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !p.CanAnswerDoubts() {
		writeError(w, r, ErrForbidden)
		return
	}

	doubt, err := h.doubtService.Answer(r.Context(), r.PathValue("id"), p.RollNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doubt)
}

func (h *communityHandler) ListMentors(w http.ResponseWriter, r *http.Request) {
	requests, err := h.mentorService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *communityHandler) ApplyMentor(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req mentorRequest
	err = decodeJSON(w, r, &req, maxBodySize)
	if err != nil {
		writeError(w, r, err)
		return
	}

	request, err := h.mentorService.Apply(r.Context(), p.RollNumber, req.Expertise, req.Year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (h *communityHandler) ApproveMentor(w http.ResponseWriter, r *http.Request) {
	request, err := h.mentorService.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *communityHandler) RejectMentor(w http.ResponseWriter, r *http.Request) {
	request, err := h.mentorService.Reject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
