package handler

import (
	"fmt"
	"net/http"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/service"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/validation"
)

type fileHandler struct {
	fileService *service.FileService
}

func NewFileHandler(fileService *service.FileService) *fileHandler {
	return &fileHandler{fileService: fileService}
}

type uploadRequest struct {
	Title        string         `json:"title" validate:"required,max=200"`
	Subject      string         `json:"subject" validate:"required,max=100"`
	Semester     string         `json:"semester" validate:"max=20"`
	FileType     model.FileType `json:"fileType" validate:"required"`
	FileSize     string         `json:"fileSize" validate:"max=32"`
	Description  string         `json:"description" validate:"max=2000"`
	FileBlobData string         `json:"fileBlobData"`
	FileChunks   []string       `json:"fileChunks" validate:"max=8"`
}

func (req uploadRequest) hasPayload() bool {
	if req.FileBlobData != "" {
		return true
	}
	for _, chunk := range req.FileChunks {
		if chunk != "" {
			return true
		}
	}
	return false
}

// List returns file summaries without payloads. Non-admins only see approved files.
func (h *fileHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	files, err := h.fileService.ListVisible(r.Context(), p.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries := make([]model.StudyFile, 0, len(files))
	for _, f := range files {
		summaries = append(summaries, f.Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *fileHandler) Get(w http.ResponseWriter, r *http.Request) {
	file, err := h.visibleFile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file.Summary())
}

func (h *fileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req uploadRequest
	err = decodeJSON(w, r, &req, maxUploadSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	err = validation.ValidateFileType(req.FileType)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if !req.hasPayload() {
		writeError(w, r, fmt.Errorf("%w: file payload is required", ErrBadRequest))
		return
	}

	file, err := h.fileService.Upload(r.Context(), model.StudyFile{
		Title:        req.Title,
		Subject:      req.Subject,
		Semester:     req.Semester,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		Description:  req.Description,
		FileBlobData: req.FileBlobData,
		FileChunks:   req.FileChunks,
	}, p.UserID, p.RollNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, file.Summary())
}

func (h *fileHandler) Approve(w http.ResponseWriter, r *http.Request) {
	file, err := h.fileService.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file.Summary())
}

func (h *fileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.fileService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Download counts the download and returns the file with its payload.
func (h *fileHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	_, err = h.visibleFile(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := h.fileService.Download(r.Context(), r.PathValue("id"), p.RollNumber)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, file)
}

// visibleFile loads the file named in the path, hiding unapproved files from non-admins.
func (h *fileHandler) visibleFile(r *http.Request) (model.StudyFile, error) {
	p, err := principal(r)
	if err != nil {
		return model.StudyFile{}, err
	}

	file, err := h.fileService.ByID(r.Context(), r.PathValue("id"))
	if err != nil {
		return model.StudyFile{}, err
	}
	if !p.IsAdmin() && !file.IsApproved() {
		return model.StudyFile{}, fmt.Errorf("file %s: %w", file.ID, store.ErrNotFound)
	}
	return file, nil
}
