package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/storage"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/validation"
)

// FileService runs the study file workflow: upload, review, download and purge.
type FileService struct {
	files    *store.Collection[model.StudyFile, *model.StudyFile]
	activity *ActivityLogService
	settings *SettingsService
	storage  storage.Storage
	now      func() time.Time
}

// NewFileService wires the workflow. payloads may be nil, in which case file
// bodies stay inline in the record.
func NewFileService(adapter *store.Adapter, activity *ActivityLogService, settings *SettingsService, payloads storage.Storage) *FileService {
	return &FileService{
		files:    store.NewCollection[model.StudyFile](adapter, "files"),
		activity: activity,
		settings: settings,
		storage:  payloads,
		now:      time.Now,
	}
}

// Upload stores a new file submitted by the given uploader. Uploader fields,
// date, counter and status are always set here; values sent by the client are ignored.
func (s *FileService) Upload(ctx context.Context, file model.StudyFile, uploaderID, uploaderRoll string) (model.StudyFile, error) {
	manualReview, err := s.settings.IsManualReviewEnabled(ctx)
	if err != nil {
		return model.StudyFile{}, err
	}

	file.ID = ""
	file.DownloadURL = ""
	file.Uploader = uploaderRoll
	file.UploaderID = uploaderID
	file.UploadDate = model.Date(s.now())
	file.DownloadCount = 0
	file.Status = model.StatusApproved
	if manualReview {
		file.Status = model.StatusPending
	}

	err = s.preparePayload(ctx, &file)
	if err != nil {
		return model.StudyFile{}, err
	}

	id, err := s.files.Push(ctx, file)
	if err != nil {
		s.discardObject(ctx, file.ObjectKey)
		return model.StudyFile{}, fmt.Errorf("failed to create file record: %w", err)
	}
	file.ID = id

	s.activity.Record(ctx, "Incoming Upload", fmt.Sprintf("%s submitted \"%s\"", uploaderRoll, file.Title), 0)
	return file, nil
}

// preparePayload validates the submitted body and decides where it lives:
// object storage when configured, otherwise inline or split into chunks.
func (s *FileService) preparePayload(ctx context.Context, file *model.StudyFile) error {
	file.ObjectKey = ""
	text := file.FileBlobData
	if text == "" && len(file.FileChunks) > 0 {
		text = strings.Join(file.FileChunks, "")
	}
	if text == "" {
		file.FileChunks = nil
		return nil
	}

	payload, err := validation.DecodePayload(text)
	if err != nil {
		return err
	}
	if file.FileSize == "" {
		file.FileSize = formatSize(len(payload.Data))
	}

	if s.storage != nil {
		key := "files/" + uuid.NewString()
		err = s.storage.Save(ctx, key, bytes.NewReader(payload.Data), payload.ContentType)
		if err != nil {
			return fmt.Errorf("failed to save file payload: %w", err)
		}
		file.ObjectKey = key
		file.FileBlobData = ""
		file.FileChunks = nil
		return nil
	}

	if len(text) > validation.ChunkSize {
		file.FileBlobData = ""
		file.FileChunks = validation.Chunk(text)
		return nil
	}
	file.FileBlobData = text
	file.FileChunks = nil
	return nil
}

func (s *FileService) discardObject(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	err := s.storage.Delete(context.WithoutCancel(ctx), key)
	if err != nil {
		slog.Error("failed to delete file payload from storage", "error", err, "key", key)
	}
}

func (s *FileService) ByID(ctx context.Context, id string) (model.StudyFile, error) {
	file, err := s.files.ByID(ctx, id)
	if err != nil {
		return model.StudyFile{}, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

// ListVisible returns every file to admins and only approved files to everyone else.
func (s *FileService) ListVisible(ctx context.Context, role model.Role) ([]model.StudyFile, error) {
	files, err := s.files.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	if role == model.RoleAdmin {
		return files, nil
	}

	approved := make([]model.StudyFile, 0, len(files))
	for _, f := range files {
		if f.IsApproved() {
			approved = append(approved, f)
		}
	}
	return approved, nil
}

// Approve moves a pending file to Approved. Approving an approved file is a
// no-op that neither writes nor logs.
func (s *FileService) Approve(ctx context.Context, id string) (model.StudyFile, error) {
	file, err := s.ByID(ctx, id)
	if err != nil {
		return model.StudyFile{}, err
	}
	if file.IsApproved() {
		return file, nil
	}
	err = model.FileReview.Check(file.Status, model.StatusApproved)
	if err != nil {
		return model.StudyFile{}, err
	}

	// Re-checked inside the transaction in case a concurrent review got there first.
	var changed bool
	file, err = s.files.Transact(ctx, id, func(f *model.StudyFile) error {
		changed = false
		if f.IsApproved() {
			return nil
		}
		err := model.FileReview.Check(f.Status, model.StatusApproved)
		if err != nil {
			return err
		}
		f.Status = model.StatusApproved
		changed = true
		return nil
	})
	if err != nil {
		return model.StudyFile{}, fmt.Errorf("failed to approve file: %w", err)
	}

	if changed {
		s.activity.Record(ctx, "Resource Approved", fmt.Sprintf("Admin verified \"%s\"", file.Title), file.DownloadCount)
	}
	return file, nil
}

// Delete removes a file and its stored payload.
func (s *FileService) Delete(ctx context.Context, id string) error {
	file, err := s.ByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.files.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	s.discardObject(ctx, file.ObjectKey)

	s.activity.Record(ctx, "Resource Purged", fmt.Sprintf("Asset \"%s\" removed permanently", file.Title), file.DownloadCount)
	return nil
}

// IncrementDownload atomically bumps the download counter and returns the updated file.
func (s *FileService) IncrementDownload(ctx context.Context, id, rollNumber string) (model.StudyFile, error) {
	file, err := s.files.Transact(ctx, id, func(f *model.StudyFile) error {
		f.DownloadCount++
		return nil
	})
	if err != nil {
		return model.StudyFile{}, fmt.Errorf("failed to increment download count: %w", err)
	}

	s.activity.Record(ctx, "Resource Accessed", fmt.Sprintf("User %s downloaded \"%s\"", rollNumber, file.Title), file.DownloadCount)
	return file, nil
}

// Download counts a download and returns the file with its payload resolved:
// chunks are joined back together and stored objects get a temporary URL.
func (s *FileService) Download(ctx context.Context, id, rollNumber string) (model.StudyFile, error) {
	file, err := s.IncrementDownload(ctx, id, rollNumber)
	if err != nil {
		return model.StudyFile{}, err
	}

	if len(file.FileChunks) > 0 {
		file.FileBlobData = strings.Join(file.FileChunks, "")
		file.FileChunks = nil
	}

	if file.ObjectKey != "" && s.storage != nil {
		url, err := s.storage.URL(ctx, file.ObjectKey)
		if err != nil {
			return model.StudyFile{}, fmt.Errorf("failed to resolve download URL: %w", err)
		}
		file.DownloadURL = url
	}
	return file, nil
}

func formatSize(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	if n < unit*unit {
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
}
