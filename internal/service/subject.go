package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

var ErrSubjectNameRequired = errors.New("subject name is required")

// SubjectService manages the subject catalog.
type SubjectService struct {
	subjects *store.Collection[model.Subject, *model.Subject]
	activity *ActivityLogService
}

func NewSubjectService(adapter *store.Adapter, activity *ActivityLogService) *SubjectService {
	return &SubjectService{
		subjects: store.NewCollection[model.Subject](adapter, "subjects"),
		activity: activity,
	}
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *SubjectService) Add(ctx context.Context, name string) (model.Subject, error) {
	if strings.TrimSpace(name) == "" {
		return model.Subject{}, ErrSubjectNameRequired
	}

	subject := model.Subject{Name: name}
	id, err := s.subjects.Push(ctx, subject)
	if err != nil {
		return model.Subject{}, fmt.Errorf("failed to create subject: %w", err)
	}
	subject.ID = id

	s.activity.Record(ctx, "Subject Created", fmt.Sprintf("Admin added \"%s\"", name))
	return subject, nil
}

// Delete removes a subject. Deleting an unknown id succeeds and is still logged.
func (s *SubjectService) Delete(ctx context.Context, id string) error {
	err := s.subjects.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	s.activity.Record(ctx, "Subject Deleted", "Admin removed subject")
	return nil
}
