package service

import (
	"context"
	"fmt"
	"time"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

// DoubtService holds questions students broadcast to mentors.
type DoubtService struct {
	doubts   *store.Collection[model.Doubt, *model.Doubt]
	activity *ActivityLogService
	now      func() time.Time
}

func NewDoubtService(adapter *store.Adapter, activity *ActivityLogService) *DoubtService {
	return &DoubtService{
		doubts:   store.NewCollection[model.Doubt](adapter, "doubts"),
		activity: activity,
		now:      time.Now,
	}
}

func (s *DoubtService) List(ctx context.Context) ([]model.Doubt, error) {
	doubts, err := s.doubts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doubts: %w", err)
	}
	return doubts, nil
}

func (s *DoubtService) Ask(ctx context.Context, rollNumber, subject, question string) (model.Doubt, error) {
	doubt := model.Doubt{
		StudentName: rollNumber,
		Subject:     subject,
		Question:    question,
		Status:      model.StatusPending,
		Timestamp:   model.Timestamp(s.now()),
	}

	id, err := s.doubts.Push(ctx, doubt)
	if err != nil {
		return model.Doubt{}, fmt.Errorf("failed to create doubt: %w", err)
	}
	doubt.ID = id

	s.activity.Record(ctx, "Doubt Created", rollNumber+" in "+subject)
	return doubt, nil
}

// Answer marks a pending doubt as answered.
func (s *DoubtService) Answer(ctx context.Context, id, answeredBy string) (model.Doubt, error) {
	doubt, err := s.doubts.Transact(ctx, id, func(d *model.Doubt) error {
		err := model.DoubtLifecycle.Check(d.Status, model.StatusAnswered)
		if err != nil {
			return err
		}
		d.Status = model.StatusAnswered
		return nil
	})
	if err != nil {
		return model.Doubt{}, fmt.Errorf("failed to answer doubt: %w", err)
	}

	s.activity.Record(ctx, "Doubt Answered", answeredBy+" answered "+doubt.StudentName+" in "+doubt.Subject)
	return doubt, nil
}
