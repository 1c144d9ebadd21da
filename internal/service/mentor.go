package service

import (
	"context"
	"fmt"
	"time"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

// MentorService reviews applications to become a mentor. Approval records the
// decision only; it does not change the applicant's role.
type MentorService struct {
	requests *store.Collection[model.MentorRequest, *model.MentorRequest]
	activity *ActivityLogService
	now      func() time.Time
}

func NewMentorService(adapter *store.Adapter, activity *ActivityLogService) *MentorService {
	return &MentorService{
		requests: store.NewCollection[model.MentorRequest](adapter, "mentor_requests"),
		activity: activity,
		now:      time.Now,
	}
}

func (s *MentorService) List(ctx context.Context) ([]model.MentorRequest, error) {
	requests, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentor requests: %w", err)
	}
	return requests, nil
}

func (s *MentorService) Apply(ctx context.Context, rollNumber, expertise, year string) (model.MentorRequest, error) {
	request := model.MentorRequest{
		RollNumber: rollNumber,
		Expertise:  expertise,
		Year:       year,
		Status:     model.StatusPending,
		Timestamp:  model.Timestamp(s.now()),
	}

	id, err := s.requests.Push(ctx, request)
	if err != nil {
		return model.MentorRequest{}, fmt.Errorf("failed to create mentor request: %w", err)
	}
	request.ID = id

	s.activity.Record(ctx, "Mentor Application", "User "+rollNumber+" applied for "+expertise)
	return request, nil
}

func (s *MentorService) Approve(ctx context.Context, id string) (model.MentorRequest, error) {
	request, err := s.review(ctx, id, model.StatusApproved)
	if err != nil {
		return model.MentorRequest{}, err
	}

	s.activity.Record(ctx, "Mentor Approved", "User "+request.RollNumber+" is now an Official Mentor")
	return request, nil
}

func (s *MentorService) Reject(ctx context.Context, id string) (model.MentorRequest, error) {
	request, err := s.review(ctx, id, model.StatusRejected)
	if err != nil {
		return model.MentorRequest{}, err
	}

	s.activity.Record(ctx, "Mentor Rejected", "User "+request.RollNumber+" application declined")
	return request, nil
}

func (s *MentorService) review(ctx context.Context, id string, next model.Status) (model.MentorRequest, error) {
	request, err := s.requests.Transact(ctx, id, func(r *model.MentorRequest) error {
		err := model.MentorReview.Check(r.Status, next)
		if err != nil {
			return err
		}
		r.Status = next
		return nil
	})
	if err != nil {
		return model.MentorRequest{}, fmt.Errorf("failed to review mentor request: %w", err)
	}
	return request, nil
}
