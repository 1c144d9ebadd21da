package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

// ActivityLogService appends audit entries. Recording never fails the caller.
type ActivityLogService struct {
	logs *store.Collection[model.ActivityLog, *model.ActivityLog]
	now  func() time.Time
}

func NewActivityLogService(adapter *store.Adapter) *ActivityLogService {
	return &ActivityLogService{
		logs: store.NewCollection[model.ActivityLog](adapter, "logs"),
		now:  time.Now,
	}
}

// Record appends an entry. downloads is optional and defaults to 0.
// A failed write is logged and otherwise ignored.
func (s *ActivityLogService) Record(ctx context.Context, action, details string, downloads ...int) {
	entry := model.ActivityLog{
		Action:    action,
		Details:   details,
		Timestamp: model.Timestamp(s.now()),
	}
	if len(downloads) > 0 {
		entry.Downloads = downloads[0]
	}

	// The triggering operation already succeeded; a cancelled request must not drop its audit entry.
	_, err := s.logs.Push(context.WithoutCancel(ctx), entry)
	if err != nil {
		slog.Warn("failed to record activity", "action", action, "error", err)
	}
}

// List returns every entry in storage order, oldest first.
func (s *ActivityLogService) List(ctx context.Context) ([]model.ActivityLog, error) {
	logs, err := s.logs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	return logs, nil
}
