package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
	"github.com/studyboosters/backend/internal/validation"
)

var ErrInvalidRollNumber = errors.New("invalid roll number")

// AuthService logs users in by roll number, creating accounts on first sight.
type AuthService struct {
	users    *store.Collection[model.User, *model.User]
	activity *ActivityLogService
	tokens   *TokenService
	now      func() time.Time
}

func NewAuthService(adapter *store.Adapter, activity *ActivityLogService, tokens *TokenService) *AuthService {
	return &AuthService{
		users:    store.NewCollection[model.User](adapter, "users"),
		activity: activity,
		tokens:   tokens,
		now:      time.Now,
	}
}

type LoginResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login finds the user with exactly this roll number or creates one, stamps
// the login time and issues a session token.
func (s *AuthService) Login(ctx context.Context, rollNumber string) (*LoginResult, error) {
	err := validation.ValidateRollNumber(rollNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRollNumber, err)
	}

	user, found, err := s.byRollNumber(ctx, rollNumber)
	if err != nil {
		return nil, err
	}

	now := model.Timestamp(s.now())
	if !found {
		user = model.User{
			RollNumber: rollNumber,
			Role:       model.RoleForRollNumber(rollNumber),
			CreatedAt:  now,
			LastLogin:  now,
		}
		id, err := s.users.Push(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		user.ID = id
		s.activity.Record(ctx, "System Access: "+rollNumber, "Role assigned: "+string(user.Role))
	} else {
		err = s.users.Update(ctx, user.ID, map[string]any{"lastLogin": now})
		if err != nil {
			return nil, fmt.Errorf("failed to update last login: %w", err)
		}
		user.LastLogin = now
		s.activity.Record(ctx, "System Access: "+rollNumber, "User logged in")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// byRollNumber scans all users for an exact, case-sensitive match.
func (s *AuthService) byRollNumber(ctx context.Context, rollNumber string) (model.User, bool, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		if u.RollNumber == rollNumber {
			return u, true, nil
		}
	}
	return model.User{}, false, nil
}

func (s *AuthService) ByID(ctx context.Context, userID string) (model.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// PromoteToAdmin grants the Admin role to an existing user.
func (s *AuthService) PromoteToAdmin(ctx context.Context, userID string) (model.User, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	err = s.users.Update(ctx, userID, map[string]any{"role": model.RoleAdmin})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to promote user: %w", err)
	}
	user.Role = model.RoleAdmin

	s.activity.Record(ctx, "Privilege Escalation", "User "+user.RollNumber+" granted Admin control")
	return user, nil
}
