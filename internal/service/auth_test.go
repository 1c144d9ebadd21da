package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

func TestLoginCreatesUser(t *testing.T) {
	svc := newTestServices(t)
	svc.auth.now = fixedClock("2024-03-01T09:30:00")
	ctx := context.Background()

	result, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)
	assert.NotEmpty(t, result.User.ID)
	assert.Equal(t, "21CS001", result.User.RollNumber)
	assert.Equal(t, model.RoleStudent, result.User.Role)
	assert.Equal(t, "2024-03-01T09:30:00", result.User.CreatedAt)
	assert.Equal(t, result.User.CreatedAt, result.User.LastLogin)

	principal, err := svc.tokens.Verify(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, principal.UserID)
	assert.Equal(t, "21CS001", principal.RollNumber)
	assert.Equal(t, model.RoleStudent, principal.Role)

	log := svc.lastLog(t)
	assert.Equal(t, "System Access: 21CS001", log.Action)
	assert.Equal(t, "Role assigned: Student", log.Details)

	stored, err := svc.auth.ByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, result.User, stored)
}

func TestLoginAssignsAdminByRollNumber(t *testing.T) {
	svc := newTestServices(t)

	for _, roll := range []string{"ADMIN", "xAdMiN-7", "superadmin"} {
		result, err := svc.auth.Login(context.Background(), roll)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, result.User.Role, roll)
	}

	result, err := svc.auth.Login(context.Background(), "ADM1N")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, result.User.Role)
}

func TestLoginExistingUserUpdatesLastLogin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	svc.auth.now = fixedClock("2024-03-01T09:30:00")
	first, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)

	svc.auth.now = fixedClock("2024-03-02T10:00:00")
	second, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "2024-03-01T09:30:00", second.User.CreatedAt)
	assert.Equal(t, "2024-03-02T10:00:00", second.User.LastLogin)

	stored, err := svc.auth.ByID(ctx, first.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02T10:00:00", stored.LastLogin)

	users, err := svc.auth.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.Equal(t, "User logged in", svc.lastLog(t).Details)
}

func TestLoginIsCaseSensitive(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	upper, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)
	lower, err := svc.auth.Login(ctx, "21cs001")
	require.NoError(t, err)

	assert.NotEqual(t, upper.User.ID, lower.User.ID)
}

func TestLoginRejectsBlankRollNumber(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.auth.Login(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrInvalidRollNumber)
	assert.Empty(t, svc.logs(t))
}

func TestPromoteToAdmin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	result, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)

	user, err := svc.auth.PromoteToAdmin(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)

	stored, err := svc.auth.ByID(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, stored.Role)
	assert.Equal(t, result.User.LastLogin, stored.LastLogin)

	log := svc.lastLog(t)
	assert.Equal(t, "Privilege Escalation", log.Action)
	assert.Equal(t, "User 21CS001 granted Admin control", log.Details)

	_, err = svc.auth.PromoteToAdmin(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTokenRejectsForeignSignature(t *testing.T) {
	svc := newTestServices(t)
	other := NewTokenService("other-secret", 0, false)

	token, err := other.Issue(model.User{ID: "u1", RollNumber: "21CS001", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.tokens.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
