package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyboosters/backend/internal/model"
	"github.com/studyboosters/backend/internal/store"
)

func TestSubjects(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	subjects, err := svc.subjects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)

	math, err := svc.subjects.Add(ctx, "Math")
	require.NoError(t, err)
	assert.NotEmpty(t, math.ID)
	assert.Equal(t, `Admin added "Math"`, svc.lastLog(t).Details)

	_, err = svc.subjects.Add(ctx, "Physics")
	require.NoError(t, err)

	_, err = svc.subjects.Add(ctx, " ")
	assert.ErrorIs(t, err, ErrSubjectNameRequired)

	subjects, err = svc.subjects.List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Math", subjects[0].Name)

	require.NoError(t, svc.subjects.Delete(ctx, math.ID))
	require.NoError(t, svc.subjects.Delete(ctx, "unknown"))
	assert.Equal(t, "Subject Deleted", svc.lastLog(t).Action)
	assert.Equal(t, "Admin removed subject", svc.lastLog(t).Details)

	subjects, err = svc.subjects.List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Physics", subjects[0].Name)
}

func TestDoubts(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	doubt, err := svc.doubts.Ask(ctx, "21CS001", "Math", "What is a monoid?")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, doubt.Status)
	assert.Equal(t, "21CS001", doubt.StudentName)
	assert.Equal(t, "Doubt Created", svc.lastLog(t).Action)
	assert.Equal(t, "21CS001 in Math", svc.lastLog(t).Details)

	answered, err := svc.doubts.Answer(ctx, doubt.ID, "MENTOR1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusAnswered, answered.Status)
	assert.Equal(t, "What is a monoid?", answered.Question)

	_, err = svc.doubts.Answer(ctx, doubt.ID, "MENTOR1")
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	_, err = svc.doubts.Answer(ctx, "missing", "MENTOR1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	doubts, err := svc.doubts.List(ctx)
	require.NoError(t, err)
	require.Len(t, doubts, 1)
	assert.Equal(t, model.StatusAnswered, doubts[0].Status)
}

func TestMentorReview(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	login, err := svc.auth.Login(ctx, "21CS001")
	require.NoError(t, err)

	request, err := svc.mentors.Apply(ctx, "21CS001", "Algorithms", "3")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, request.Status)
	assert.Equal(t, "User 21CS001 applied for Algorithms", svc.lastLog(t).Details)

	approved, err := svc.mentors.Approve(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)
	assert.Equal(t, "Mentor Approved", svc.lastLog(t).Action)
	assert.Equal(t, "User 21CS001 is now an Official Mentor", svc.lastLog(t).Details)

	user, err := svc.auth.ByID(ctx, login.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)

	_, err = svc.mentors.Reject(ctx, request.ID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	other, err := svc.mentors.Apply(ctx, "21CS002", "Databases", "2")
	require.NoError(t, err)
	rejected, err := svc.mentors.Reject(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, rejected.Status)
	assert.Equal(t, "User 21CS002 application declined", svc.lastLog(t).Details)

	requests, err := svc.mentors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, requests, 2)
}
