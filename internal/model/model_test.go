package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleForRollNumber(t *testing.T) {
	assert.Equal(t, RoleAdmin, RoleForRollNumber("admin"))
	assert.Equal(t, RoleAdmin, RoleForRollNumber("21ADMIN01"))
	assert.Equal(t, RoleStudent, RoleForRollNumber("21CS001"))
	assert.Equal(t, RoleStudent, RoleForRollNumber(""))
}

func TestFileReviewTransitions(t *testing.T) {
	assert.True(t, FileReview.Allows(StatusPending, StatusApproved))
	assert.True(t, FileReview.Allows(StatusPending, StatusRejected))
	assert.True(t, FileReview.Allows("", StatusApproved))
	assert.False(t, FileReview.Allows(StatusApproved, StatusPending))
	assert.False(t, FileReview.Allows(StatusRejected, StatusApproved))

	err := FileReview.Check(StatusRejected, StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Rejected to Approved")
	assert.NoError(t, FileReview.Check(StatusPending, StatusApproved))
}

func TestSettingsManualReview(t *testing.T) {
	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"latestNews":"hi"}`), &s))
	assert.True(t, s.ManualReviewEnabled())

	require.NoError(t, json.Unmarshal([]byte(`{"manualReview":false}`), &s))
	assert.False(t, s.ManualReviewEnabled())

	assert.True(t, DefaultSettings().ManualReviewEnabled())
}

func TestStudyFileSummary(t *testing.T) {
	f := StudyFile{ID: "f1", Title: "Notes1", FileBlobData: "data", FileChunks: []string{"a"}, DownloadURL: "u"}
	s := f.Summary()
	assert.Equal(t, "Notes1", s.Title)
	assert.Empty(t, s.FileBlobData)
	assert.Nil(t, s.FileChunks)
	assert.Equal(t, "data", f.FileBlobData)
}

func TestPrincipalPermissions(t *testing.T) {
	var nobody *Principal
	assert.False(t, nobody.IsAdmin())
	assert.True(t, (&Principal{Role: RoleAdmin}).CanAnswerDoubts())
	assert.True(t, (&Principal{Role: RoleMentor}).CanAnswerDoubts())
	assert.False(t, (&Principal{Role: RoleStudent}).CanAnswerDoubts())
}
