package model

import "time"

const (
	// TimestampLayout is the local date-time format used for every stored timestamp.
	TimestampLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
)

func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        string `json:"id,omitempty"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Downloads int    `json:"downloads"`
	Timestamp string `json:"timestamp"`
}

func (l *ActivityLog) SetKey(key string) { l.ID = key }
