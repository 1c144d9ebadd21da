package model

type MentorRequest struct {
	ID         string `json:"id,omitempty"`
	RollNumber string `json:"rollNumber"`
	Expertise  string `json:"expertise"`
	Year       string `json:"year"`
	Status     Status `json:"status"`
	Timestamp  string `json:"timestamp"`
}

func (m *MentorRequest) SetKey(key string) { m.ID = key }
