package model

type Subject struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (s *Subject) SetKey(key string) { s.ID = key }
