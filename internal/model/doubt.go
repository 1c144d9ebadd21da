package model

type Doubt struct {
	ID          string `json:"id,omitempty"`
	StudentName string `json:"studentName"`
	Subject     string `json:"subject"`
	Question    string `json:"question"`
	Status      Status `json:"status"`
	Timestamp   string `json:"timestamp"`
}

func (d *Doubt) SetKey(key string) { d.ID = key }
