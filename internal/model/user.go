package model

import "strings"

type Role string

const (
	RoleStudent Role = "Student"
	RoleAdmin   Role = "Admin"
	RoleMentor  Role = "Mentor"
)

type User struct {
	ID         string `json:"id,omitempty"`
	RollNumber string `json:"rollNumber"`
	Role       Role   `json:"role"`
	CreatedAt  string `json:"createdAt"`
	LastLogin  string `json:"lastLogin"`
}

func (u *User) SetKey(key string) { u.ID = key }

// RoleForRollNumber assigns Admin to roll numbers containing "ADMIN" in any case.
func RoleForRollNumber(rollNumber string) Role {
	if strings.Contains(strings.ToUpper(rollNumber), "ADMIN") {
		return RoleAdmin
	}
	return RoleStudent
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID     string `json:"userId"`
	RollNumber string `json:"rollNumber"`
	Role       Role   `json:"role"`
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// CanAnswerDoubts reports whether the caller may mark doubts answered.
func (p *Principal) CanAnswerDoubts() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleMentor)
}
