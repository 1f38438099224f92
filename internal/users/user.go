// Package users manages job board accounts: employers who own postings and
// seekers who search and match against them.
package users

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleEmployer Role = "employer"
	RoleSeeker   Role = "seeker"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleEmployer, RoleSeeker:
		return r, nil
	default:
		return "", fmt.Errorf("unknown user type %q", s)
	}
}

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         Role       `json:"userType"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	Resume       *ResumeRef `json:"resume,omitempty"`
}

// Identity returns the authenticated identity of u.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Name: u.Name, Role: u.Role}
}

// ResumeRef points at the resume blob stored for a user.
type ResumeRef struct {
	Key              string    `json:"key"`
	OriginalFilename string    `json:"originalFilename"`
	ContentType      string    `json:"contentType"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Role   Role   `json:"userType"`
}

func (i Identity) IsEmployer() bool { return i.Role == RoleEmployer }
