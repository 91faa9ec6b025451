package models

import (
	"strings"
	"time"
)

// User lifecycle states reported by the directory service.
const (
	UserStatusActive        = "ACTIVE"
	UserStatusStaged        = "STAGED"
	UserStatusProvisioned   = "PROVISIONED"
	UserStatusSuspended     = "SUSPENDED"
	UserStatusDeprovisioned = "DEPROVISIONED"
)

// User is a directory user as returned by the users collection.
type User struct {
	ID          string     `json:"id"`
	Status      string     `json:"status,omitempty"`
	Created     *time.Time `json:"created,omitempty"`
	Activated   *time.Time `json:"activated,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
	Profile     Profile    `json:"profile"`
}

// Profile holds the user attributes understood by the directory service.
// Every field is optional so a Profile can also describe a partial update.
type Profile struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email,omitempty"`
	Login      string `json:"login,omitempty"`
	Department string `json:"department,omitempty"`
}

func (u *User) GetLogin() string {
	if len(u.Profile.Login) > 0 {
		return u.Profile.Login
	}
	return u.Profile.Email
}

func (u *User) IsActive() bool {
	return strings.EqualFold(u.Status, UserStatusActive)
}

// UserUpdate is the body of an update call. Only the profile fields that
// are set are sent.
type UserUpdate struct {
	Profile Profile `json:"profile"`
}

// CreateUserRequest describes a user to be created.
type CreateUserRequest struct {
	FirstName  string
	LastName   string
	Email      string
	Department string

	// Activate defaults to true when nil.
	Activate  *bool
	SendEmail bool
}

// ShouldActivate resolves the Activate default.
func (r *CreateUserRequest) ShouldActivate() bool {
	if r.Activate == nil {
		return true
	}
	return *r.Activate
}

// UserCreate is the body of a create call. Unlike UserUpdate every profile
// attribute is always sent.
type UserCreate struct {
	Profile NewProfile `json:"profile"`
}

type NewProfile struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Login      string `json:"login"`
	Department string `json:"department"`
}

// Body builds the create payload. The login always mirrors the email.
func (r *CreateUserRequest) Body() UserCreate {
	return UserCreate{
		Profile: NewProfile{
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			Email:      r.Email,
			Login:      r.Email,
			Department: r.Department,
		},
	}
}
