package models

import (
	"errors"
	"strings"
	"time"
)

// StaffMember represents a directory entry. Directory entries carry contact
// data only; they are not authentication principals.
type StaffMember struct {
	ID          int       `json:"id" db:"id"`
	FullName    string    `json:"full_name" db:"full_name"`
	Email       string    `json:"email" db:"email"`
	Title       string    `json:"title,omitempty" db:"title"`
	Department  string    `json:"department,omitempty" db:"department"`
	Phone       string    `json:"phone,omitempty" db:"phone"`
	Active      bool      `json:"active" db:"active"`
	DigestOptIn bool      `json:"digest_opt_in" db:"digest_opt_in"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// StaffRequest represents a staff create/update request
type StaffRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Title       string `json:"title,omitempty"`
	Department  string `json:"department,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DigestOptIn *bool  `json:"digest_opt_in,omitempty"`
}

// ValidateStaffRequest validates staff request data
func (s *StaffRequest) ValidateStaffRequest() error {
	if s.FullName == "" {
		return errors.New("full name is required")
	}

	if s.Email == "" || !strings.Contains(s.Email, "@") {
		return errors.New("a valid email is required")
	}

	return nil
}

// ToStaffMember converts StaffRequest to StaffMember
func (s *StaffRequest) ToStaffMember() *StaffMember {
	member := &StaffMember{
		FullName:    s.FullName,
		Email:       s.Email,
		Title:       s.Title,
		Department:  s.Department,
		Phone:       s.Phone,
		Active:      true,
		DigestOptIn: true,
	}

	if s.DigestOptIn != nil {
		member.DigestOptIn = *s.DigestOptIn
	}

	return member
}
