// Package member implements the individual-member screens of the
// membership admin.
package member

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is a member's standing with the congregation.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusVisitor  Status = "visitor"
)

// Valid reports whether s is one of the allowed statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusVisitor:
		return true
	}
	return false
}

// Member is one person record. Date fields are the backend's plain
// YYYY-MM-DD strings.
type Member struct {
	ID         uuid.UUID `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Gender     string    `json:"gender,omitempty"`
	BirthDate  string    `json:"birth_date,omitempty"`
	JoinDate   string    `json:"join_date,omitempty"`
	Status     Status    `json:"status"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	PhotoURL   string    `json:"photo_url,omitempty"`
	FamilyID   *uuid.UUID `json:"family_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntityID implements resource.Entity.
func (m Member) EntityID() string { return m.ID.String() }

// FullName renders the display name used in rosters and reports.
func (m Member) FullName() string {
	return fmt.Sprintf("%s %s", m.FirstName, m.LastName)
}

// Input is the form payload for creating or updating a member.
type Input struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Gender     string `json:"gender,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	JoinDate   string `json:"join_date,omitempty"`
	Status     Status `json:"status,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
}

// Validate returns field-level messages for form display, or nil when the
// input is acceptable.
func (in Input) Validate() map[string]string {
	fields := make(map[string]string)
	if in.FirstName == "" {
		fields["first_name"] = "first name is required"
	}
	if in.LastName == "" {
		fields["last_name"] = "last name is required"
	}
	if in.Status != "" && !in.Status.Valid() {
		fields["status"] = fmt.Sprintf("%q is not a valid status", string(in.Status))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
