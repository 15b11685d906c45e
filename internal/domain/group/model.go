// Package group implements the ministry/small-group screens of the
// membership admin.
package group

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind is the organizational category of a group.
type Kind string

const (
	KindMinistry   Kind = "ministry"
	KindSmallGroup Kind = "small_group"
	KindCommittee  Kind = "committee"
)

// Valid reports whether k is one of the allowed kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindMinistry, KindSmallGroup, KindCommittee:
		return true
	}
	return false
}

// Roster entry: one member's participation in a group.
type RosterEntry struct {
	MemberID   uuid.UUID `json:"member_id"`
	MemberName string    `json:"member_name"`
	Role       string    `json:"role,omitempty"`
	JoinedAt   string    `json:"joined_at,omitempty"`
}

// Group is one ministry, small group or committee.
type Group struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Kind        Kind      `json:"kind"`
	Description string    `json:"description,omitempty"`
	LeaderID    *uuid.UUID `json:"leader_id,omitempty"`
	LeaderName  string    `json:"leader_name,omitempty"`
	MeetingDay  string    `json:"meeting_day,omitempty"`
	MeetingTime string    `json:"meeting_time,omitempty"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements resource.Entity.
func (g Group) EntityID() string { return g.ID.String() }

// Input is the form payload for creating or updating a group.
type Input struct {
	Name        string     `json:"name"`
	Kind        Kind       `json:"kind"`
	Description string     `json:"description,omitempty"`
	LeaderID    *uuid.UUID `json:"leader_id,omitempty"`
	MeetingDay  string     `json:"meeting_day,omitempty"`
	MeetingTime string     `json:"meeting_time,omitempty"`
}

// Validate returns field-level messages for form display, or nil when the
// input is acceptable.
func (in Input) Validate() map[string]string {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "group name is required"
	}
	if in.Kind == "" {
		fields["kind"] = "group kind is required"
	} else if !in.Kind.Valid() {
		fields["kind"] = fmt.Sprintf("%q is not a valid group kind", string(in.Kind))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
