// Package family implements the household screens of the membership admin:
// the family list, detail and form views, and the family-member
// relationship roster.
package family

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RelationshipType classifies a member's role within a family.
type RelationshipType string

const (
	RelationHead      RelationshipType = "head"
	RelationSpouse    RelationshipType = "spouse"
	RelationChild     RelationshipType = "child"
	RelationDependent RelationshipType = "dependent"
	RelationOther     RelationshipType = "other"
)

// Valid reports whether t is one of the allowed relationship types.
func (t RelationshipType) Valid() bool {
	switch t {
	case RelationHead, RelationSpouse, RelationChild, RelationDependent, RelationOther:
		return true
	}
	return false
}

// MemberRef is the summary of a member embedded in a relationship record.
type MemberRef struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// Relationship is one family-member join record.
type Relationship struct {
	ID     uuid.UUID        `json:"id,omitempty"`
	Member MemberRef        `json:"member"`
	Type   RelationshipType `json:"relationship_type"`
	Notes  string           `json:"notes,omitempty"`
}

// Family is one household record. Date fields are the backend's plain
// YYYY-MM-DD strings.
type Family struct {
	ID            uuid.UUID      `json:"id"`
	Name          string         `json:"name"`
	Address       string         `json:"address,omitempty"`
	City          string         `json:"city,omitempty"`
	State         string         `json:"state,omitempty"`
	PostalCode    string         `json:"postal_code,omitempty"`
	Phone         string         `json:"phone,omitempty"`
	Anniversary   string         `json:"anniversary,omitempty"`
	PhotoURL      string         `json:"photo_url,omitempty"`
	Status        string         `json:"status"`
	MemberCount   int            `json:"member_count"`
	Relationships []Relationship `json:"relationships,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// EntityID implements resource.Entity.
func (f Family) EntityID() string { return f.ID.String() }

// Input is the form payload for creating or updating a family. Validation
// here is field presence only; anything deeper belongs to the backend.
type Input struct {
	Name        string `json:"name"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Anniversary string `json:"anniversary,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Validate returns field-level messages for form display, or nil when the
// input is acceptable.
func (in Input) Validate() map[string]string {
	fields := make(map[string]string)
	if in.Name == "" {
		fields["name"] = "family name is required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// RelationshipInput is the form payload for attaching a member to a family.
type RelationshipInput struct {
	MemberID uuid.UUID        `json:"member_id"`
	Type     RelationshipType `json:"relationship_type"`
	Notes    string           `json:"notes,omitempty"`
}

// Validate returns field-level messages for the relationship form.
func (in RelationshipInput) Validate() map[string]string {
	fields := make(map[string]string)
	if in.MemberID == uuid.Nil {
		fields["member_id"] = "member is required"
	}
	if in.Type == "" {
		fields["relationship_type"] = "relationship type is required"
	} else if !in.Type.Valid() {
		fields["relationship_type"] = fmt.Sprintf("%q is not a valid relationship type", string(in.Type))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// CheckUniqueness enforces the roster rule applied before any request is
// issued: a family has at most one head and at most one spouse.
func CheckUniqueness(existing []Relationship, adding RelationshipType) error {
	if adding != RelationHead && adding != RelationSpouse {
		return nil
	}
	for _, rel := range existing {
		if rel.Type == adding {
			return fmt.Errorf("family already has a %s", string(adding))
		}
	}
	return nil
}
