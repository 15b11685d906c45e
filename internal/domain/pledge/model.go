// Package pledge implements the giving-pledge screens of the membership
// admin.
package pledge

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Frequency is the pledge payment cadence.
type Frequency string

const (
	FrequencyOneTime   Frequency = "one_time"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyAnnually  Frequency = "annually"
)

// Valid reports whether f is one of the allowed frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOneTime, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyAnnually:
		return true
	}
	return false
}

// Pledge is one giving commitment. Amounts are decimal strings as the
// backend sends them; the gateway does not do money arithmetic.
type Pledge struct {
	ID         uuid.UUID `json:"id"`
	MemberID   uuid.UUID `json:"member_id"`
	MemberName string    `json:"member_name,omitempty"`
	Campaign   string    `json:"campaign"`
	Amount     string    `json:"amount"`
	Frequency  Frequency `json:"frequency"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	Status     string    `json:"status"`
	TotalGiven string    `json:"total_given,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntityID implements resource.Entity.
func (p Pledge) EntityID() string { return p.ID.String() }

// Input is the form payload for creating or updating a pledge.
type Input struct {
	MemberID  uuid.UUID `json:"member_id"`
	Campaign  string    `json:"campaign"`
	Amount    string    `json:"amount"`
	Frequency Frequency `json:"frequency"`
	StartDate string    `json:"start_date,omitempty"`
	EndDate   string    `json:"end_date,omitempty"`
}

// Validate returns field-level messages for form display, or nil when the
// input is acceptable.
func (in Input) Validate() map[string]string {
	fields := make(map[string]string)
	if in.MemberID == uuid.Nil {
		fields["member_id"] = "member is required"
	}
	if in.Campaign == "" {
		fields["campaign"] = "campaign is required"
	}
	if in.Amount == "" {
		fields["amount"] = "amount is required"
	}
	if in.Frequency == "" {
		fields["frequency"] = "frequency is required"
	} else if !in.Frequency.Valid() {
		fields["frequency"] = fmt.Sprintf("%q is not a valid frequency", string(in.Frequency))
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
