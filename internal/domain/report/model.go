// Package report implements the dashboard and the read-only reporting
// screens of the membership admin.
package report

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DashboardStats is the aggregate card data on the admin landing screen.
type DashboardStats struct {
	MemberCount       int    `json:"member_count"`
	FamilyCount       int    `json:"family_count"`
	GroupCount        int    `json:"group_count"`
	ActivePledgeCount int    `json:"active_pledge_count"`
	TotalPledged      string `json:"total_pledged"`
	VisitorsThisMonth int    `json:"visitors_this_month"`
	BirthdaysThisWeek int    `json:"birthdays_this_week"`
}

// Report is one generated report. Rows are kept opaque; the gateway only
// lists, displays and exports them.
type Report struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Kind        string          `json:"kind"`
	PeriodStart string          `json:"period_start,omitempty"`
	PeriodEnd   string          `json:"period_end,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
	Rows        json.RawMessage `json:"rows,omitempty"`
}

// EntityID implements resource.Entity.
func (r Report) EntityID() string { return r.ID.String() }
