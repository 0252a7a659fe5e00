package lead

import (
	"errors"
	"time"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQuoted    Status = "quoted"
	StatusConverted Status = "converted"
	StatusLost      Status = "lost"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQuoted, StatusConverted, StatusLost:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Lead struct {
	ID           int64      `db:"id" json:"id"`
	CustomerID   *int64     `db:"customer_id" json:"customer_id"`
	ContactName  string     `db:"contact_name" json:"contact_name"`
	ContactEmail string     `db:"contact_email" json:"contact_email"`
	ContactPhone string     `db:"contact_phone" json:"contact_phone"`
	Source       string     `db:"source" json:"source"`
	Destination  string     `db:"destination" json:"destination"`
	TravelDate   *time.Time `db:"travel_date" json:"travel_date"`
	Travelers    int        `db:"travelers" json:"travelers"`
	Status       Status     `db:"status" json:"status"`
	Priority     Priority   `db:"priority" json:"priority"`
	Notes        string     `db:"notes" json:"notes"`
	CreatedBy    int64      `db:"created_by" json:"created_by"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// Display fields joined from customers and users.
	CustomerName  *string   `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail *string   `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone *string   `db:"customer_phone" json:"customer_phone,omitempty"`
	CreatorName   string    `db:"creator_name" json:"creator_name,omitempty"`
	CreatorRole   user.Role `db:"creator_role" json:"creator_role,omitempty"`
}

type CreateLeadRequest struct {
	CustomerID   *int64     `json:"customer_id"`
	ContactName  string     `json:"contact_name"`
	ContactEmail string     `json:"contact_email"`
	ContactPhone string     `json:"contact_phone"`
	Source       string     `json:"source"`
	Destination  string     `json:"destination"`
	TravelDate   *time.Time `json:"travel_date"`
	Travelers    int        `json:"travelers"`
	Priority     Priority   `json:"priority"`
	Notes        string     `json:"notes"`
}

type UpdateLeadRequest struct {
	CustomerID  *int64     `json:"customer_id"`
	Source      *string    `json:"source"`
	Destination *string    `json:"destination"`
	TravelDate  *time.Time `json:"travel_date"`
	Travelers   *int       `json:"travelers"`
	Status      *Status    `json:"status"`
	Priority    *Priority  `json:"priority"`
	Notes       *string    `json:"notes"`
}

type ListLeadsFilter struct {
	Status   *Status
	Priority *Priority
	Search   string
	Page     scope.PageRequest
}

type LeadList struct {
	Records    []*Lead          `json:"records"`
	Pagination scope.Pagination `json:"pagination"`
}

var ErrLeadNotFound = errors.New("lead not found")
