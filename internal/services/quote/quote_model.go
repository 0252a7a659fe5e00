package quote

import (
	"errors"
	"time"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

type Quote struct {
	ID          int64      `db:"id" json:"id"`
	LeadID      *int64     `db:"lead_id" json:"lead_id"`
	CustomerID  int64      `db:"customer_id" json:"customer_id"`
	QuoteNumber string     `db:"quote_number" json:"quote_number"`
	Destination string     `db:"destination" json:"destination"`
	Amount      float64    `db:"amount" json:"amount"`
	Status      Status     `db:"status" json:"status"`
	ValidUntil  *time.Time `db:"valid_until" json:"valid_until"`
	Details     string     `db:"details" json:"details"`
	CreatedBy   int64      `db:"created_by" json:"created_by"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	CustomerName  string    `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail string    `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone string    `db:"customer_phone" json:"customer_phone,omitempty"`
	CreatorName   string    `db:"creator_name" json:"creator_name,omitempty"`
	CreatorRole   user.Role `db:"creator_role" json:"creator_role,omitempty"`
}

type CreateQuoteRequest struct {
	LeadID      *int64     `json:"lead_id"`
	CustomerID  int64      `json:"customer_id"`
	Destination string     `json:"destination"`
	Amount      float64    `json:"amount"`
	ValidUntil  *time.Time `json:"valid_until"`
	Details     string     `json:"details"`
}

type UpdateQuoteRequest struct {
	Destination *string    `json:"destination"`
	Amount      *float64   `json:"amount"`
	Status      *Status    `json:"status"`
	ValidUntil  *time.Time `json:"valid_until"`
	Details     *string    `json:"details"`
}

type ListQuotesFilter struct {
	Status *Status
	Search string
	Page   scope.PageRequest
}

type QuoteList struct {
	Records    []*Quote         `json:"records"`
	Pagination scope.Pagination `json:"pagination"`
}

var ErrQuoteNotFound = errors.New("quote not found")
