package booking

import (
	"errors"
	"time"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID               int64      `db:"id" json:"id"`
	QuoteID          *int64     `db:"quote_id" json:"quote_id"`
	CustomerID       int64      `db:"customer_id" json:"customer_id"`
	BookingReference string     `db:"booking_reference" json:"booking_reference"`
	Destination      string     `db:"destination" json:"destination"`
	StartDate        *time.Time `db:"start_date" json:"start_date"`
	EndDate          *time.Time `db:"end_date" json:"end_date"`
	TotalAmount      float64    `db:"total_amount" json:"total_amount"`
	Status           Status     `db:"status" json:"status"`
	Notes            string     `db:"notes" json:"notes"`
	CreatedBy        int64      `db:"created_by" json:"created_by"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`

	CustomerName  string    `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail string    `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone string    `db:"customer_phone" json:"customer_phone,omitempty"`
	CreatorName   string    `db:"creator_name" json:"creator_name,omitempty"`
	CreatorRole   user.Role `db:"creator_role" json:"creator_role,omitempty"`
}

type CreateBookingRequest struct {
	QuoteID     *int64     `json:"quote_id"`
	CustomerID  int64      `json:"customer_id"`
	Destination string     `json:"destination"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TotalAmount float64    `json:"total_amount"`
	Notes       string     `json:"notes"`
}

type UpdateBookingRequest struct {
	Destination *string    `json:"destination"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TotalAmount *float64   `json:"total_amount"`
	Status      *Status    `json:"status"`
	Notes       *string    `json:"notes"`
}

type ListBookingsFilter struct {
	Status *Status
	Search string
	Page   scope.PageRequest
}

type BookingList struct {
	Records    []*Booking       `json:"records"`
	Pagination scope.Pagination `json:"pagination"`
}

var ErrBookingNotFound = errors.New("booking not found")
