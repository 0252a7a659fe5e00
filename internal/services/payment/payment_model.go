package payment

import (
	"errors"
	"time"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRefunded:
		return true
	}
	return false
}

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodCash         Method = "cash"
	MethodUPI          Method = "upi"
)

func (m Method) Valid() bool {
	switch m {
	case MethodCard, MethodBankTransfer, MethodCash, MethodUPI:
		return true
	}
	return false
}

type Payment struct {
	ID             int64      `db:"id" json:"id"`
	BookingID      int64      `db:"booking_id" json:"booking_id"`
	Amount         float64    `db:"amount" json:"amount"`
	Method         Method     `db:"payment_method" json:"payment_method"`
	Status         Status     `db:"status" json:"status"`
	TransactionRef string     `db:"transaction_ref" json:"transaction_ref"`
	PaidAt         *time.Time `db:"paid_at" json:"paid_at"`
	CreatedBy      int64      `db:"created_by" json:"created_by"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`

	BookingReference string    `db:"booking_reference" json:"booking_reference,omitempty"`
	CustomerName     string    `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail    string    `db:"customer_email" json:"customer_email,omitempty"`
	CustomerPhone    string    `db:"customer_phone" json:"customer_phone,omitempty"`
	CreatorName      string    `db:"creator_name" json:"creator_name,omitempty"`
	CreatorRole      user.Role `db:"creator_role" json:"creator_role,omitempty"`
}

type CreatePaymentRequest struct {
	BookingID int64      `json:"booking_id"`
	Amount    float64    `json:"amount"`
	Method    Method     `json:"payment_method"`
	PaidAt    *time.Time `json:"paid_at"`
}

type UpdatePaymentRequest struct {
	Amount *float64   `json:"amount"`
	Status *Status    `json:"status"`
	PaidAt *time.Time `json:"paid_at"`
}

type ListPaymentsFilter struct {
	Status *Status
	Method *Method
	Search string
	Page   scope.PageRequest
}

type PaymentList struct {
	Records    []*Payment       `json:"records"`
	Pagination scope.Pagination `json:"pagination"`
}

var ErrPaymentNotFound = errors.New("payment not found")
