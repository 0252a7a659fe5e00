package customer

import (
	"errors"
	"time"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
	"github.com/tripdeskhq/tripdesk/internal/services/user"
)

type Customer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	City      string    `db:"city" json:"city"`
	Country   string    `db:"country" json:"country"`
	CreatedBy int64     `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	CreatorName string    `db:"creator_name" json:"creator_name,omitempty"`
	CreatorRole user.Role `db:"creator_role" json:"creator_role,omitempty"`
}

type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
}

type ListCustomersFilter struct {
	Country *string
	Search  string
	Page    scope.PageRequest
}

type CustomerList struct {
	Records    []*Customer      `json:"records"`
	Pagination scope.Pagination `json:"pagination"`
}

var ErrCustomerNotFound = errors.New("customer not found")
