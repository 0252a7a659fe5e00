package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

func TestBuildListQueryFilters(t *testing.T) {
	status := StatusCompleted
	method := MethodUPI
	f := ListPaymentsFilter{
		Status: &status,
		Method: &method,
		Search: "BK-",
	}

	query, args, countQuery, countArgs := buildListQuery(scope.Scope{AnchorID: 3}, f)

	assert.Contains(t, query, "p.created_by = $1")
	assert.Contains(t, query, "p.status = $2")
	assert.Contains(t, query, "p.payment_method = $3")
	assert.Contains(t, query, "p.transaction_ref ILIKE $4")
	assert.Contains(t, query, "b.booking_reference ILIKE $4")
	assert.Equal(t, []any{int64(3), status, method, "%BK-%"}, args)

	// Search reaches into the joined booking, so the count query needs the
	// same join to stay consistent with the page it counts.
	assert.Contains(t, countQuery, "JOIN bookings b")
	assert.Equal(t, args, countArgs)
}

func TestBuildListQueryUnrestricted(t *testing.T) {
	query, args, _, _ := buildListQuery(scope.Scope{CanAccessAll: true}, ListPaymentsFilter{})

	assert.NotContains(t, query, "created_by = $")
	assert.Empty(t, args)
}

func TestBuildListQueryPagination(t *testing.T) {
	f := ListPaymentsFilter{Page: scope.PageRequest{Page: 3, Limit: 25}}

	query, args, countQuery, _ := buildListQuery(scope.Scope{AnchorID: 1}, f)

	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{int64(1), 25, 50}, args)
	assert.NotContains(t, countQuery, "LIMIT")
}
