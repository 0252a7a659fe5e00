package lead

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

func TestBuildListQueryScopedWithFilters(t *testing.T) {
	status := StatusNew
	priority := PriorityHigh
	f := ListLeadsFilter{
		Status:   &status,
		Priority: &priority,
		Search:   "paris",
		Page:     scope.PageRequest{Page: 2, Limit: 10},
	}

	query, args, countQuery, countArgs := buildListQuery(scope.Scope{AnchorID: 5}, f)

	assert.Contains(t, query, "l.created_by = $1")
	assert.Contains(t, query, "SELECT id FROM users WHERE created_by = $1")
	assert.Contains(t, query, "l.status = $2")
	assert.Contains(t, query, "l.priority = $3")
	assert.Contains(t, query, "ILIKE $4")
	assert.Contains(t, query, "LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{int64(5), status, priority, "%paris%", 10, 10}, args)

	// The count query carries the same conditions but never paginates.
	assert.NotContains(t, countQuery, "LIMIT")
	assert.Equal(t, []any{int64(5), status, priority, "%paris%"}, countArgs)
}

func TestBuildListQueryUnrestrictedScope(t *testing.T) {
	query, args, countQuery, countArgs := buildListQuery(scope.Scope{CanAccessAll: true}, ListLeadsFilter{})

	assert.NotContains(t, query, "created_by = $")
	assert.NotContains(t, countQuery, "WHERE")
	assert.Empty(t, args)
	assert.Empty(t, countArgs)
}

func TestBuildListQueryBindsHostileSearch(t *testing.T) {
	hostile := `'; DROP TABLE leads; --`
	f := ListLeadsFilter{Search: hostile}

	query, args, _, _ := buildListQuery(scope.Scope{AnchorID: 1}, f)

	// The term only ever travels as a bound argument.
	assert.NotContains(t, query, "DROP TABLE")
	require.Len(t, args, 2)
	assert.Equal(t, "%"+scope.EscapeLike(hostile)+"%", args[1])
}

func TestBuildListQueryEscapesWildcards(t *testing.T) {
	f := ListLeadsFilter{Search: "100%"}

	query, args, _, _ := buildListQuery(scope.Scope{AnchorID: 1}, f)

	assert.Equal(t, `%100\%%`, args[1])
	assert.True(t, strings.Contains(query, "l.source ILIKE $2"))
	assert.True(t, strings.Contains(query, "l.destination ILIKE $2"))
	assert.True(t, strings.Contains(query, "l.notes ILIKE $2"))
}

func TestBuildListQueryUnpaginatedHasNoLimit(t *testing.T) {
	query, args, _, _ := buildListQuery(scope.Scope{AnchorID: 1}, ListLeadsFilter{})

	assert.NotContains(t, query, "LIMIT")
	assert.Equal(t, []any{int64(1)}, args)
	assert.Contains(t, query, "ORDER BY l.created_at DESC")
}
