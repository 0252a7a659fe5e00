package dashboard

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type DashboardRepo struct {
	db *sqlx.DB
}

func NewDashboardRepo(db *sqlx.DB) *DashboardRepo {
	return &DashboardRepo{db: db}
}

// Stats runs four independent aggregates, each restricted by the same
// scope predicate rendered against its own table alias.
func (r *DashboardRepo) Stats(ctx context.Context, s scope.Scope) (*Stats, error) {
	var stats Stats

	if err := r.scopedGet(ctx, s, &stats.Leads, `SELECT COUNT(*) FROM leads l`, "l"); err != nil {
		return nil, fmt.Errorf("failed to count leads: %w", err)
	}
	if err := r.scopedGet(ctx, s, &stats.Bookings, `SELECT COUNT(*) FROM bookings b`, "b"); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := r.scopedGet(ctx, s, &stats.Customers, `SELECT COUNT(*) FROM customers c`, "c"); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := r.scopedGet(ctx, s, &stats.BookingRevenue, `SELECT COALESCE(SUM(b.total_amount), 0) FROM bookings b`, "b"); err != nil {
		return nil, fmt.Errorf("failed to sum booking revenue: %w", err)
	}

	return &stats, nil
}

func (r *DashboardRepo) scopedGet(ctx context.Context, s scope.Scope, dest any, query, alias string) error {
	args := []any{}
	if cond, condArgs := s.Predicate(alias, 1); cond != "" {
		query += " WHERE " + cond
		args = append(args, condArgs...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}
