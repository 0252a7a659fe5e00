package dashboard

import (
	"context"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type DashboardService struct {
	repo   *DashboardRepo
	scopes *scope.Builder
}

func NewDashboardService(repo *DashboardRepo, scopes *scope.Builder) *DashboardService {
	return &DashboardService{repo: repo, scopes: scopes}
}

func (s *DashboardService) Stats(ctx context.Context, userID int64) (*Stats, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx, sc)
}
