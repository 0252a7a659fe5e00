package lead

import (
	"context"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type LeadService struct {
	repo   *LeadRepo
	scopes *scope.Builder
}

func NewLeadService(repo *LeadRepo, scopes *scope.Builder) *LeadService {
	return &LeadService{repo: repo, scopes: scopes}
}

// List returns the leads visible to the acting user, narrowed by the filter.
// An unresolvable user id fails the call; there is no default scope.
func (s *LeadService) List(ctx context.Context, userID int64, f ListLeadsFilter) (*LeadList, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	return &LeadList{Records: records, Pagination: scope.NewPagination(f.Page, total)}, nil
}

func (s *LeadService) Get(ctx context.Context, userID, id int64) (*Lead, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *LeadService) Create(ctx context.Context, userID int64, req *CreateLeadRequest) (*Lead, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, sc, userID, req)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

// Update re-resolves the scope at write time; a lead that left the acting
// user's scope since it was last read is treated as not found.
func (s *LeadService) Update(ctx context.Context, userID, id int64, req *UpdateLeadRequest) (*Lead, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}
