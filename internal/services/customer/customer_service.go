package customer

import (
	"context"

	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type CustomerService struct {
	repo   *CustomerRepo
	scopes *scope.Builder
}

func NewCustomerService(repo *CustomerRepo, scopes *scope.Builder) *CustomerService {
	return &CustomerService{repo: repo, scopes: scopes}
}

func (s *CustomerService) List(ctx context.Context, userID int64, f ListCustomersFilter) (*CustomerList, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	return &CustomerList{Records: records, Pagination: scope.NewPagination(f.Page, total)}, nil
}

func (s *CustomerService) Get(ctx context.Context, userID, id int64) (*Customer, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *CustomerService) Create(ctx context.Context, userID int64, req *CreateCustomerRequest) (*Customer, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *CustomerService) Update(ctx context.Context, userID, id int64, req *UpdateCustomerRequest) (*Customer, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}
