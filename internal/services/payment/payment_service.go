package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type PaymentService struct {
	repo   *PaymentRepo
	scopes *scope.Builder
}

func NewPaymentService(repo *PaymentRepo, scopes *scope.Builder) *PaymentService {
	return &PaymentService{repo: repo, scopes: scopes}
}

func (s *PaymentService) List(ctx context.Context, userID int64, f ListPaymentsFilter) (*PaymentList, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	return &PaymentList{Records: records, Pagination: scope.NewPagination(f.Page, total)}, nil
}

func (s *PaymentService) Get(ctx context.Context, userID, id int64) (*Payment, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *PaymentService) Create(ctx context.Context, userID int64, req *CreatePaymentRequest) (*Payment, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, sc, userID, newTransactionRef(), req)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *PaymentService) Update(ctx context.Context, userID, id int64, req *UpdatePaymentRequest) (*Payment, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func newTransactionRef() string {
	return fmt.Sprintf("TXN-%s", strings.ToUpper(uuid.NewString()[:12]))
}
