package quote

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type QuoteService struct {
	repo   *QuoteRepo
	scopes *scope.Builder
}

func NewQuoteService(repo *QuoteRepo, scopes *scope.Builder) *QuoteService {
	return &QuoteService{repo: repo, scopes: scopes}
}

func (s *QuoteService) List(ctx context.Context, userID int64, f ListQuotesFilter) (*QuoteList, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	return &QuoteList{Records: records, Pagination: scope.NewPagination(f.Page, total)}, nil
}

func (s *QuoteService) Get(ctx context.Context, userID, id int64) (*Quote, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *QuoteService) Create(ctx context.Context, userID int64, req *CreateQuoteRequest) (*Quote, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, sc, userID, newQuoteNumber(), req)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *QuoteService) Update(ctx context.Context, userID, id int64, req *UpdateQuoteRequest) (*Quote, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func newQuoteNumber() string {
	return fmt.Sprintf("QT-%s", strings.ToUpper(uuid.NewString()[:8]))
}
