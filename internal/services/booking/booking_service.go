package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripdeskhq/tripdesk/internal/services/scope"
)

type BookingService struct {
	repo   *BookingRepo
	scopes *scope.Builder
}

func NewBookingService(repo *BookingRepo, scopes *scope.Builder) *BookingService {
	return &BookingService{repo: repo, scopes: scopes}
}

func (s *BookingService) List(ctx context.Context, userID int64, f ListBookingsFilter) (*BookingList, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, total, err := s.repo.List(ctx, sc, f)
	if err != nil {
		return nil, err
	}

	return &BookingList{Records: records, Pagination: scope.NewPagination(f.Page, total)}, nil
}

func (s *BookingService) Get(ctx context.Context, userID, id int64) (*Booking, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *BookingService) Create(ctx context.Context, userID int64, req *CreateBookingRequest) (*Booking, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, sc, userID, newBookingReference(), req)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func (s *BookingService) Update(ctx context.Context, userID, id int64, req *UpdateBookingRequest) (*Booking, error) {
	sc, err := s.scopes.ForUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, sc, id, req); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, sc, id)
}

func newBookingReference() string {
	return fmt.Sprintf("BK-%s", strings.ToUpper(uuid.NewString()[:8]))
}
