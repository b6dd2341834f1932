package service

import (
	"context"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
)

// DashboardService serves the signed-in user's read-only views.
type DashboardService interface {
	ListOrders(ctx context.Context, userID string) ([]*model.Order, error)
	ListProgramProgress(ctx context.Context, userID string) ([]*model.ProgramProgress, error)
	ListBookings(ctx context.Context, userID string) ([]*dto.Booking, error)
}

type dashboardServiceImpl struct {
	orderRepo    repository.OrderRepository
	progressRepo repository.ProgressRepository
}

func NewDashboardService(
	orderRepo repository.OrderRepository,
	progressRepo repository.ProgressRepository,
) DashboardService {
	return &dashboardServiceImpl{
		orderRepo:    orderRepo,
		progressRepo: progressRepo,
	}
}

func (s *dashboardServiceImpl) ListOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *dashboardServiceImpl) ListProgramProgress(ctx context.Context, userID string) ([]*model.ProgramProgress, error) {
	return s.progressRepo.ListByUser(ctx, userID)
}

func (s *dashboardServiceImpl) ListBookings(ctx context.Context, userID string) ([]*dto.Booking, error) {
	rows, err := s.orderRepo.ListCompletedCoachingItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookings := make([]*dto.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, &dto.Booking{
			OrderID:           row.OrderID,
			OrderNumber:       row.OrderNumber,
			CoachingPackageID: *row.CoachingPackageID,
			Name:              row.Name,
			Quantity:          row.Quantity,
			PurchasedAt:       row.OrderedAt.UTC().Format(time.RFC3339),
		})
	}
	return bookings, nil
}
