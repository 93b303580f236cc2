package service

import (
	"context"
	"fmt"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"
)

// CancellationStatsResponse summarizes refund outcomes for the admin dashboard
type CancellationStatsResponse struct {
	TotalBookings     int64  `json:"total_bookings"`
	CancelledBookings int64  `json:"cancelled_bookings"`
	TotalRefunded     string `json:"total_refunded"`
	TotalForfeited    string `json:"total_forfeited"`
	FullRefunds       int64  `json:"full_refunds"`
	PartialRefunds    int64  `json:"partial_refunds"`
	ZeroRefunds       int64  `json:"zero_refunds"`
}

type StatisticsService interface {
	CancellationStats(ctx context.Context) (*CancellationStatsResponse, error)
}

type statisticsService struct {
	bookingRepo repository.BookingRepository
}

func NewStatisticsService(bookingRepo repository.BookingRepository) StatisticsService {
	return &statisticsService{bookingRepo: bookingRepo}
}

func (s *statisticsService) CancellationStats(ctx context.Context) (*CancellationStatsResponse, error) {
	summary, err := s.bookingRepo.CancellationSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate cancellation stats: %w", err)
	}

	return &CancellationStatsResponse{
		TotalBookings:     summary.TotalBookings,
		CancelledBookings: summary.CancelledBookings,
		TotalRefunded:     summary.TotalRefunded.StringFixed(2),
		TotalForfeited:    summary.TotalForfeited.StringFixed(2),
		FullRefunds:       summary.FullRefunds,
		PartialRefunds:    summary.PartialRefunds,
		ZeroRefunds:       summary.ZeroRefunds,
	}, nil
}
