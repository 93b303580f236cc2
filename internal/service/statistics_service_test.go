package service

import (
	"context"
	"testing"

	"github.com/umarabbas75/fly-inn-app-sub004/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCancellationStats(t *testing.T) {
	bookingRepo := newFakeBookingRepo()
	bookingRepo.summary = &repository.CancellationSummary{
		TotalBookings:     12,
		CancelledBookings: 5,
		TotalRefunded:     decimal.RequireFromString("517.835"),
		TotalForfeited:    decimal.RequireFromString("240.1"),
		FullRefunds:       2,
		PartialRefunds:    2,
		ZeroRefunds:       1,
	}

	svc := NewStatisticsService(bookingRepo)
	stats, err := svc.CancellationStats(context.Background())
	require.NoError(t, err)

	assert.EqualValues(t, 12, stats.TotalBookings)
	assert.EqualValues(t, 5, stats.CancelledBookings)
	assert.Equal(t, "517.84", stats.TotalRefunded)
	assert.Equal(t, "240.10", stats.TotalForfeited)
	assert.EqualValues(t, 2, stats.FullRefunds)
	assert.EqualValues(t, 2, stats.PartialRefunds)
	assert.EqualValues(t, 1, stats.ZeroRefunds)
}
