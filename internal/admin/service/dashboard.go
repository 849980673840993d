package service

import (
	"context"
	"net/url"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

// DashboardService proxies the dashboard aggregates from the upstream admin API.
type DashboardService struct {
	API *gateway.Client
}

// Stats returns the stat-card aggregates.
func (s *DashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	return gateway.Do[domain.DashboardStats](ctx, s.API, "/v1/admin/dashboard", gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}

// Recent returns the latest animal listings for the dashboard widget.
func (s *DashboardService) Recent(ctx context.Context) ([]domain.RecentAnimal, error) {
	data, err := gateway.Do[[]domain.RecentAnimal](ctx, s.API, "/v1/admin/recent", gateway.Options{
		RequiresAuth: true,
	}).Unpack()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return *data, nil
}

// Activity returns the user-activity chart samples for a date range.
// Dates are ISO "2006-01-02" strings; empty values use the upstream default.
func (s *DashboardService) Activity(ctx context.Context, startDate, endDate string) ([]domain.ActivityPoint, error) {
	endpoint := "/v1/admin/activity"

	params := url.Values{}
	if startDate != "" {
		params.Set("startDate", startDate)
	}
	if endDate != "" {
		params.Set("endDate", endDate)
	}
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	data, err := gateway.Do[[]domain.ActivityPoint](ctx, s.API, endpoint, gateway.Options{
		RequiresAuth: true,
	}).Unpack()
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return *data, nil
}
