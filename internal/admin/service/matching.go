package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

// MatchPage is one page of the matching history.
type MatchPage struct {
	Matches []domain.MatchRecord `json:"matches"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	Size    int                  `json:"size"`
}

// MatchingService proxies the similarity-matching history from the upstream API.
type MatchingService struct {
	API *gateway.Client
}

// History returns one page of past matching runs, newest first.
func (s *MatchingService) History(ctx context.Context, page, size int) (*MatchPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))

	return gateway.Do[MatchPage](ctx, s.API, "/v1/matching/history?"+params.Encode(), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}
