package service

import (
	"context"
	"fmt"
	"net/url"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

// AnimalPage is one page of the upstream animal listing.
type AnimalPage struct {
	Animals []domain.Animal `json:"animals"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// AnimalsService proxies the animal listings from the upstream API.
type AnimalsService struct {
	API *gateway.Client
}

// List returns one page of listings. Kind narrows to missing or found
// reports; empty returns both.
func (s *AnimalsService) List(ctx context.Context, kind domain.AnimalKind, page, size int) (*AnimalPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))
	if kind != "" {
		params.Set("type", string(kind))
	}

	return gateway.Do[AnimalPage](ctx, s.API, "/v1/animals?"+params.Encode(), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}
