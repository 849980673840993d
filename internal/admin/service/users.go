package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

// MemberPage is one page of the upstream member listing.
type MemberPage struct {
	Members []domain.Member `json:"users"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
}

// UsersService proxies member management against the upstream admin API.
type UsersService struct {
	API *gateway.Client
}

// List returns one page of members, optionally filtered by a search query.
func (s *UsersService) List(ctx context.Context, page, size int, query string) (*MemberPage, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}

	params := url.Values{}
	params.Set("page", fmt.Sprint(page))
	params.Set("size", fmt.Sprint(size))
	if query != "" {
		params.Set("q", query)
	}

	return gateway.Do[MemberPage](ctx, s.API, "/v1/admin/users?"+params.Encode(), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}

// Get returns a single member by id.
func (s *UsersService) Get(ctx context.Context, id string) (*domain.Member, error) {
	return gateway.Do[domain.Member](ctx, s.API, "/v1/admin/users/"+url.PathEscape(id), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}

// MemberUpdate carries the editable member fields. The upstream edit
// contract maps Email to serial_id and Active to an is_login flag.
type MemberUpdate struct {
	Name   string
	Email  string
	Active bool
	Role   domain.Role
}

// Update edits a member upstream, including role changes.
func (s *UsersService) Update(ctx context.Context, id string, patch MemberUpdate) error {
	isLogin := 0
	if patch.Active {
		isLogin = 1
	}

	_, err := gateway.Do[struct{}](ctx, s.API, "/v1/admin/"+url.PathEscape(id), gateway.Options{
		Method: http.MethodPut,
		Body: map[string]any{
			"name":      patch.Name,
			"serial_id": patch.Email,
			"is_login":  isLogin,
			"role":      patch.Role,
		},
		RequiresAuth: true,
	}).Unpack()
	return err
}

// Delete removes a member upstream.
func (s *UsersService) Delete(ctx context.Context, id string) error {
	_, err := gateway.Do[struct{}](ctx, s.API, "/v1/admin/"+url.PathEscape(id), gateway.Options{
		Method:       http.MethodDelete,
		RequiresAuth: true,
	}).Unpack()
	return err
}

// Stats returns the aggregate user statistics block.
func (s *UsersService) Stats(ctx context.Context) (*domain.UserStats, error) {
	return gateway.Do[domain.UserStats](ctx, s.API, "/v1/admin/user-stats", gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}
