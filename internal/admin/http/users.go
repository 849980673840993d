package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

// UsersHandler proxies member management.
type UsersHandler struct {
	Users *service.UsersService
}

// HandleList godoc
//
//	@Summary	List members
//	@Tags		Members
//	@Produce	json
//	@Param		page	query		int		false	"page number"
//	@Param		size	query		int		false	"page size"
//	@Param		q		query		string	false	"search query"
//	@Success	200		{object}	Envelope{data=service.MemberPage}
//	@Failure	401		{object}	Envelope
//	@Failure	403		{object}	Envelope
//	@Router		/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	members, err := h.Users.List(r.Context(), page, size, q.Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, members)
}

func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	member, err := h.Users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, member)
}

// UpdateMemberRequest is the member edit payload.
type UpdateMemberRequest struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Active bool        `json:"active"`
	Role   domain.Role `json:"role"`
}

// HandleUpdate godoc
//
//	@Summary	Update a member
//	@Tags		Members
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"member id"
//	@Param		request	body		UpdateMemberRequest	true	"member fields"
//	@Success	200		{object}	Envelope
//	@Failure	400		{object}	Envelope
//	@Failure	403		{object}	Envelope
//	@Router		/v1/users/{id} [put].
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown role")
		return
	}

	id := r.PathValue("id")
	err := h.Users.Update(r.Context(), id, service.MemberUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Active: req.Active,
		Role:   req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	slogx.FromContext(r.Context()).Info("member updated", "member_id", id, "role", req.Role)
	writeData(w, http.StatusOK, nil)
}

// HandleDelete godoc
//
//	@Summary	Delete a member
//	@Tags		Members
//	@Produce	json
//	@Param		id	path		string	true	"member id"
//	@Success	200	{object}	Envelope
//	@Failure	403	{object}	Envelope
//	@Router		/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	slogx.FromContext(r.Context()).Info("member deleted", "member_id", id)
	writeData(w, http.StatusOK, nil)
}

func (h *UsersHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Users.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
