package http

import (
	"net/http"
	"strconv"

	"github.com/teolmungchi/admin-gateway/internal/admin/service"
)

// MatchingHandler proxies the similarity-matching history.
type MatchingHandler struct {
	Matching *service.MatchingService
}

func (h *MatchingHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	matches, err := h.Matching.History(r.Context(), page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, matches)
}
