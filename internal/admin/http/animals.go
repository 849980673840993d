package http

import (
	"net/http"
	"strconv"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
)

// AnimalsHandler proxies the animal listings.
type AnimalsHandler struct {
	Animals *service.AnimalsService
}

func (h *AnimalsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	kind := domain.AnimalKind(q.Get("type"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown listing type")
		return
	}

	animals, err := h.Animals.List(r.Context(), kind, page, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, animals)
}
