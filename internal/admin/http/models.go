package http

import (
	"encoding/json"
	"net/http"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/service"
	"github.com/teolmungchi/admin-gateway/pkg/slogx"
)

// ModelsHandler drives the AI service's model lifecycle.
type ModelsHandler struct {
	Models *service.ModelsService
}

func (h *ModelsHandler) HandleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.Models.Versions(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, versions)
}

func (h *ModelsHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	current, err := h.Models.Current(r.Context(), r.PathValue("type"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, current)
}

// HandleDeploy godoc
//
//	@Summary	Deploy a model version
//	@Tags		Models
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	Envelope
//	@Failure	403	{object}	Envelope
//	@Router		/v1/models/deploy [post].
func (h *ModelsHandler) HandleDeploy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Version   string `json:"version"`
		ModelType string `json:"modelType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Version == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "version is required")
		return
	}

	if err := h.Models.Deploy(r.Context(), req.Version, req.ModelType); err != nil {
		writeServiceError(w, err)
		return
	}

	slogx.FromContext(r.Context()).Info("model deployed", "version", req.Version, "model_type", req.ModelType)
	writeData(w, http.StatusOK, nil)
}

func (h *ModelsHandler) HandleTrain(w http.ResponseWriter, r *http.Request) {
	var params domain.TrainingParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil || params.ModelType == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "modelType is required")
		return
	}

	job, err := h.Models.Train(r.Context(), params)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, job)
}

func (h *ModelsHandler) HandleJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Models.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeData(w, http.StatusOK, job)
}
