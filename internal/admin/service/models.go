package service

import (
	"context"
	"net/http"
	"net/url"

	"github.com/teolmungchi/admin-gateway/internal/admin/domain"
	"github.com/teolmungchi/admin-gateway/internal/admin/gateway"
)

// ModelsService talks to the AI service that runs the matching model. It is
// a separate upstream from the main API, hence its own gateway client.
type ModelsService struct {
	AI *gateway.Client
}

// Versions lists every uploaded model version.
func (s *ModelsService) Versions(ctx context.Context) ([]domain.ModelVersion, error) {
	data, err := gateway.Do[[]domain.ModelVersion](ctx, s.AI, "/sherlock/model-versions", gateway.Options{
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

// Current returns the deployed version for one model type.
func (s *ModelsService) Current(ctx context.Context, modelType string) (*domain.ModelVersion, error) {
	return gateway.Do[domain.ModelVersion](ctx, s.AI, "/current-version/"+url.PathEscape(modelType), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}

// Deploy promotes a model version to serving.
func (s *ModelsService) Deploy(ctx context.Context, version, modelType string) error {
	_, err := gateway.Do[struct{}](ctx, s.AI, "/sherlock/deploy-model", gateway.Options{
		Method:       http.MethodPost,
		RequiresAuth: true,
		Body: map[string]string{
			"version":   version,
			"modelType": modelType,
		},
	}).Unpack()
	return err
}

// Train kicks off an asynchronous training run and returns the job handle.
func (s *ModelsService) Train(ctx context.Context, params domain.TrainingParams) (*domain.TrainingJob, error) {
	return gateway.Do[domain.TrainingJob](ctx, s.AI, "/api/train", gateway.Options{
		Method:       http.MethodPost,
		RequiresAuth: true,
		Body:         params,
	}).Unpack()
}

// Job polls the status of a training run.
func (s *ModelsService) Job(ctx context.Context, id string) (*domain.TrainingJob, error) {
	return gateway.Do[domain.TrainingJob](ctx, s.AI, "/api/jobs/"+url.PathEscape(id), gateway.Options{
		RequiresAuth: true,
	}).Unpack()
}
