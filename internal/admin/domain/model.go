package domain

import "time"

// ModelVersion is one deployable version of the matching model, as reported
// by the AI service. The gateway never interprets these beyond display and
// deploy/train plumbing.
type ModelVersion struct {
	Version    string    `json:"version"`
	ModelType  string    `json:"modelType"`
	Deployed   bool      `json:"deployed"`
	Accuracy   float64   `json:"accuracy"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// TrainingJob is the status of an asynchronous training run on the AI service.
type TrainingJob struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Progress  float64 `json:"progress"`
	Message   string  `json:"message,omitempty"`
	ModelType string  `json:"modelType,omitempty"`
}

// TrainingParams are the knobs forwarded verbatim to the AI service's
// training endpoint.
type TrainingParams struct {
	ModelType    string  `json:"modelType"`
	Epochs       int     `json:"epochs,omitempty"`
	BatchSize    int     `json:"batchSize,omitempty"`
	LearningRate float64 `json:"learningRate,omitempty"`
	Dataset      string  `json:"dataset,omitempty"`
}
