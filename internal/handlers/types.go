package handlers

import "github.com/Brownie44l1/medict-api/internal/domain"

type PredictionRequest struct {
	Domain string    `json:"domain"`
	Image  []float32 `json:"image"`
}

type PredictionResponse struct {
	RequestID string `json:"request_id"`
	*domain.Diagnosis
}

type DomainResponse struct {
	Kind          domain.Kind `json:"kind"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Labels        []string    `json:"labels"`
	NegativeLabel string      `json:"negative_label"`
}

type ErrorResponse struct {
	Error     string           `json:"error"`
	Kind      domain.ErrorKind `json:"kind,omitempty"`
	Detail    string           `json:"detail,omitempty"`
	RequestID string           `json:"request_id,omitempty"`
}
