package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Brownie44l1/medict-api/internal/diagnosis"
	"github.com/Brownie44l1/medict-api/internal/domain"
)

type Handler struct {
	pipeline  *diagnosis.Pipeline
	log       *zap.Logger
	maxUpload int64
	timeout   time.Duration
}

func NewHandler(pipeline *diagnosis.Pipeline, log *zap.Logger, maxUpload int64, timeout time.Duration) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		pipeline:  pipeline,
		log:       log,
		maxUpload: maxUpload,
		timeout:   timeout,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/health", enableCORS(h.Health))
	mux.HandleFunc("/domains", enableCORS(h.Domains))
	mux.HandleFunc("/predict", enableCORS(h.Predict))
	mux.HandleFunc("/predict/image", enableCORS(h.PredictFromImage))
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	kinds := make([]domain.Kind, 0, 3)
	for _, d := range h.pipeline.Domains() {
		kinds = append(kinds, d.Kind)
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy", "domains": kinds})
}

func (h *Handler) Domains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	domains := h.pipeline.Domains()
	out := make([]DomainResponse, 0, len(domains))
	for _, d := range domains {
		out = append(out, DomainResponse{
			Kind:          d.Kind,
			Name:          d.Name,
			Description:   d.Description,
			Labels:        d.Labels,
			NegativeLabel: d.NegativeLabel,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Predict classifies a tensor that the caller already normalized.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	var req PredictionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	size := h.pipeline.ImageSize()
	expectedSize := size * size * 3
	if len(req.Image) != expectedSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Expected %d values, got %d", expectedSize, len(req.Image)))
		return
	}

	ctx, requestID, cancel := h.requestContext(w, r)
	defer cancel()

	result, err := h.pipeline.ClassifyTensor(ctx, req.Domain, req.Image)
	if err != nil {
		h.writePipelineError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictionResponse{RequestID: requestID, Diagnosis: result})
}

// PredictFromImage classifies a multipart upload; the domain comes from the "domain"
// form field or query parameter.
func (h *Handler) PredictFromImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided. Use 'image' as the form field name")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	ctx, requestID, cancel := h.requestContext(w, r)
	defer cancel()

	name := r.FormValue("domain")
	h.log.Debug("Received file",
		zap.String("request_id", requestID),
		zap.String("domain", name),
		zap.String("filename", header.Filename),
		zap.Int64("size", header.Size))

	result, err := h.pipeline.Classify(ctx, name, raw)
	if err != nil {
		h.writePipelineError(w, requestID, err)
		return
	}

	writeJSON(w, http.StatusOK, PredictionResponse{RequestID: requestID, Diagnosis: result})
}

func (h *Handler) requestContext(w http.ResponseWriter, r *http.Request) (context.Context, string, context.CancelFunc) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-ID", requestID)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	return diagnosis.WithRequestID(ctx, requestID), requestID, cancel
}

func (h *Handler) writePipelineError(w http.ResponseWriter, requestID string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Prediction failed", zap.String("request_id", requestID), zap.Error(err))
	}

	writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Kind:      domain.KindOf(err),
		Detail:    err.Error(),
		RequestID: requestID,
	})
}

// StatusFor maps a pipeline error to an HTTP status.
func StatusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch domain.KindOf(err) {
	case domain.KindUnknownDomain:
		return http.StatusNotFound
	case domain.KindInvalidImage:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
