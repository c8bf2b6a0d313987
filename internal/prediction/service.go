// Package prediction serves demand estimates for a family/store/date
// combination. The estimates are generated, not modeled: there is no
// trained model behind this service and responses say so via the Mock flag.
package prediction

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

// Bounds of the generated estimates.
const (
	minUnits      = 100
	maxUnits      = 1000
	minConfidence = 0.70
	maxConfidence = 0.95
)

// Request describes one prediction query.
type Request struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Family string `json:"family" validate:"required,min=1,max=100"`
	Store  string `json:"store" validate:"required,min=1,max=100"`
}

// Response is a single generated estimate.
type Response struct {
	Date           string    `json:"date"`
	Family         string    `json:"family"`
	Store          string    `json:"store"`
	PredictedUnits int       `json:"predicted_units"`
	Confidence     float64   `json:"confidence"`
	Mock           bool      `json:"mock"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Service generates mock predictions.
type Service struct {
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService creates a prediction service seeded from the current time.
func NewService(logger *slog.Logger) *Service {
	return NewServiceWithSeed(logger, time.Now().UnixNano())
}

// NewServiceWithSeed creates a prediction service with a fixed seed.
// Used by tests.
func NewServiceWithSeed(logger *slog.Logger, seed int64) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "prediction")),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Predict returns a generated estimate for the request.
func (s *Service) Predict(ctx context.Context, req Request) Response {
	s.mu.Lock()
	units := minUnits + s.rng.Intn(maxUnits-minUnits+1)
	confidence := minConfidence + s.rng.Float64()*(maxConfidence-minConfidence)
	s.mu.Unlock()

	resp := Response{
		Date:           req.Date,
		Family:         req.Family,
		Store:          req.Store,
		PredictedUnits: units,
		Confidence:     confidence,
		Mock:           true,
		GeneratedAt:    time.Now(),
	}

	s.logger.InfoContext(ctx, "prediction generated",
		slog.String("family", req.Family),
		slog.String("store", req.Store),
		slog.String("date", req.Date),
		slog.Int("predicted_units", units))

	return resp
}
