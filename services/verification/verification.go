// Package verification wraps the vision-model call that checks waste photos.
// A single failed call ends the attempt; the user re-triggers it. No retries.
package verification

import (
	"context"

	"github.com/pkg/errors"
)

// ConfidenceThreshold is the fixed acceptance policy for collection checks.
const ConfidenceThreshold = 0.7

var (
	// ErrVerification marks a network or model failure. Nothing is persisted.
	ErrVerification = errors.New("verification: model call failed")
	// ErrParse marks a non-conforming model response, treated the same as a
	// verification failure.
	ErrParse = errors.New("verification: could not parse model response")
)

// ReportResult is the report-time classification of a waste photo.
type ReportResult struct {
	WasteType  string  `json:"wasteType"`
	Quantity   string  `json:"quantity"`
	Confidence float64 `json:"confidence"`
}

// CollectionResult compares a collection photo against the reported waste.
type CollectionResult struct {
	WasteTypeMatch bool    `json:"wasteTypeMatch"`
	QuantityMatch  bool    `json:"quantityMatch"`
	Confidence     float64 `json:"confidence"`
}

// Accepted reports whether the result clears the acceptance policy.
func (r *CollectionResult) Accepted() bool {
	return r.WasteTypeMatch && r.QuantityMatch && r.Confidence > ConfidenceThreshold
}

// Verifier is the adapter contract the workflows depend on.
type Verifier interface {
	VerifyWasteImage(ctx context.Context, image []byte, mimeType string) (*ReportResult, error)
	VerifyCollection(ctx context.Context, image []byte, mimeType string, wasteType, amount string) (*CollectionResult, error)
}
