package models

import (
	"time"

	"github.com/google/uuid"
)

// Report statuses. A report moves pending -> in_progress -> completed ->
// verified; verified is terminal and reachable from any non-terminal state
// once AI confirmation succeeds.
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusCompleted  = "completed"
	ReportStatusVerified   = "verified"
)

// Report is a waste sighting submitted by a user. Status and collector are
// mutated only by the collection workflow; reports are never deleted.
type Report struct {
	ID                 uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID             uint           `json:"user_id" gorm:"not null;index"`
	Location           string         `json:"location" gorm:"not null"`
	WasteType          string         `json:"waste_type" gorm:"not null"`
	Amount             string         `json:"amount" gorm:"not null"`
	ImageURL           string         `json:"image_url"`
	ThumbnailURL       string         `json:"thumbnail_url"`
	VerificationResult string         `json:"verification_result,omitempty" gorm:"type:text"`
	Status             string         `json:"status" gorm:"default:pending"`
	CollectorID        *uint          `json:"collector_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

// CreateReportRequest carries the submitted form fields. Amount is free text
// with embedded units ("5kg", "3 bags"); the quantity comparison is left to
// the vision model, never parsed arithmetically.
type CreateReportRequest struct {
	Location  string `form:"location" json:"location" validate:"required" conform:"trim"`
	WasteType string `form:"waste_type" json:"waste_type" validate:"required" conform:"trim"`
	Amount    string `form:"amount" json:"amount" validate:"required" conform:"trim"`
}

// CollectionTask is a report viewed from the collector's perspective.
type CollectionTask struct {
	ID          uuid.UUID `json:"id"`
	Location    string    `json:"location"`
	WasteType   string    `json:"waste_type"`
	Amount      string    `json:"amount"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	CollectorID *uint     `json:"collector_id"`
}

// CollectedWaste records a fulfilled, AI-confirmed collection. Created
// exactly once per successfully verified collection.
type CollectedWaste struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ReportID       uuid.UUID `json:"report_id" gorm:"type:uuid;not null;index"`
	CollectorID    uint      `json:"collector_id" gorm:"not null"`
	CollectionDate time.Time `json:"collection_date"`
	Status         string    `json:"status" gorm:"default:collected"`
}

// Task returns the report flattened into its collector-facing view.
func (r *Report) Task() CollectionTask {
	return CollectionTask{
		ID:          r.ID,
		Location:    r.Location,
		WasteType:   r.WasteType,
		Amount:      r.Amount,
		Status:      r.Status,
		Date:        r.CreatedAt,
		CollectorID: r.CollectorID,
	}
}

// Terminal reports cannot be claimed or re-verified.
func (r *Report) Terminal() bool {
	return r.Status == ReportStatusVerified
}
