package services

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	apiError "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/services/verification"
	"gorm.io/gorm"
)

const DefaultTaskLimit = 20

// VerifyOutcome reports the result of a collection verification attempt.
type VerifyOutcome struct {
	Verified      bool                             `json:"verified"`
	Result        *verification.CollectionResult   `json:"result"`
	RewardEarned  int                              `json:"reward_earned"`
	Report        *models.Report                   `json:"report"`
	CollectedItem *models.CollectedWaste           `json:"collected_waste,omitempty"`
}

type CollectionService interface {
	ListOpenTasks(limit int) ([]models.CollectionTask, error)
	Claim(taskID string, collectorID uint, newStatus string) (*models.CollectionTask, *apiError.Error)
	VerifyCollection(ctx context.Context, taskID string, collectorID uint, image *ReportImage) (*VerifyOutcome, *apiError.Error)
}

type collectionService struct {
	Config         *config.Config
	collectionRepo db.CollectionRepository
	reportRepo     db.ReportRepository
	verifier       verification.Verifier
}

func NewCollectionService(collectionRepo db.CollectionRepository, reportRepo db.ReportRepository, verifier verification.Verifier, conf *config.Config) CollectionService {
	return &collectionService{
		Config:         conf,
		collectionRepo: collectionRepo,
		reportRepo:     reportRepo,
		verifier:       verifier,
	}
}

// ListOpenTasks returns reports as collection tasks regardless of status;
// filtering to unclaimed tasks is a caller concern.
func (s *collectionService) ListOpenTasks(limit int) ([]models.CollectionTask, error) {
	if limit <= 0 {
		limit = DefaultTaskLimit
	}
	reports, err := s.collectionRepo.ListTasks(limit)
	if err != nil {
		return nil, err
	}
	tasks := make([]models.CollectionTask, 0, len(reports))
	for i := range reports {
		tasks = append(tasks, reports[i].Task())
	}
	return tasks, nil
}

// expectedPrior returns the statuses a report may hold before moving to
// newStatus. Verified is terminal and reachable from any non-terminal state.
func expectedPrior(newStatus string) []string {
	switch newStatus {
	case models.ReportStatusInProgress:
		return []string{models.ReportStatusPending}
	case models.ReportStatusCompleted:
		return []string{models.ReportStatusInProgress}
	case models.ReportStatusVerified:
		return []string{models.ReportStatusPending, models.ReportStatusInProgress, models.ReportStatusCompleted}
	default:
		return nil
	}
}

// Claim transitions a task's status and associates the collector, with an
// optimistic check on the prior status so two collectors cannot both win.
func (s *collectionService) Claim(taskID string, collectorID uint, newStatus string) (*models.CollectionTask, *apiError.Error) {
	expected := expectedPrior(newStatus)
	if expected == nil {
		return nil, apiError.New("invalid task status", http.StatusBadRequest)
	}

	report, err := s.collectionRepo.UpdateTaskStatus(taskID, collectorID, newStatus, expected)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apiError.ErrNotFound
		case errors.Is(err, db.ErrTaskConflict):
			return nil, apiError.ErrTaskConflict
		default:
			log.Printf("error claiming task %s: %v", taskID, err)
			return nil, apiError.ErrInternalServerError
		}
	}

	task := report.Task()
	return &task, nil
}

// VerifyCollection checks the collection photo against the report's declared
// waste type and amount. Above the acceptance threshold it commits the
// verified status, the CollectedWaste record, and the collector's credit in
// one transaction; below it, nothing changes and the caller may retry.
func (s *collectionService) VerifyCollection(ctx context.Context, taskID string, collectorID uint, image *ReportImage) (*VerifyOutcome, *apiError.Error) {
	if image == nil || len(image.Data) == 0 {
		return nil, apiError.New("verification photo is required", http.StatusBadRequest)
	}

	report, err := s.reportRepo.GetReportByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.ErrNotFound
		}
		log.Printf("error fetching report %s: %v", taskID, err)
		return nil, apiError.ErrInternalServerError
	}
	if report.Terminal() {
		return nil, apiError.ErrTaskConflict
	}

	result, err := s.verifier.VerifyCollection(ctx, image.Data, image.MimeType, report.WasteType, report.Amount)
	if err != nil {
		log.Printf("collection verification failed for task %s: %v", taskID, err)
		return nil, apiError.New("image verification failed, please try again", http.StatusBadGateway)
	}

	if !result.Accepted() {
		// Below threshold: status untouched, no points.
		return &VerifyOutcome{Verified: false, Result: result, Report: report}, nil
	}

	expected := expectedPrior(models.ReportStatusVerified)
	collected, err := s.collectionRepo.SaveVerifiedCollection(report, collectorID, expected)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrTaskConflict):
			return nil, apiError.ErrTaskConflict
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apiError.ErrNotFound
		default:
			log.Printf("error saving verified collection for task %s: %v", taskID, err)
			return nil, apiError.ErrInternalServerError
		}
	}

	return &VerifyOutcome{
		Verified:      true,
		Result:        result,
		RewardEarned:  db.CollectPoints,
		Report:        report,
		CollectedItem: collected,
	}, nil
}
