package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	apiError "github.com/greenloophq/greenloop/errors"
	"github.com/greenloophq/greenloop/models"
	"github.com/greenloophq/greenloop/services/verification"
)

const DefaultRecentReportLimit = 10

// ReportImage is a decoded upload handed to the workflow.
type ReportImage struct {
	Data     []byte
	MimeType string
}

type ReportService interface {
	SubmitReport(ctx context.Context, userID uint, request *models.CreateReportRequest, image *ReportImage) (*models.Report, *apiError.Error)
	ListRecentReports(limit int) ([]models.Report, error)
	ListUserReports(userID uint) ([]models.Report, error)
}

type reportService struct {
	Config     *config.Config
	reportRepo db.ReportRepository
	verifier   verification.Verifier
	media      MediaService
}

func NewReportService(reportRepo db.ReportRepository, verifier verification.Verifier, media MediaService, conf *config.Config) ReportService {
	return &reportService{
		Config:     conf,
		reportRepo: reportRepo,
		verifier:   verifier,
		media:      media,
	}
}

// SubmitReport validates the form, runs the optional report-time AI check,
// stores the photo, and commits the (report, credit, notification) triple.
// Validation failures reject before any mutation; an adapter failure aborts
// with nothing persisted so the user can re-trigger.
func (s *reportService) SubmitReport(ctx context.Context, userID uint, request *models.CreateReportRequest, image *ReportImage) (*models.Report, *apiError.Error) {
	if errs := models.ValidateStruct(request); len(errs) > 0 {
		messages := make([]string, 0, len(errs))
		for _, err := range errs {
			messages = append(messages, strings.TrimSuffix(strings.TrimSpace(err.Error()), ";"))
		}
		return nil, apiError.New(strings.Join(messages, "; "), http.StatusBadRequest)
	}

	report := &models.Report{
		UserID:    userID,
		Location:  request.Location,
		WasteType: request.WasteType,
		Amount:    request.Amount,
	}

	if image != nil {
		result, err := s.verifier.VerifyWasteImage(ctx, image.Data, image.MimeType)
		if err != nil {
			log.Printf("report verification failed for user %d: %v", userID, err)
			return nil, apiError.New("image verification failed, please try again", http.StatusBadGateway)
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, apiError.ErrInternalServerError
		}
		report.VerificationResult = string(payload)

		imageURL, thumbnailURL, err := s.media.UploadReportImage(ctx, image.Data, image.MimeType, userID)
		if err != nil {
			log.Printf("error uploading report image for user %d: %v", userID, err)
			return nil, apiError.New("failed to store report image", http.StatusInternalServerError)
		}
		report.ImageURL = imageURL
		report.ThumbnailURL = thumbnailURL
	}

	created, err := s.reportRepo.SubmitReport(report)
	if err != nil {
		log.Printf("error creating report for user %d: %v", userID, err)
		return nil, apiError.ErrInternalServerError
	}
	return created, nil
}

func (s *reportService) ListRecentReports(limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = DefaultRecentReportLimit
	}
	return s.reportRepo.ListRecentReports(limit)
}

func (s *reportService) ListUserReports(userID uint) ([]models.Report, error) {
	return s.reportRepo.ListReportsByUser(userID)
}
