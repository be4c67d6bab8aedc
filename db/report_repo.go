package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/greenloophq/greenloop/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ReportPoints is credited for every accepted report submission.
const ReportPoints = 10

type ReportRepository interface {
	SubmitReport(report *models.Report) (*models.Report, error)
	GetReportByID(reportID string) (*models.Report, error)
	ListRecentReports(limit int) ([]models.Report, error)
	ListReportsByUser(userID uint) ([]models.Report, error)
}

type reportRepo struct {
	DB *gorm.DB
}

func NewReportRepo(db *GormDB) ReportRepository {
	return &reportRepo{db.DB}
}

// SubmitReport inserts the report, credits the reporter, and writes the
// reward notification in a single transaction so a mid-sequence failure
// never leaves a report without its credit.
func (r *reportRepo) SubmitReport(report *models.Report) (*models.Report, error) {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.Status = models.ReportStatusPending
	report.CollectorID = nil

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return errors.Wrap(err, "gorm.create report")
		}

		err := applyLedgerEntry(tx, report.UserID, models.TransactionEarnedReport,
			ReportPoints, "Points earned for reporting waste")
		if err != nil {
			return err
		}

		notification := models.Notification{
			UserID:  report.UserID,
			Message: fmt.Sprintf("You've earned %d points for reporting waste", ReportPoints),
			Type:    models.NotificationTypeReward,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return errors.Wrap(err, "gorm.create notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (r *reportRepo) GetReportByID(reportID string) (*models.Report, error) {
	var report models.Report
	if err := r.DB.Where("id = ?", reportID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) ListRecentReports(limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list recent reports")
	}
	return reports, nil
}

func (r *reportRepo) ListReportsByUser(userID uint) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list user reports")
	}
	return reports, nil
}
