package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/greenloophq/greenloop/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CollectPoints is credited to the collector for a verified collection.
const CollectPoints = 20

// ErrTaskConflict means the conditional status update matched no row while
// the task exists: another collector got there first, or the task is closed.
var ErrTaskConflict = errors.New("task status conflict")

type CollectionRepository interface {
	ListTasks(limit int) ([]models.Report, error)
	UpdateTaskStatus(taskID string, collectorID uint, newStatus string, expected []string) (*models.Report, error)
	SaveVerifiedCollection(report *models.Report, collectorID uint, expected []string) (*models.CollectedWaste, error)
}

type collectionRepo struct {
	DB *gorm.DB
}

func NewCollectionRepo(db *GormDB) CollectionRepository {
	return &collectionRepo{db.DB}
}

func (r *collectionRepo) ListTasks(limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&reports).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list tasks")
	}
	return reports, nil
}

// claimTx transitions the report's status with an optimistic check on the
// expected prior statuses and on the holding collector: an unclaimed task is
// open to anyone, a claimed one only advances under the same collector. Zero
// rows affected on an existing task means a concurrent claim won.
func claimTx(tx *gorm.DB, taskID string, collectorID uint, newStatus string, expected []string) (*models.Report, error) {
	result := tx.Model(&models.Report{}).
		Where("id = ? AND status IN ? AND (collector_id IS NULL OR collector_id = ?)",
			taskID, expected, collectorID).
		Updates(map[string]interface{}{
			"status":       newStatus,
			"collector_id": collectorID,
		})
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "gorm.update task status")
	}
	if result.RowsAffected == 0 {
		var report models.Report
		if err := tx.Where("id = ?", taskID).First(&report).Error; err != nil {
			return nil, err
		}
		return nil, ErrTaskConflict
	}

	var report models.Report
	if err := tx.Where("id = ?", taskID).First(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *collectionRepo) UpdateTaskStatus(taskID string, collectorID uint, newStatus string, expected []string) (*models.Report, error) {
	var report *models.Report
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = claimTx(tx, taskID, collectorID, newStatus, expected)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// SaveVerifiedCollection performs the verified-collection writes in one
// transaction: status -> verified, the CollectedWaste record, the collector's
// ledger credit, and the notification.
func (r *collectionRepo) SaveVerifiedCollection(report *models.Report, collectorID uint, expected []string) (*models.CollectedWaste, error) {
	collected := &models.CollectedWaste{
		ID:             uuid.New(),
		ReportID:       report.ID,
		CollectorID:    collectorID,
		CollectionDate: time.Now(),
		Status:         "collected",
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		updated, err := claimTx(tx, report.ID.String(), collectorID, models.ReportStatusVerified, expected)
		if err != nil {
			return err
		}
		*report = *updated

		if err := tx.Create(collected).Error; err != nil {
			return errors.Wrap(err, "gorm.create collected waste")
		}

		err = applyLedgerEntry(tx, collectorID, models.TransactionEarnedCollect,
			CollectPoints, "Points earned for collecting waste")
		if err != nil {
			return err
		}

		notification := models.Notification{
			UserID:  collectorID,
			Message: fmt.Sprintf("You've earned %d points for collecting waste", CollectPoints),
			Type:    models.NotificationTypeCollection,
		}
		if err := tx.Create(&notification).Error; err != nil {
			return errors.Wrap(err, "gorm.create notification")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return collected, nil
}
