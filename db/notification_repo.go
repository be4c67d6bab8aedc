package db

import (
	"github.com/greenloophq/greenloop/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ListUnread(userID uint) ([]models.Notification, error)
	MarkRead(userID, notificationID uint) error
}

type notificationRepo struct {
	DB *gorm.DB
}

func NewNotificationRepo(db *GormDB) NotificationRepository {
	return &notificationRepo{db.DB}
}

func (r *notificationRepo) CreateNotification(notification *models.Notification) error {
	notification.IsRead = false
	err := r.DB.Create(notification).Error
	return errors.Wrap(err, "gorm.create notification")
}

func (r *notificationRepo) ListUnread(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.DB.Where("user_id = ? AND is_read = ?", userID, false).
		Order("created_at DESC").Find(&notifications).Error
	if err != nil {
		return nil, errors.Wrap(err, "gorm.list unread notifications")
	}
	return notifications, nil
}

// MarkRead is idempotent: marking a read or missing notification is a no-op.
// Scoped to the owner so users cannot touch each other's notifications.
func (r *notificationRepo) MarkRead(userID, notificationID uint) error {
	err := r.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
	return errors.Wrap(err, "gorm.mark notification read")
}
