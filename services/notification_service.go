package services

import (
	"github.com/greenloophq/greenloop/config"
	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/models"
)

type NotificationService interface {
	Notify(userID uint, message string, notificationType string) error
	ListUnread(userID uint) ([]models.Notification, error)
	MarkRead(userID, notificationID uint) error
}

type notificationService struct {
	Config           *config.Config
	notificationRepo db.NotificationRepository
}

func NewNotificationService(notificationRepo db.NotificationRepository, conf *config.Config) NotificationService {
	return &notificationService{
		Config:           conf,
		notificationRepo: notificationRepo,
	}
}

func (s *notificationService) Notify(userID uint, message string, notificationType string) error {
	return s.notificationRepo.CreateNotification(&models.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
	})
}

func (s *notificationService) ListUnread(userID uint) ([]models.Notification, error) {
	return s.notificationRepo.ListUnread(userID)
}

func (s *notificationService) MarkRead(userID, notificationID uint) error {
	return s.notificationRepo.MarkRead(userID, notificationID)
}
