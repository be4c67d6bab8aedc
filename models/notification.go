package models

// Notification types written by the workflows.
const (
	NotificationTypeReward     = "reward"
	NotificationTypeCollection = "collection"
	NotificationTypeRedemption = "redemption"
)

// Notification represents notifications sent to users. Append-only; only
// the read flag is ever mutated.
type Notification struct {
	Model
	UserID  uint   `json:"user_id" gorm:"not null;index"`
	Message string `json:"message"`
	Type    string `json:"type"`
	IsRead  bool   `json:"is_read" gorm:"default:false"`
}
