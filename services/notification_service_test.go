package services

import (
	"testing"

	"github.com/greenloophq/greenloop/db"
	"github.com/greenloophq/greenloop/models"
)

func newNotificationFixture(t *testing.T) (*db.GormDB, NotificationService, *models.User) {
	t.Helper()
	gdb := newTestDB(t)
	svc := NewNotificationService(db.NewNotificationRepo(gdb), testConfig())
	user := createTestUser(t, gdb, "notify@example.com")
	return gdb, svc, user
}

func TestNotifyAndListUnread(t *testing.T) {
	_, svc, user := newNotificationFixture(t)

	if err := svc.Notify(user.ID, "You've earned 10 points", models.NotificationTypeReward); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if err := svc.Notify(user.ID, "Collection verified", models.NotificationTypeCollection); err != nil {
		t.Fatalf("notify: %v", err)
	}

	unread, err := svc.ListUnread(user.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 2 {
		t.Fatalf("expected 2 unread notifications, got %d", len(unread))
	}
}

func TestMarkRead(t *testing.T) {
	gdb, svc, user := newNotificationFixture(t)

	if err := svc.Notify(user.ID, "You've earned 10 points", models.NotificationTypeReward); err != nil {
		t.Fatalf("notify: %v", err)
	}
	unread, err := svc.ListUnread(user.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}

	if err := svc.MarkRead(user.ID, unread[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	unread, err = svc.ListUnread(user.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 0 {
		t.Fatalf("expected no unread notifications, got %d", len(unread))
	}

	// Marking again, or marking a missing id, is a no-op.
	if err := svc.MarkRead(user.ID, 1); err != nil {
		t.Fatalf("mark read twice: %v", err)
	}
	if err := svc.MarkRead(user.ID, 99999); err != nil {
		t.Fatalf("mark read missing: %v", err)
	}

	// A notification can only be marked read by its owner.
	other := createTestUser(t, gdb, "other@example.com")
	if err := svc.Notify(other.ID, "hello", models.NotificationTypeReward); err != nil {
		t.Fatalf("notify: %v", err)
	}
	theirs, err := svc.ListUnread(other.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if err := svc.MarkRead(user.ID, theirs[0].ID); err != nil {
		t.Fatalf("cross-user mark read: %v", err)
	}
	theirs, err = svc.ListUnread(other.ID)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(theirs) != 1 {
		t.Fatal("expected cross-user mark read to be a no-op")
	}
}
