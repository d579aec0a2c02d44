package testutil_test

import (
	"testing"

	"cardkeeper/internal/civil"
	"cardkeeper/internal/errors"
	"cardkeeper/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "credit_cards", "card_shares", "notification_alerts", "notification_logs", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	card := testutil.CreateTestCard(t, db, user.ID, 15)
	if card.DueDay != 15 {
		t.Errorf("expected due day 15, got %d", card.DueDay)
	}
	if !card.NotifyEmail {
		t.Error("expected email notifications enabled by default")
	}

	alert := testutil.CreateTestAlert(t, db, user.ID, 24)
	if alert.HoursBefore != 24 {
		t.Errorf("expected 24 hours before, got %d", alert.HoursBefore)
	}

	viewer := testutil.CreateTestUser(t, db)
	share := testutil.CreateTestShare(t, db, card.ID, viewer.ID)
	if share.ID == 0 {
		t.Fatal("share should have a non-zero ID")
	}

	due := civil.Date{Year: 2026, Month: 1, Day: 15}
	entry := testutil.CreateTestLog(t, db, card.ID, 24, due)
	if entry.DueDate != due {
		t.Errorf("expected due date %s, got %s", due, entry.DueDate)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrCardNotFound, "custom message")
	testutil.AssertAppError(t, err, "CARD_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
