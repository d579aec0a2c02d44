package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cardkeeper/internal/civil"
	"cardkeeper/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCard creates a card due on the given day with email
// notifications enabled.
func CreateTestCard(t *testing.T, db *gorm.DB, userID uint, dueDay int) *models.CreditCard {
	t.Helper()

	card := &models.CreditCard{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Card %d", nextID()),
		DueDay:      dueDay,
		NotifyEmail: true,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test card: %v", err)
	}
	return card
}

// CreateTestAlert creates a notification alert with the given lead time.
func CreateTestAlert(t *testing.T, db *gorm.DB, userID uint, hoursBefore int) *models.NotificationAlert {
	t.Helper()

	alert := &models.NotificationAlert{
		UserID:      userID,
		HoursBefore: hoursBefore,
	}
	if err := db.Create(alert).Error; err != nil {
		t.Fatalf("failed to create test alert: %v", err)
	}
	return alert
}

// CreateTestShare shares a card with the given viewer.
func CreateTestShare(t *testing.T, db *gorm.DB, cardID, viewerID uint) *models.CardShare {
	t.Helper()

	share := &models.CardShare{
		CreditCardID: cardID,
		UserID:       viewerID,
	}
	if err := db.Create(share).Error; err != nil {
		t.Fatalf("failed to create test share: %v", err)
	}
	return share
}

// CreateTestLog records a sent notification for the given card and cycle.
func CreateTestLog(t *testing.T, db *gorm.DB, cardID uint, hoursBefore int, dueDate civil.Date) *models.NotificationLog {
	t.Helper()

	entry := &models.NotificationLog{
		CreditCardID:     cardID,
		AlertHoursBefore: hoursBefore,
		DueDate:          dueDate,
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test notification log: %v", err)
	}
	return entry
}
