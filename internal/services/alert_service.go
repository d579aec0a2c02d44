package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "cardkeeper/internal/errors"
	"cardkeeper/internal/models"
)

// alertService handles notification-alert business logic.
type alertService struct {
	db *gorm.DB
}

// NewAlertService creates a new AlertServicer.
func NewAlertService(db *gorm.DB) AlertServicer {
	return &alertService{db: db}
}

// CreateAlert adds a lead-time alert for the user. Each user may hold at
// most models.MaxAlertsPerUser alerts and no two may share a lead time.
func (s *alertService) CreateAlert(userID uint, hoursBefore int) (*models.NotificationAlert, error) {
	if hoursBefore < 0 || hoursBefore > 24 {
		return nil, apperrors.ErrInvalidLeadTime
	}

	var count int64
	if err := s.db.Model(&models.NotificationAlert{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count >= models.MaxAlertsPerUser {
		return nil, apperrors.ErrTooManyAlerts
	}

	var existing int64
	if err := s.db.Model(&models.NotificationAlert{}).
		Where("user_id = ? AND hours_before = ?", userID, hoursBefore).
		Count(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if existing > 0 {
		return nil, apperrors.ErrDuplicateAlert
	}

	alert := &models.NotificationAlert{UserID: userID, HoursBefore: hoursBefore}
	if err := s.db.Create(alert).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alert, nil
}

// GetUserAlerts returns the user's alerts ordered by lead time, longest
// first.
func (s *alertService) GetUserAlerts(userID uint) ([]models.NotificationAlert, error) {
	var alerts []models.NotificationAlert
	if err := s.db.Where("user_id = ?", userID).
		Order("hours_before desc").
		Find(&alerts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// DeleteAlert removes one of the user's alerts.
func (s *alertService) DeleteAlert(userID, alertID uint) error {
	var alert models.NotificationAlert
	if err := s.db.Where("id = ? AND user_id = ?", alertID, userID).
		First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrAlertNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Hard delete: the unique (user, hours) index spans dead rows too,
	// and a removed lead time must be recreatable.
	if err := s.db.Unscoped().Delete(&alert).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
