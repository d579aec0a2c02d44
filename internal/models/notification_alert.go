package models

// MaxAlertsPerUser caps how many reminder alerts one user may configure.
const MaxAlertsPerUser = 5

// NotificationAlert is one reminder lead time for a user: a notification
// fires HoursBefore hours ahead of the 17:00 deadline of each unpaid
// cycle. A user may not hold two alerts with the same lead time.
type NotificationAlert struct {
	Base
	UserID      uint `gorm:"not null;uniqueIndex:idx_alerts_user_hours" json:"user_id"`
	HoursBefore int  `gorm:"not null;uniqueIndex:idx_alerts_user_hours" json:"hours_before"`
}
