package models

import "time"

// AlertReport flags an alert for moderation review. Reporting never
// deletes or hides the alert; it only records the flag.
type AlertReport struct {
	ID         uint64    `gorm:"primarykey" json:"id"`
	AlertID    uint64    `gorm:"not null;index" json:"alert_id"`
	ReporterID uint64    `gorm:"not null" json:"reporter_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Alert    Alert `gorm:"foreignKey:AlertID" json:"-"`
	Reporter User  `gorm:"foreignKey:ReporterID" json:"-"`
}
