package repository

import (
	"time"

	"github.com/izwi-app/izwi/internal/models"
	"gorm.io/gorm"
)

// GormAlertRepository is a GORM implementation of AlertRepository
type GormAlertRepository struct {
	db *gorm.DB
}

// NewAlertRepository creates a new AlertRepository
func NewAlertRepository(db *gorm.DB) AlertRepository {
	return &GormAlertRepository{db: db}
}

// Create creates a new alert
func (r *GormAlertRepository) Create(alert *models.Alert) error {
	return r.db.Create(alert).Error
}

// FindByID finds an alert by ID
func (r *GormAlertRepository) FindByID(id uint64) (*models.Alert, error) {
	var alert models.Alert
	if err := r.db.First(&alert, id).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

// List retrieves a community's alerts, most recent first
func (r *GormAlertRepository) List(filter AlertFilter) ([]models.Alert, error) {
	query := r.db.Model(&models.Alert{}).
		Where("alerts.community_id = ?", filter.CommunityID)

	if !filter.IncludeResolved {
		query = query.Where("alerts.resolved = ?", false)
	}

	var alerts []models.Alert
	if err := query.Order("alerts.created_at DESC").
		Preload("User").
		Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// MarkResolved sets resolved=true. The guarded update makes a second
// resolve a no-op rather than an error.
func (r *GormAlertRepository) MarkResolved(id uint64) error {
	return r.db.Model(&models.Alert{}).
		Where("id = ? AND resolved = ?", id, false).
		Update("resolved", true).Error
}

// CountSince counts a community's alerts created at or after the given time
func (r *GormAlertRepository) CountSince(communityID uint64, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Alert{}).
		Where("community_id = ? AND created_at >= ?", communityID, since).
		Count(&count).Error
	return count, err
}

// CreateReport records a moderation report for an alert
func (r *GormAlertRepository) CreateReport(report *models.AlertReport) error {
	return r.db.Create(report).Error
}

// CountReports counts moderation reports filed against an alert
func (r *GormAlertRepository) CountReports(alertID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.AlertReport{}).
		Where("alert_id = ?", alertID).
		Count(&count).Error
	return count, err
}
