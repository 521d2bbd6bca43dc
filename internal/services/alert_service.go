package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/moderation"
	"github.com/izwi-app/izwi/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAlertFieldsRequired = errors.New("category and description are required")
	ErrInvalidCategory     = errors.New("invalid alert category")
	ErrDescriptionTooLong  = errors.New("description must be less than 500 characters")
	ErrAlertNotFound       = errors.New("alert not found")
	ErrNotAlertCommunity   = errors.New("alert belongs to a different community")
	ErrMonthlyAlertLimit   = errors.New("community has reached its monthly alert limit")
	ErrFailedToCreateAlert = errors.New("failed to create alert")
	ErrFailedToReportAlert = errors.New("failed to submit report")
)

// AlertService handles alert business logic.
type AlertService struct {
	alertRepo     repository.AlertRepository
	communityRepo repository.CommunityRepository
	moderator     *moderation.Notifier
}

// NewAlertService creates a new AlertService. The moderation notifier
// is optional; without it reports are persisted but not fanned out.
func NewAlertService(alertRepo repository.AlertRepository, communityRepo repository.CommunityRepository, moderator *moderation.Notifier) *AlertService {
	return &AlertService{
		alertRepo:     alertRepo,
		communityRepo: communityRepo,
		moderator:     moderator,
	}
}

// PostAlertInput represents input for posting an alert. Latitude and
// Longitude arrive as raw form values and are coerced.
type PostAlertInput struct {
	CommunityID uint64
	UserID      uint64
	Category    string
	Description string
	Latitude    string
	Longitude   string
}

// PostAlert validates and persists a new alert. Invalid categories
// are rejected outright rather than stored with a fallback.
func (s *AlertService) PostAlert(input PostAlertInput) (*models.Alert, error) {
	category := models.AlertCategory(strings.TrimSpace(input.Category))
	description := strings.TrimSpace(input.Description)

	if category == "" || description == "" {
		return nil, ErrAlertFieldsRequired
	}
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}
	if len(description) > constants.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	community, err := s.communityRepo.FindByID(input.CommunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}

	if community.MaxAlertsPerMonth > 0 {
		monthStart := startOfMonth(time.Now())
		count, err := s.alertRepo.CountSince(community.ID, monthStart)
		if err != nil {
			return nil, fmt.Errorf("failed to count alerts: %w", err)
		}
		if count >= int64(community.MaxAlertsPerMonth) {
			return nil, ErrMonthlyAlertLimit
		}
	}

	alert := &models.Alert{
		CommunityID: input.CommunityID,
		UserID:      input.UserID,
		Category:    category,
		Description: description,
		Latitude:    parseCoordinate(input.Latitude),
		Longitude:   parseCoordinate(input.Longitude),
		Resolved:    false,
	}

	if err := s.alertRepo.Create(alert); err != nil {
		return nil, ErrFailedToCreateAlert
	}

	return alert, nil
}

// ListAlerts returns a community's unresolved alerts, most recent
// first, with the reporting user preloaded.
func (s *AlertService) ListAlerts(communityID uint64) ([]models.Alert, error) {
	alerts, err := s.alertRepo.List(repository.AlertFilter{
		CommunityID: communityID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// ResolveAlert marks an alert resolved. Any member of the alert's
// community may resolve; resolving twice is a no-op.
func (s *AlertService) ResolveAlert(actor *models.User, alertID uint64) error {
	alert, err := s.alertRepo.FindByID(alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return fmt.Errorf("failed to find alert: %w", err)
	}

	if actor.CommunityID == nil || *actor.CommunityID != alert.CommunityID {
		return ErrNotAlertCommunity
	}

	if alert.Resolved {
		return nil
	}

	if err := s.alertRepo.MarkResolved(alertID); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}

	return nil
}

// ReportAlert records a moderation flag against an alert and hands it
// to the moderation notifier. The alert itself stays visible.
func (s *AlertService) ReportAlert(reporter *models.User, alertID uint64) error {
	alert, err := s.alertRepo.FindByID(alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return fmt.Errorf("failed to find alert: %w", err)
	}

	report := &models.AlertReport{
		AlertID:    alert.ID,
		ReporterID: reporter.ID,
	}
	if err := s.alertRepo.CreateReport(report); err != nil {
		return ErrFailedToReportAlert
	}

	if s.moderator != nil {
		s.moderator.Submit(moderation.Report{
			AlertID:       alert.ID,
			CommunityID:   alert.CommunityID,
			ReporterID:    reporter.ID,
			ReporterEmail: reporter.Email,
			Description:   alert.Description,
		})
	}

	return nil
}

// parseCoordinate coerces a raw form value to a float, falling back
// to the 0 placeholder on anything unparseable.
func parseCoordinate(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
