package repository

import (
	"time"

	"github.com/izwi-app/izwi/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// ListByCommunity lists all users affiliated with a community
	ListByCommunity(communityID uint64) ([]models.User, error)

	// CountByCommunity counts users affiliated with a community
	CountByCommunity(communityID uint64) (int64, error)

	// ClearCommunity removes a user's community affiliation
	ClearCommunity(userID uint64) error
}

// CommunityRepository defines the interface for community data access
type CommunityRepository interface {
	// CreateWithAdmin creates a community and promotes the admin user's
	// affiliation and role within a single transaction.
	CreateWithAdmin(community *models.Community, adminID uint64) error

	// FindByID finds a community by ID
	FindByID(id uint64) (*models.Community, error)

	// FindByInviteSlug finds a community by its invite slug
	FindByInviteSlug(slug string) (*models.Community, error)

	// FindByName finds a community by its (unique) name
	FindByName(name string) (*models.Community, error)

	// InviteSlugExists reports whether a slug is already taken
	InviteSlugExists(slug string) (bool, error)

	// Update persists changes to a community
	Update(community *models.Community) error
}

// AlertFilter holds listing options for community alert feeds
type AlertFilter struct {
	CommunityID     uint64
	IncludeResolved bool
}

// AlertRepository defines the interface for alert data access
type AlertRepository interface {
	// Create creates a new alert
	Create(alert *models.Alert) error

	// FindByID finds an alert by ID
	FindByID(id uint64) (*models.Alert, error)

	// List retrieves a community's alerts, most recent first, with
	// the reporting user preloaded.
	List(filter AlertFilter) ([]models.Alert, error)

	// MarkResolved sets resolved=true. Already-resolved alerts are
	// left untouched.
	MarkResolved(id uint64) error

	// CountSince counts a community's alerts created at or after the
	// given time (soft monthly limit check).
	CountSince(communityID uint64, since time.Time) (int64, error)

	// CreateReport records a moderation report for an alert
	CreateReport(report *models.AlertReport) error

	// CountReports counts moderation reports filed against an alert
	CountReports(alertID uint64) (int64, error)
}
