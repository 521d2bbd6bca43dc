package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionPlan string

const (
	PlanFree    SubscriptionPlan = "free"
	PlanPremium SubscriptionPlan = "premium"
)

// Community is a named group of users sharing an alert feed and an
// optional geographic boundary. InviteSlug is globally unique and
// never changes once issued.
type Community struct {
	ID               uint64           `gorm:"primarykey" json:"id"`
	Name             string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	AdminUserID      uint64           `gorm:"not null" json:"admin_user_id"`
	InviteSlug       string           `gorm:"type:varchar(120);uniqueIndex;not null" json:"invite_slug"`
	SubscriptionPlan SubscriptionPlan `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_plan"`
	// BoundaryData holds serialized GeoJSON geometry. It is stored as
	// opaque text and only checked to be parseable JSON.
	BoundaryData      string         `gorm:"type:text" json:"boundary_data,omitempty"`
	MaxMembers        int            `gorm:"not null;default:50" json:"max_members"`
	MaxAlertsPerMonth int            `gorm:"not null;default:100" json:"max_alerts_per_month"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Members []User  `gorm:"foreignKey:CommunityID" json:"members,omitempty"`
	Alerts  []Alert `gorm:"foreignKey:CommunityID" json:"alerts,omitempty"`
}

// HasBoundary reports whether a boundary geometry was stored.
func (c *Community) HasBoundary() bool {
	return c.BoundaryData != ""
}
