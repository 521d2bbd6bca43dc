package models

import (
	"time"
)

type AlertCategory string

const (
	CategoryEmergency AlertCategory = "Emergency"
	CategoryFire      AlertCategory = "Fire"
	CategoryTraffic   AlertCategory = "Traffic"
	CategoryWeather   AlertCategory = "Weather"
	CategoryCommunity AlertCategory = "Community"
	CategoryOther     AlertCategory = "Other"
)

// AlertCategories lists every valid category in display order.
var AlertCategories = []AlertCategory{
	CategoryEmergency,
	CategoryFire,
	CategoryTraffic,
	CategoryWeather,
	CategoryCommunity,
	CategoryOther,
}

// Valid reports whether the category is one of the fixed enumeration.
func (c AlertCategory) Valid() bool {
	switch c {
	case CategoryEmergency, CategoryFire, CategoryTraffic,
		CategoryWeather, CategoryCommunity, CategoryOther:
		return true
	}
	return false
}

// Color returns the marker color for the category. Unrecognized
// values get the generic gray treatment.
func (c AlertCategory) Color() string {
	switch c {
	case CategoryEmergency:
		return "#DC2626"
	case CategoryFire:
		return "#EA580C"
	case CategoryTraffic:
		return "#2563EB"
	case CategoryWeather:
		return "#7C3AED"
	case CategoryCommunity:
		return "#059669"
	default:
		return "#6B7280"
	}
}

// Icon returns the emoji glyph for the category, with a fallback for
// unrecognized values.
func (c AlertCategory) Icon() string {
	switch c {
	case CategoryEmergency:
		return "🚨"
	case CategoryFire:
		return "🔥"
	case CategoryTraffic:
		return "🚗"
	case CategoryWeather:
		return "⛈️"
	case CategoryCommunity:
		return "🏘️"
	default:
		return "❗"
	}
}

// Alert is a categorized, geolocated, timestamped report scoped to one
// community. Latitude and longitude default to the (0,0) placeholder
// when the reporter did not pick a location.
type Alert struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	CommunityID uint64        `gorm:"not null;index" json:"community_id"`
	UserID      uint64        `gorm:"not null;index" json:"user_id"`
	Category    AlertCategory `gorm:"type:varchar(50);not null" json:"category"`
	Description string        `gorm:"type:text;not null" json:"description"`
	Latitude    float64       `gorm:"not null;default:0" json:"latitude"`
	Longitude   float64       `gorm:"not null;default:0" json:"longitude"`
	Resolved    bool          `gorm:"not null;default:false" json:"resolved"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Community Community `gorm:"foreignKey:CommunityID" json:"-"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
}

// HasLocation reports whether the alert carries a real coordinate
// rather than the default placeholder.
func (a *Alert) HasLocation() bool {
	return a.Latitude != 0 || a.Longitude != 0
}
