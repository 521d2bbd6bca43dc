package dto

import (
	"time"

	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/utils"
)

// UserDTO represents a user in API responses and templates
type UserDTO struct {
	ID        uint64          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	Role      models.UserRole `json:"role"`
}

// CommunityDTO represents a community in API responses and templates
type CommunityDTO struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	InviteSlug string `json:"invite_slug,omitempty"`
}

// MemberDTO represents a community member row on the settings page
type MemberDTO struct {
	UserDTO
	IsAdmin  bool      `json:"is_admin"`
	JoinedAt time.Time `json:"joined_at"`
}

// AlertDTO represents an alert in the feed, enriched with the display
// fields the templates need.
type AlertDTO struct {
	ID          uint64               `json:"id"`
	Category    models.AlertCategory `json:"category"`
	Icon        string               `json:"icon"`
	Color       string               `json:"color"`
	Description string               `json:"description"`
	Latitude    float64              `json:"latitude"`
	Longitude   float64              `json:"longitude"`
	HasLocation bool                 `json:"has_location"`
	Resolved    bool                 `json:"resolved"`
	AuthorName  string               `json:"author_name"`
	CreatedAt   time.Time            `json:"created_at"`
	TimeAgo     string               `json:"time_ago"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.DisplayName(),
		AvatarURL: user.AvatarURL,
		Role:      user.Role,
	}
}

// ToCommunityDTO converts a Community model to CommunityDTO. The
// invite slug is only exposed to community admins.
func ToCommunityDTO(community models.Community, includeInviteSlug bool) CommunityDTO {
	dto := CommunityDTO{
		ID:   community.ID,
		Name: community.Name,
	}
	if includeInviteSlug {
		dto.InviteSlug = community.InviteSlug
	}
	return dto
}

// ToMemberDTO converts a member to the settings-page row
func ToMemberDTO(user models.User, adminUserID uint64) MemberDTO {
	return MemberDTO{
		UserDTO:  ToUserDTO(user),
		IsAdmin:  user.ID == adminUserID,
		JoinedAt: user.UpdatedAt,
	}
}

// ToAlertDTO converts an Alert model to AlertDTO
func ToAlertDTO(alert models.Alert) AlertDTO {
	return AlertDTO{
		ID:          alert.ID,
		Category:    alert.Category,
		Icon:        alert.Category.Icon(),
		Color:       alert.Category.Color(),
		Description: alert.Description,
		Latitude:    alert.Latitude,
		Longitude:   alert.Longitude,
		HasLocation: alert.HasLocation(),
		Resolved:    alert.Resolved,
		AuthorName:  alert.User.DisplayName(),
		CreatedAt:   alert.CreatedAt,
		TimeAgo:     utils.FormatTimeAgo(alert.CreatedAt),
	}
}

// ToAlertDTOs converts a slice of alerts preserving order
func ToAlertDTOs(alerts []models.Alert) []AlertDTO {
	dtos := make([]AlertDTO, len(alerts))
	for i, alert := range alerts {
		dtos[i] = ToAlertDTO(alert)
	}
	return dtos
}
