package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// User belongs to at most one community at a time. Role is only
// meaningful in the context of that community.
type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Name         string         `gorm:"type:varchar(100)" json:"name"`
	AvatarURL    string         `gorm:"type:varchar(255)" json:"avatar_url"`
	CommunityID  *uint64        `gorm:"index" json:"community_id"`
	Role         UserRole       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Community *Community `gorm:"foreignKey:CommunityID" json:"-"`
	Alerts    []Alert    `gorm:"foreignKey:UserID" json:"-"`
}

// DisplayName falls back to the local part of the email when the user
// never set a name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}

// IsAdminOf reports whether the user administers the given community.
func (u *User) IsAdminOf(communityID uint64) bool {
	return u.Role == RoleAdmin && u.CommunityID != nil && *u.CommunityID == communityID
}
