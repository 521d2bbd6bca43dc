package repository

import (
	"errors"
	"fmt"

	"github.com/izwi-app/izwi/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrCreateCommunity is returned when creating the community row fails inside the creation transaction.
	ErrCreateCommunity = errors.New("community repository: create community failed")
	// ErrPromoteAdmin is returned when updating the admin user fails inside the creation transaction.
	ErrPromoteAdmin = errors.New("community repository: promote admin failed")
)

// GormCommunityRepository is a GORM implementation of CommunityRepository
type GormCommunityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository creates a new CommunityRepository
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &GormCommunityRepository{db: db}
}

// CreateWithAdmin creates the community and moves the creating user
// into it as admin atomically, so the admin reference always resolves
// to a user affiliated with this community.
func (r *GormCommunityRepository) CreateWithAdmin(community *models.Community, adminID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		community.AdminUserID = adminID

		if err := tx.Create(community).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateCommunity, err)
		}

		err := tx.Model(&models.User{}).
			Where("id = ?", adminID).
			Updates(map[string]interface{}{
				"community_id": community.ID,
				"role":         models.RoleAdmin,
			}).Error
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPromoteAdmin, err)
		}

		return nil
	})
}

// FindByID finds a community by ID
func (r *GormCommunityRepository) FindByID(id uint64) (*models.Community, error) {
	var community models.Community
	if err := r.db.First(&community, id).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// FindByInviteSlug finds a community by its invite slug
func (r *GormCommunityRepository) FindByInviteSlug(slug string) (*models.Community, error) {
	var community models.Community
	if err := r.db.Where("invite_slug = ?", slug).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// FindByName finds a community by its name
func (r *GormCommunityRepository) FindByName(name string) (*models.Community, error) {
	var community models.Community
	if err := r.db.Where("name = ?", name).First(&community).Error; err != nil {
		return nil, err
	}
	return &community, nil
}

// InviteSlugExists reports whether a slug is already taken
func (r *GormCommunityRepository) InviteSlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Community{}).
		Where("invite_slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

// Update persists changes to a community
func (r *GormCommunityRepository) Update(community *models.Community) error {
	return r.db.Save(community).Error
}
