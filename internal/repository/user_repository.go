package repository

import (
	"github.com/izwi-app/izwi/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update persists changes to a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ListByCommunity lists all users affiliated with a community
func (r *GormUserRepository) ListByCommunity(communityID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("community_id = ?", communityID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// CountByCommunity counts users affiliated with a community
func (r *GormUserRepository) CountByCommunity(communityID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("community_id = ?", communityID).
		Count(&count).Error
	return count, err
}

// ClearCommunity removes a user's community affiliation. Role is reset
// to member since roles are only meaningful inside a community.
func (r *GormUserRepository) ClearCommunity(userID uint64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"community_id": nil,
			"role":         models.RoleMember,
		}).Error
}
