package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/izwi-app/izwi/internal/constants"
	"github.com/izwi-app/izwi/internal/models"
	"github.com/izwi-app/izwi/internal/repository"
	"github.com/izwi-app/izwi/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrCommunityNameRequired = errors.New("community name is required")
	ErrCommunityNameTooLong  = errors.New("community name must be less than 100 characters")
	ErrCommunityNameTaken    = errors.New("a community with this name already exists")
	ErrCommunityNotFound     = errors.New("community not found")
	ErrInvalidInviteSlug     = errors.New("invalid invite link")
	ErrSlugGenerationFailed  = errors.New("failed to generate invite slug")
	ErrNotCommunityAdmin     = errors.New("admin access required")
	ErrMemberNotFound        = errors.New("member not found")
	ErrCannotRemoveYourself  = errors.New("cannot remove yourself from the community")
	ErrCommunityFull         = errors.New("community has reached its member limit")
	ErrInvalidBoundaryData   = errors.New("invalid boundary data format")
)

// slugAttempts bounds the collision retries on invite slug generation.
const slugAttempts = 5

// CommunityService provides business logic for community operations.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
}

// NewCommunityService creates a new CommunityService.
func NewCommunityService(communityRepo repository.CommunityRepository, userRepo repository.UserRepository) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

// CreateCommunityInput represents parameters to create a new community.
type CreateCommunityInput struct {
	Name         string
	AdminUserID  uint64
	BoundaryData string
}

// CreateCommunity creates a community with a unique invite slug and
// makes the creating user its admin.
func (s *CommunityService) CreateCommunity(input CreateCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCommunityNameRequired
	}
	if len(name) > constants.MaxCommunityNameLength {
		return nil, ErrCommunityNameTooLong
	}

	if _, err := s.communityRepo.FindByName(name); err == nil {
		return nil, ErrCommunityNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check community name: %w", err)
	}

	boundary, err := normalizeBoundary(input.BoundaryData)
	if err != nil {
		return nil, err
	}

	slug, err := s.generateUniqueSlug(name)
	if err != nil {
		return nil, err
	}

	community := &models.Community{
		Name:              name,
		InviteSlug:        slug,
		SubscriptionPlan:  models.PlanFree,
		BoundaryData:      boundary,
		MaxMembers:        constants.DefaultMaxMembers,
		MaxAlertsPerMonth: constants.DefaultMaxAlertsPerMonth,
	}

	if err := s.communityRepo.CreateWithAdmin(community, input.AdminUserID); err != nil {
		return nil, fmt.Errorf("failed to create community: %w", err)
	}

	return community, nil
}

// FindByInviteSlug resolves an invite slug to its community.
func (s *CommunityService) FindByInviteSlug(slug string) (*models.Community, error) {
	community, err := s.communityRepo.FindByInviteSlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidInviteSlug
		}
		return nil, fmt.Errorf("failed to find community by slug: %w", err)
	}
	return community, nil
}

// GetCommunity retrieves a community by ID.
func (s *CommunityService) GetCommunity(id uint64) (*models.Community, error) {
	community, err := s.communityRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("failed to find community: %w", err)
	}
	return community, nil
}

// HasCapacity reports whether the community can take another member
// under its soft limit. Every path that affiliates a user, joining by
// slug and signing up through an invite alike, checks this.
func (s *CommunityService) HasCapacity(communityID uint64) (bool, error) {
	community, err := s.GetCommunity(communityID)
	if err != nil {
		return false, err
	}
	if community.MaxMembers <= 0 {
		return true, nil
	}

	count, err := s.userRepo.CountByCommunity(community.ID)
	if err != nil {
		return false, fmt.Errorf("failed to count members: %w", err)
	}
	return count < int64(community.MaxMembers), nil
}

// JoinCommunity affiliates a user with the community behind an invite
// slug, always as a member. Joining supersedes any prior affiliation:
// a user belongs to exactly one community at a time.
func (s *CommunityService) JoinCommunity(slug string, userID uint64) (*models.Community, error) {
	community, err := s.FindByInviteSlug(slug)
	if err != nil {
		return nil, err
	}

	hasCapacity, err := s.HasCapacity(community.ID)
	if err != nil {
		return nil, err
	}
	if !hasCapacity {
		return nil, ErrCommunityFull
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user.CommunityID = &community.ID
	user.Role = models.RoleMember

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to join community: %w", err)
	}

	return community, nil
}

// ListMembers returns all users affiliated with the community.
func (s *CommunityService) ListMembers(communityID uint64) ([]models.User, error) {
	members, err := s.userRepo.ListByCommunity(communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// RemoveMember clears the target's affiliation. Only the community
// admin may remove members, and not themselves.
func (s *CommunityService) RemoveMember(actor *models.User, targetID uint64) error {
	if actor.CommunityID == nil || actor.Role != models.RoleAdmin {
		return ErrNotCommunityAdmin
	}
	if actor.ID == targetID {
		return ErrCannotRemoveYourself
	}

	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to find member: %w", err)
	}

	if target.CommunityID == nil || *target.CommunityID != *actor.CommunityID {
		return ErrMemberNotFound
	}

	if err := s.userRepo.ClearCommunity(targetID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

// UpdateName renames the community. Admin only; the new name must be
// unique like at creation.
func (s *CommunityService) UpdateName(actor *models.User, communityID uint64, name string) (*models.Community, error) {
	if !actor.IsAdminOf(communityID) {
		return nil, ErrNotCommunityAdmin
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCommunityNameRequired
	}
	if len(name) > constants.MaxCommunityNameLength {
		return nil, ErrCommunityNameTooLong
	}

	if existing, err := s.communityRepo.FindByName(name); err == nil && existing.ID != communityID {
		return nil, ErrCommunityNameTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check community name: %w", err)
	}

	community, err := s.GetCommunity(communityID)
	if err != nil {
		return nil, err
	}

	community.Name = name
	if err := s.communityRepo.Update(community); err != nil {
		return nil, fmt.Errorf("failed to update community: %w", err)
	}

	return community, nil
}

// UpdateBoundary replaces the community's boundary geometry. Admin
// only. Concurrent edits are last-write-wins.
func (s *CommunityService) UpdateBoundary(actor *models.User, communityID uint64, boundaryData string) (*models.Community, error) {
	if !actor.IsAdminOf(communityID) {
		return nil, ErrNotCommunityAdmin
	}

	boundary, err := normalizeBoundary(boundaryData)
	if err != nil {
		return nil, err
	}

	community, err := s.GetCommunity(communityID)
	if err != nil {
		return nil, err
	}

	community.BoundaryData = boundary
	if err := s.communityRepo.Update(community); err != nil {
		return nil, fmt.Errorf("failed to update boundary: %w", err)
	}

	return community, nil
}

func (s *CommunityService) generateUniqueSlug(name string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		slug, err := utils.GenerateInviteSlug(name)
		if err != nil {
			return "", ErrSlugGenerationFailed
		}

		taken, err := s.communityRepo.InviteSlugExists(slug)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return slug, nil
		}
	}
	return "", ErrSlugGenerationFailed
}

// normalizeBoundary checks that boundary data is parseable JSON and
// re-serializes it into a canonical compact form. Geometric
// well-formedness is not validated.
func normalizeBoundary(data string) (string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return "", nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(data), &parsed); err != nil {
		return "", ErrInvalidBoundaryData
	}

	clean, err := json.Marshal(parsed)
	if err != nil {
		return "", ErrInvalidBoundaryData
	}
	return string(clean), nil
}
