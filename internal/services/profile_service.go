package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/krishisaarathi/backend/internal/models"
	"github.com/krishisaarathi/backend/internal/repositories"
)

// UserProfileRepository is the interface that wraps methods for UserProfiles table data access
type UserProfileRepository interface {
	// Method GetByUserID retrieves the profile owned by a user.
	//
	// If the user has no profile, repositories.ErrProfileNotFound will be returned.
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfile, error)
	// Method Upsert creates the profile of profile.UserID or replaces all of its fields.
	Upsert(ctx context.Context, profile *models.UserProfile) error
}

// UserLookup retrieves users by ID
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

type profileService struct {
	profileRepo UserProfileRepository
	users       UserLookup
}

// NewProfileService creates a new profile service
func NewProfileService(profileRepo UserProfileRepository, users UserLookup) *profileService {
	return &profileService{
		profileRepo: profileRepo,
		users:       users,
	}
}

// GetProfile retrieves the profile of a user
func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if errors.Is(err, repositories.ErrProfileNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// UpsertProfile creates or replaces the profile of an existing user
func (s *profileService) UpsertProfile(ctx context.Context, userID int64, req *models.UpsertProfileRequest) (*models.UserProfile, error) {
	if len(req.AdditionalInfo) > 0 && !json.Valid(req.AdditionalInfo) {
		return nil, ErrInvalidProfile
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := &models.UserProfile{
		UserID:          userID,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		Pincode:         req.Pincode,
		ProfileImageURL: req.ProfileImageURL,
		AdditionalInfo:  req.AdditionalInfo,
	}
	// A JSON null payload clears the column
	if string(profile.AdditionalInfo) == "null" {
		profile.AdditionalInfo = nil
	}

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	return s.GetProfile(ctx, userID)
}
