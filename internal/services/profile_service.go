package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// --- StaffProfile DTOs ---
type CreateStaffProfileRequest struct {
	UserID     int64    `json:"user_id" binding:"required"`
	Bio        *string  `json:"bio" binding:"omitempty,max=4000"`
	Skills     []string `json:"skills" binding:"omitempty,max=50,dive,max=64"`
	Experience *string  `json:"experience" binding:"omitempty,max=4000"`
	Rating     *float64 `json:"rating" binding:"omitempty,min=0,max=5"`
	PayRate    float64  `json:"pay_rate" binding:"required,min=0"`
}

type UpdateStaffProfileRequest struct {
	Bio        *string   `json:"bio" binding:"omitempty,max=4000"`
	Skills     *[]string `json:"skills" binding:"omitempty,max=50,dive,max=64"`
	Experience *string   `json:"experience" binding:"omitempty,max=4000"`
	Rating     *float64  `json:"rating" binding:"omitempty,min=0,max=5"`
	PayRate    *float64  `json:"pay_rate" binding:"omitempty,min=0"`
}

// StaffProfileQuery filters the staff listing.
type StaffProfileQuery struct {
	Skill     *string
	MinRating *float64
}

// --- StaffProfileService Interface ---
type StaffProfileService interface {
	CreateProfile(ctx context.Context, actor Actor, req CreateStaffProfileRequest) (*models.StaffProfile, error)
	GetProfile(ctx context.Context, actor Actor, profileID int64) (*models.StaffProfile, error)
	GetProfileForUser(ctx context.Context, actor Actor, userID int64) (*models.StaffProfile, error)
	ListProfiles(ctx context.Context, actor Actor, q StaffProfileQuery) ([]models.StaffProfile, error)
	UpdateProfile(ctx context.Context, actor Actor, profileID int64, req UpdateStaffProfileRequest) (*models.StaffProfile, error)
	DeleteProfile(ctx context.Context, actor Actor, profileID int64) error
}

type staffProfileService struct {
	store repositories.Store
}

// NewStaffProfileService creates a new instance of StaffProfileService.
func NewStaffProfileService(store repositories.Store) StaffProfileService {
	return &staffProfileService{store: store}
}

// normalizeSkills trims entries and drops blanks and case-insensitive repeats,
// keeping the first spelling.
func normalizeSkills(skills []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, s := range skills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func roundedRating(r *float64) *float64 {
	if r == nil {
		return nil
	}
	v := models.RoundTo2(*r)
	return &v
}

// withUser joins the account so listings show who the profile belongs to.
func (s *staffProfileService) withUser(ctx context.Context, profile *models.StaffProfile) error {
	user, err := s.store.Users().FindByID(ctx, profile.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user for staff profile: %w", err)
	}
	profile.User = user
	return nil
}

func (s *staffProfileService) CreateProfile(ctx context.Context, actor Actor, req CreateStaffProfileRequest) (*models.StaffProfile, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.store.Users().FindByID(ctx, req.UserID)
	if err != nil {
		return nil, notFoundAs(err, invalidField("user_id", "does not reference an existing user"), "get user for staff profile")
	}
	if !strings.EqualFold(user.Role, models.RoleStaff) {
		return nil, invalidField("user_id", "must reference a staff account")
	}

	profile := &models.StaffProfile{
		UserID:     user.ID,
		Bio:        utils.TrimmedPtr(req.Bio),
		Skills:     normalizeSkills(req.Skills),
		Experience: utils.TrimmedPtr(req.Experience),
		Rating:     roundedRating(req.Rating),
		PayRate:    models.RoundTo2(req.PayRate),
	}
	if err := s.store.Profiles().Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create staff profile: %w", err)
	}
	profile.User = user
	utils.LogInfo("Staff profile created", map[string]interface{}{"profile_id": profile.ID, "user_id": user.ID, "by": actor.UserID})
	return profile, nil
}

// GetProfile returns any profile to managers and only their own to staff.
func (s *staffProfileService) GetProfile(ctx context.Context, actor Actor, profileID int64) (*models.StaffProfile, error) {
	profile, err := s.store.Profiles().FindByID(ctx, profileID)
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound, "get staff profile")
	}
	if !actor.IsManager() && !actor.Owns(profile.UserID) {
		return nil, ErrForbidden
	}
	if err := s.withUser(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *staffProfileService) GetProfileForUser(ctx context.Context, actor Actor, userID int64) (*models.StaffProfile, error) {
	if !actor.IsManager() && !actor.Owns(userID) {
		return nil, ErrForbidden
	}
	profile, err := s.store.Profiles().FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound, "get staff profile by user")
	}
	if err := s.withUser(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *staffProfileService) ListProfiles(ctx context.Context, actor Actor, q StaffProfileQuery) ([]models.StaffProfile, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	filters := models.StaffProfileFilters{}
	if q.Skill != nil {
		skill := strings.TrimSpace(*q.Skill)
		filters.Skill = &skill
	}
	if q.MinRating != nil {
		if *q.MinRating < 0 || *q.MinRating > 5 {
			return nil, invalidField("min_rating", "must be between 0 and 5")
		}
		filters.MinRating = q.MinRating
	}

	profiles, err := s.store.Profiles().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff profiles: %w", err)
	}
	for i := range profiles {
		if err := s.withUser(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (s *staffProfileService) UpdateProfile(ctx context.Context, actor Actor, profileID int64, req UpdateStaffProfileRequest) (*models.StaffProfile, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	profile, err := s.store.Profiles().FindByID(ctx, profileID)
	if err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound, "get staff profile for update")
	}
	if req.Bio != nil {
		profile.Bio = utils.TrimmedPtr(req.Bio)
	}
	if req.Skills != nil {
		profile.Skills = normalizeSkills(*req.Skills)
	}
	if req.Experience != nil {
		profile.Experience = utils.TrimmedPtr(req.Experience)
	}
	if req.Rating != nil {
		profile.Rating = roundedRating(req.Rating)
	}
	if req.PayRate != nil {
		profile.PayRate = models.RoundTo2(*req.PayRate)
	}

	if err := s.store.Profiles().Update(ctx, profile); err != nil {
		return nil, notFoundAs(err, ErrProfileNotFound, "update staff profile")
	}
	if err := s.withUser(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *staffProfileService) DeleteProfile(ctx context.Context, actor Actor, profileID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Profiles().Delete(ctx, profileID); err != nil {
		return notFoundAs(err, ErrProfileNotFound, "delete staff profile")
	}
	utils.LogInfo("Staff profile deleted", map[string]interface{}{"profile_id": profileID, "by": actor.UserID})
	return nil
}
