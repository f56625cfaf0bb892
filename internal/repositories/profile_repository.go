package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type staffProfileRepository struct {
	db *gorm.DB
}

func (r *staffProfileRepository) Create(ctx context.Context, profile *models.StaffProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return translateError(err, "creating staff profile")
	}
	return nil
}

func (r *staffProfileRepository) FindByID(ctx context.Context, id int64) (*models.StaffProfile, error) {
	var profile models.StaffProfile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		return nil, translateError(err, "finding staff profile")
	}
	return &profile, nil
}

func (r *staffProfileRepository) FindByUserID(ctx context.Context, userID int64) (*models.StaffProfile, error) {
	var profile models.StaffProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, translateError(err, "finding staff profile by user")
	}
	return &profile, nil
}

func (r *staffProfileRepository) List(ctx context.Context, filters models.StaffProfileFilters) ([]models.StaffProfile, error) {
	q := r.db.WithContext(ctx).Model(&models.StaffProfile{})
	if filters.MinRating != nil {
		q = q.Where("rating >= ?", *filters.MinRating)
	}

	var found []models.StaffProfile
	if err := q.Order("id ASC").Find(&found).Error; err != nil {
		return nil, translateError(err, "listing staff profiles")
	}
	// skills is a JSON column; matching in Go keeps the comparison the same on every dialect.
	profiles := []models.StaffProfile{}
	for _, p := range found {
		if filters.Skill == nil || p.HasSkill(*filters.Skill) {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

func (r *staffProfileRepository) Update(ctx context.Context, profile *models.StaffProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.StaffProfile{}).
		Where("id = ?", profile.ID).
		Select("bio", "skills", "experience", "rating", "pay_rate", "updated_at").
		Updates(profile)
	if res.Error != nil {
		return translateError(res.Error, "updating staff profile")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *staffProfileRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.StaffProfile{}, id)
	if res.Error != nil {
		return translateError(res.Error, "deleting staff profile")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type roleRepository struct {
	db *gorm.DB
}

func (r *roleRepository) Create(ctx context.Context, role *models.JobRole) error {
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		return translateError(err, "creating role")
	}
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id int64) (*models.JobRole, error) {
	var role models.JobRole
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translateError(err, "finding role")
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*models.JobRole, error) {
	var role models.JobRole
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&role).Error; err != nil {
		return nil, translateError(err, "finding role by name")
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]models.JobRole, error) {
	roles := []models.JobRole{}
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&roles).Error; err != nil {
		return nil, translateError(err, "listing roles")
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *models.JobRole) error {
	res := r.db.WithContext(ctx).Model(&models.JobRole{}).
		Where("id = ?", role.ID).
		Updates(map[string]interface{}{
			"name":        role.Name,
			"description": role.Description,
		})
	if res.Error != nil {
		return translateError(res.Error, "updating role")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.JobRole{}, id)
	if res.Error != nil {
		return translateError(res.Error, "deleting role")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
