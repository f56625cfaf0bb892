package repositories

import (
	"context"
	"strings"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translateError(err, "creating user "+user.Email)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err, "finding user by id")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, translateError(err, "finding user by email")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, role *string) ([]models.User, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if role != nil {
		q = q.Where("role = ?", strings.ToLower(*role))
	}
	users := []models.User{}
	if err := q.Order("full_name ASC, id ASC").Find(&users).Error; err != nil {
		return nil, translateError(err, "listing users")
	}
	return users, nil
}
