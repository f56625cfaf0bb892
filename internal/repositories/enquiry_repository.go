package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type enquiryRepository struct {
	db *gorm.DB
}

func (r *enquiryRepository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	if err := r.db.WithContext(ctx).Create(enquiry).Error; err != nil {
		return translateError(err, "creating enquiry")
	}
	return nil
}

func (r *enquiryRepository) FindByID(ctx context.Context, id int64) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	if err := r.db.WithContext(ctx).First(&enquiry, id).Error; err != nil {
		return nil, translateError(err, "finding enquiry")
	}
	return &enquiry, nil
}

// List returns the newest enquiries first.
func (r *enquiryRepository) List(ctx context.Context, status *models.EnquiryStatus) ([]models.Enquiry, error) {
	q := r.db.WithContext(ctx).Model(&models.Enquiry{})
	if status != nil {
		q = q.Where("status = ?", string(*status))
	}
	enquiries := []models.Enquiry{}
	if err := q.Order("created_at DESC, id DESC").Find(&enquiries).Error; err != nil {
		return nil, translateError(err, "listing enquiries")
	}
	return enquiries, nil
}

func (r *enquiryRepository) UpdateStatus(ctx context.Context, id int64, from, to models.EnquiryStatus) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Enquiry{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return translateError(res.Error, "updating enquiry status")
	}
	if res.RowsAffected == 0 {
		return conditionalMiss(db, &models.Enquiry{}, id, ErrStaleState)
	}
	return nil
}

func (r *enquiryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Enquiry{}, id)
	if res.Error != nil {
		return translateError(res.Error, "deleting enquiry")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
