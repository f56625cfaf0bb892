package repositories

import (
	"context"
	"time"

	"north_staffing_backend/internal/models"

	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return translateError(err, "creating event")
	}
	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, translateError(err, "finding event")
	}
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context, filters models.EventFilters) ([]models.Event, error) {
	q := r.db.WithContext(ctx).Model(&models.Event{})
	if filters.Status != nil {
		q = q.Where("status = ?", string(*filters.Status))
	}
	// event_date is stored as YYYY-MM-DD so string comparison orders by date.
	if filters.DateFrom != nil {
		q = q.Where("event_date >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		q = q.Where("event_date <= ?", *filters.DateTo)
	}

	events := []models.Event{}
	if err := q.Order("event_date ASC, id ASC").Find(&events).Error; err != nil {
		return nil, translateError(err, "listing events")
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Event{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"name":        event.Name,
			"client_name": event.ClientName,
			"event_date":  event.EventDate,
			"location":    event.Location,
			"status":      string(event.Status),
			"updated_at":  event.UpdatedAt,
		})
	if res.Error != nil {
		return translateError(res.Error, "updating event")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type messageRepository struct {
	db *gorm.DB
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return translateError(err, "creating message")
	}
	return nil
}

func (r *messageRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Message, error) {
	messages := []models.Message{}
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sent_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, translateError(err, "listing messages")
	}
	return messages, nil
}
