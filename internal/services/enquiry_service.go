package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

type SubmitEnquiryRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Email   string  `json:"email" binding:"required,email,max=256"`
	Phone   *string `json:"phone" binding:"omitempty,max=64"`
	Message string  `json:"message" binding:"required,max=4000"`
}

type UpdateEnquiryStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- EnquiryService Interface ---
type EnquiryService interface {
	SubmitEnquiry(ctx context.Context, req SubmitEnquiryRequest) (*models.Enquiry, error)
	GetEnquiry(ctx context.Context, actor Actor, enquiryID int64) (*models.Enquiry, error)
	ListEnquiries(ctx context.Context, actor Actor, status *string) ([]models.Enquiry, error)
	UpdateEnquiryStatus(ctx context.Context, actor Actor, enquiryID int64, status string) (*models.Enquiry, error)
	DeleteEnquiry(ctx context.Context, actor Actor, enquiryID int64) error
}

type enquiryService struct {
	store repositories.Store
	now   clock
}

// NewEnquiryService creates a new instance of EnquiryService.
func NewEnquiryService(store repositories.Store) EnquiryService {
	return &enquiryService{store: store, now: utcNow}
}

func hasControlChars(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// SubmitEnquiry stores a contact form entry. It needs no account.
func (s *enquiryService) SubmitEnquiry(ctx context.Context, req SubmitEnquiryRequest) (*models.Enquiry, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	v := newValidationError()
	name := strings.TrimSpace(req.Name)
	if name == "" {
		v.Add("name", "is required")
	} else if hasControlChars(name) {
		v.Add("name", "cannot contain control characters")
	}
	phone := utils.TrimmedPtr(req.Phone)
	if phone != nil && hasControlChars(*phone) {
		v.Add("phone", "cannot contain control characters")
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		v.Add("message", "cannot be empty")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	now := s.now()
	enquiry := &models.Enquiry{
		Name:      name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     phone,
		Message:   message,
		Status:    models.EnquiryStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Enquiries().Create(ctx, enquiry); err != nil {
		return nil, fmt.Errorf("failed to store enquiry: %w", err)
	}
	utils.LogInfo("Enquiry received", map[string]interface{}{"enquiry_id": enquiry.ID})
	return enquiry, nil
}

func (s *enquiryService) GetEnquiry(ctx context.Context, actor Actor, enquiryID int64) (*models.Enquiry, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	enquiry, err := s.store.Enquiries().FindByID(ctx, enquiryID)
	if err != nil {
		return nil, notFoundAs(err, ErrEnquiryNotFound, "get enquiry")
	}
	return enquiry, nil
}

func (s *enquiryService) ListEnquiries(ctx context.Context, actor Actor, status *string) ([]models.Enquiry, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	var filter *models.EnquiryStatus
	if status != nil {
		if !models.IsValidEnquiryStatus(*status) {
			return nil, invalidField("status", "is not a valid enquiry status")
		}
		st := models.EnquiryStatus(*status)
		filter = &st
	}
	enquiries, err := s.store.Enquiries().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	return enquiries, nil
}

func (s *enquiryService) UpdateEnquiryStatus(ctx context.Context, actor Actor, enquiryID int64, status string) (*models.Enquiry, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if !models.IsValidEnquiryStatus(status) {
		return nil, invalidField("status", "is not a valid enquiry status")
	}
	next := models.EnquiryStatus(status)

	enquiry, err := s.store.Enquiries().FindByID(ctx, enquiryID)
	if err != nil {
		return nil, notFoundAs(err, ErrEnquiryNotFound, "get enquiry")
	}
	if !models.CanTransitionEnquiry(enquiry.Status, next) {
		return nil, fmt.Errorf("%w: enquiry cannot move from %s to %s", ErrInvalidTransition, enquiry.Status, next)
	}
	if err := s.store.Enquiries().UpdateStatus(ctx, enquiryID, enquiry.Status, next); err != nil {
		if errors.Is(err, repositories.ErrStaleState) {
			return nil, ErrConcurrentUpdate
		}
		return nil, notFoundAs(err, ErrEnquiryNotFound, "update enquiry status")
	}
	return s.GetEnquiry(ctx, actor, enquiryID)
}

func (s *enquiryService) DeleteEnquiry(ctx context.Context, actor Actor, enquiryID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.Enquiries().Delete(ctx, enquiryID); err != nil {
		return notFoundAs(err, ErrEnquiryNotFound, "delete enquiry")
	}
	return nil
}
