package models

import "time"

// EnquiryStatus tracks how far the office has got with a contact form.
type EnquiryStatus string

const (
	EnquiryStatusNew       EnquiryStatus = "new"
	EnquiryStatusResponded EnquiryStatus = "responded"
	EnquiryStatusClosed    EnquiryStatus = "closed"
)

// IsValidEnquiryStatus checks if the provided status string is a valid EnquiryStatus.
func IsValidEnquiryStatus(status string) bool {
	switch EnquiryStatus(status) {
	case EnquiryStatusNew, EnquiryStatusResponded, EnquiryStatusClosed:
		return true
	default:
		return false
	}
}

var enquiryTransitions = map[EnquiryStatus][]EnquiryStatus{
	EnquiryStatusNew:       {EnquiryStatusResponded, EnquiryStatusClosed},
	EnquiryStatusResponded: {EnquiryStatusClosed},
}

// CanTransitionEnquiry reports whether an enquiry may move from one status to another.
func CanTransitionEnquiry(from, to EnquiryStatus) bool {
	return allowed(enquiryTransitions, from, to)
}

// Enquiry is a message left through the public contact or job application form.
type Enquiry struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"size:255;not null"`
	Email     string        `json:"email" gorm:"size:256;not null"`
	Phone     *string       `json:"phone,omitempty" gorm:"size:64"`
	Message   string        `json:"message" gorm:"type:text;not null"`
	Status    EnquiryStatus `json:"status" gorm:"size:32;not null;index"`
	CreatedAt time.Time     `json:"created_at" gorm:"not null;index"`
	UpdatedAt time.Time     `json:"updated_at"`
}
