package models

import "time"

// EventStatus defines the lifecycle of a staffed event.
type EventStatus string

const (
	EventStatusPlanned   EventStatus = "planned"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsValidEventStatus checks if the provided status string is a valid EventStatus.
func IsValidEventStatus(status string) bool {
	switch EventStatus(status) {
	case EventStatusPlanned, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	default:
		return false
	}
}

var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusPlanned: {EventStatusOngoing, EventStatusCancelled},
	EventStatusOngoing: {EventStatusCompleted, EventStatusCancelled},
}

// CanTransitionEvent reports whether an event may move from one status to another.
func CanTransitionEvent(from, to EventStatus) bool {
	return allowed(eventTransitions, from, to)
}

// AcceptsShifts reports whether new shifts may still be scheduled for the event.
func (s EventStatus) AcceptsShifts() bool {
	return s == EventStatusPlanned || s == EventStatusOngoing
}

// Event is a client engagement that shifts are scheduled for.
type Event struct {
	ID         int64       `json:"id" gorm:"primaryKey"`
	Name       string      `json:"name" gorm:"size:255;not null"`
	ClientName *string     `json:"client_name,omitempty" gorm:"size:255"`
	EventDate  string      `json:"event_date" gorm:"size:10;not null;index"` // YYYY-MM-DD
	Location   *string     `json:"location,omitempty" gorm:"size:255"`
	Status     EventStatus `json:"status" gorm:"size:32;not null"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// EventFilters narrows event listings.
type EventFilters struct {
	Status   *EventStatus
	DateFrom *string
	DateTo   *string
}

// Message is a post on an event's coordination channel.
type Message struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	EventID    int64     `json:"event_id" gorm:"not null;index"`
	SenderID   int64     `json:"sender_id" gorm:"not null"`
	ReceiverID *int64    `json:"receiver_id,omitempty"`
	Body       string    `json:"body" gorm:"type:text;not null"`
	SentAt     time.Time `json:"sent_at" gorm:"not null;index"`
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
