package services

import (
	"context"
	"fmt"
	"html"
	"time"

	"north_staffing_backend/internal/models"
	"north_staffing_backend/internal/repositories"
	"north_staffing_backend/pkg/utils"
)

// Notifier delivers one shift reminder.
type Notifier interface {
	NotifyShiftReminder(ctx context.Context, reminder models.ShiftReminder) error
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) NotifyShiftReminder(_ context.Context, r models.ShiftReminder) error {
	utils.LogInfo("Shift reminder", map[string]interface{}{
		"assignment_id": r.AssignmentID,
		"staff_id":      r.StaffID,
		"staff_email":   r.StaffEmail,
		"event":         r.EventName,
		"role":          r.Role,
		"start_time":    r.StartTime.Format(time.RFC3339),
	})
	return nil
}

// Mailer is the part of utils.EmailSender the email notifier needs.
type Mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

// EmailNotifier sends reminders over SMTP.
type EmailNotifier struct {
	mailer Mailer
}

func NewEmailNotifier(mailer Mailer) *EmailNotifier {
	return &EmailNotifier{mailer: mailer}
}

func (n *EmailNotifier) NotifyShiftReminder(_ context.Context, r models.ShiftReminder) error {
	location := "TBA"
	if r.Location != nil {
		location = *r.Location
	}
	subject := fmt.Sprintf("Reminder: %s shift at %s", r.Role, r.EventName)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>This is a reminder of your upcoming <strong>%s</strong> shift at <strong>%s</strong>.</p>"+
			"<ul><li>Starts: %s</li><li>Ends: %s</li><li>Location: %s</li></ul>",
		html.EscapeString(r.StaffName),
		html.EscapeString(r.Role),
		html.EscapeString(r.EventName),
		r.StartTime.Format("Mon 02 Jan 2006 15:04 MST"),
		r.EndTime.Format("Mon 02 Jan 2006 15:04 MST"),
		html.EscapeString(location),
	)
	return n.mailer.SendEmail(r.StaffEmail, subject, body)
}

// ReminderSummary reports one sweep.
type ReminderSummary struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	Scanned     int       `json:"scanned"`
	Sent        int       `json:"sent"`
	Failed      int       `json:"failed"`
}

// --- ReminderService Interface ---
type ReminderService interface {
	SendShiftReminders(ctx context.Context, now time.Time) (*ReminderSummary, error)
	RunReminderLoop(ctx context.Context, interval time.Duration)
}

type reminderService struct {
	store    repositories.Store
	notifier Notifier
	window   time.Duration
}

// NewReminderService creates a ReminderService looking window ahead of now.
func NewReminderService(store repositories.Store, notifier Notifier, window time.Duration) ReminderService {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &reminderService{store: store, notifier: notifier, window: window}
}

// SendShiftReminders notifies every confirmed assignment whose shift starts
// within the window. Delivery is fire-and-forget: failures are counted and
// logged, never retried.
func (s *reminderService) SendShiftReminders(ctx context.Context, now time.Time) (*ReminderSummary, error) {
	now = now.UTC()
	summary := &ReminderSummary{WindowStart: now, WindowEnd: now.Add(s.window)}

	reminders, err := s.store.Assignments().ListUpcomingConfirmed(ctx, summary.WindowStart, summary.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming assignments: %w", err)
	}
	summary.Scanned = len(reminders)

	for _, r := range reminders {
		if err := s.notifier.NotifyShiftReminder(ctx, r); err != nil {
			summary.Failed++
			utils.LogError(err, "Failed to send shift reminder", map[string]interface{}{
				"assignment_id": r.AssignmentID,
				"staff_id":      r.StaffID,
			})
			continue
		}
		summary.Sent++
	}

	utils.LogInfo("Reminder sweep finished", map[string]interface{}{
		"scanned": summary.Scanned,
		"sent":    summary.Sent,
		"failed":  summary.Failed,
	})
	return summary, nil
}

// RunReminderLoop sweeps every interval until ctx is cancelled.
func (s *reminderService) RunReminderLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.LogInfo("Reminder loop started", map[string]interface{}{"interval": interval.String(), "window": s.window.String()})
	for {
		select {
		case <-ctx.Done():
			utils.LogInfo("Reminder loop stopped")
			return
		case tick := <-ticker.C:
			if _, err := s.SendShiftReminders(ctx, tick); err != nil {
				utils.LogError(err, "Reminder sweep failed")
			}
		}
	}
}
