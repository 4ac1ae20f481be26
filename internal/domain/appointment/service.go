package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StudentDirectory resolves the contact details needed for appointment
// notifications without importing the student package wholesale.
type StudentDirectory interface {
	ContactFor(ctx context.Context, studentID uuid.UUID) (name, email string, err error)
}

type Service struct {
	repo     Repository
	students StudentDirectory
	notify   *notification.Manager
}

func NewService(repo Repository, students StudentDirectory, notify *notification.Manager) *Service {
	return &Service{repo: repo, students: students, notify: notify}
}

var validTransitions = map[string]map[string]bool{
	StatusScheduled: {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusCompleted: true, StatusCancelled: true, StatusNoShow: true},
}

func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if a.StudentID == uuid.Nil {
		return fmt.Errorf("student_id is required")
	}
	if a.ScheduledAt.IsZero() {
		return fmt.Errorf("scheduled_at is required")
	}
	if a.ScheduledAt.Before(time.Now()) {
		return fmt.Errorf("scheduled_at must be in the future")
	}
	if a.Reason == "" {
		return fmt.Errorf("reason is required")
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = 20
	}
	a.Status = StatusScheduled
	return s.repo.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// Transition moves an appointment to a new status, enforcing the lifecycle.
// Confirmations and cancellations notify the student by email; a failed
// notification never rolls back the transition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, newStatus string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := validTransitions[a.Status]
	if !allowed[newStatus] {
		return nil, fmt.Errorf("cannot transition appointment from %s to %s", a.Status, newStatus)
	}

	a.Status = newStatus
	if newStatus == StatusCancelled {
		now := time.Now().UTC()
		a.CancelledAt = &now
	}
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	switch newStatus {
	case StatusConfirmed:
		s.notifyStudent(ctx, a, "appointment-confirmed")
	case StatusCancelled:
		s.notifyStudent(ctx, a, "appointment-cancelled")
	}
	return a, nil
}

func (s *Service) notifyStudent(ctx context.Context, a *Appointment, templateID string) {
	if s.notify == nil || s.students == nil {
		return
	}
	name, email, err := s.students.ContactFor(ctx, a.StudentID)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("resolve student contact failed")
		return
	}
	_, err = s.notify.SendFromTemplate(ctx, templateID, map[string]string{
		"student_name": name,
		"date":         a.ScheduledAt.Format("2006-01-02"),
		"time":         a.ScheduledAt.Format("15:04"),
	}, email)
	if err != nil {
		log.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("appointment notification failed")
	}
}

func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) (*Appointment, error) {
	if newTime.Before(time.Now()) {
		return nil, fmt.Errorf("scheduled_at must be in the future")
	}
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != StatusScheduled && a.Status != StatusConfirmed {
		return nil, fmt.Errorf("cannot reschedule a %s appointment", a.Status)
	}
	a.ScheduledAt = newTime
	// A rescheduled appointment needs to be confirmed again.
	a.Status = StatusScheduled
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByStudent(ctx, studentID, limit, offset)
}

func (s *Service) ListByDay(ctx context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	return s.repo.ListByDay(ctx, day, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	switch status {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
	default:
		return nil, 0, fmt.Errorf("invalid appointment status: %s", status)
	}
	return s.repo.ListByStatus(ctx, status, limit, offset)
}
