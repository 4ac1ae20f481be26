package appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
)

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	a.ID = uuid.New()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, a *Appointment) error {
	if _, ok := m.appointments[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) ListByStudent(_ context.Context, studentID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByDay(_ context.Context, day time.Time, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.ScheduledAt.Format("2006-01-02") == day.Format("2006-01-02") {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Appointment, int, error) {
	var out []*Appointment
	for _, a := range m.appointments {
		if a.Status == status {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

type mockDirectory struct {
	name, email string
}

func (m *mockDirectory) ContactFor(_ context.Context, _ uuid.UUID) (string, string, error) {
	return m.name, m.email, nil
}

func newTestService() (*Service, *mockRepo, *notification.MockEmailSender) {
	repo := newMockRepo()
	email := &notification.MockEmailSender{}
	mgr := notification.NewManager(email, nil, notification.NewTemplateEngine())
	dir := &mockDirectory{name: "Amina Yusuf", email: "amina@example.edu"}
	return NewService(repo, dir, mgr), repo, email
}

func book(t *testing.T, svc *Service) *Appointment {
	t.Helper()
	a := &Appointment{
		StudentID:   uuid.New(),
		Clinician:   "Dr. Mensah",
		Reason:      "annual checkup",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	}
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	return a
}

func TestBookDefaults(t *testing.T) {
	svc, _, _ := newTestService()
	a := book(t, svc)

	if a.Status != StatusScheduled {
		t.Errorf("status = %q, want %q", a.Status, StatusScheduled)
	}
	if a.DurationMinutes != 20 {
		t.Errorf("duration = %d, want default 20", a.DurationMinutes)
	}
}

func TestBookValidation(t *testing.T) {
	svc, _, _ := newTestService()

	tests := []struct {
		name string
		a    Appointment
	}{
		{"missing student", Appointment{Reason: "x", ScheduledAt: time.Now().Add(time.Hour)}},
		{"missing time", Appointment{StudentID: uuid.New(), Reason: "x"}},
		{"time in the past", Appointment{StudentID: uuid.New(), Reason: "x", ScheduledAt: time.Now().Add(-time.Hour)}},
		{"missing reason", Appointment{StudentID: uuid.New(), ScheduledAt: time.Now().Add(time.Hour)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.Book(context.Background(), &tt.a); err == nil {
				t.Error("Book() error = nil, want validation error")
			}
		})
	}
}

func TestTransitionLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	a := book(t, svc)

	got, err := svc.Transition(context.Background(), a.ID, StatusConfirmed)
	if err != nil {
		t.Fatalf("Transition(confirmed) error = %v", err)
	}
	if got.Status != StatusConfirmed {
		t.Errorf("status = %q, want confirmed", got.Status)
	}

	got, err = svc.Transition(context.Background(), a.ID, StatusCompleted)
	if err != nil {
		t.Fatalf("Transition(completed) error = %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	// Completed is terminal.
	if _, err := svc.Transition(context.Background(), a.ID, StatusCancelled); err == nil {
		t.Error("Transition(completed -> cancelled) error = nil, want rejection")
	}
}

func TestTransitionInvalid(t *testing.T) {
	svc, _, _ := newTestService()
	a := book(t, svc)

	// scheduled -> completed skips confirmation.
	if _, err := svc.Transition(context.Background(), a.ID, StatusCompleted); err == nil {
		t.Error("Transition(scheduled -> completed) error = nil, want rejection")
	}
	// no_show requires a confirmed appointment.
	if _, err := svc.Transition(context.Background(), a.ID, StatusNoShow); err == nil {
		t.Error("Transition(scheduled -> no_show) error = nil, want rejection")
	}
}

func TestTransitionNotifications(t *testing.T) {
	svc, _, email := newTestService()
	a := book(t, svc)

	if _, err := svc.Transition(context.Background(), a.ID, StatusConfirmed); err != nil {
		t.Fatalf("Transition(confirmed) error = %v", err)
	}
	calls := email.Calls()
	if len(calls) != 1 {
		t.Fatalf("email calls = %d, want 1", len(calls))
	}
	if calls[0].To != "amina@example.edu" {
		t.Errorf("recipient = %q", calls[0].To)
	}
	if !strings.Contains(calls[0].Body, "Amina Yusuf") {
		t.Errorf("body %q does not mention the student", calls[0].Body)
	}

	if _, err := svc.Transition(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("Transition(cancelled) error = %v", err)
	}
	calls = email.Calls()
	if len(calls) != 2 {
		t.Fatalf("email calls = %d, want 2 after cancellation", len(calls))
	}
	if !strings.Contains(calls[1].Subject, "cancelled") {
		t.Errorf("subject = %q, want cancellation notice", calls[1].Subject)
	}
}

func TestCancelSetsTimestamp(t *testing.T) {
	svc, repo, _ := newTestService()
	a := book(t, svc)

	if _, err := svc.Transition(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("Transition(cancelled) error = %v", err)
	}
	stored := repo.appointments[a.ID]
	if stored.CancelledAt == nil {
		t.Error("CancelledAt not set on cancellation")
	}
}

func TestReschedule(t *testing.T) {
	svc, repo, _ := newTestService()
	a := book(t, svc)
	if _, err := svc.Transition(context.Background(), a.ID, StatusConfirmed); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	newTime := time.Now().Add(96 * time.Hour)
	got, err := svc.Reschedule(context.Background(), a.ID, newTime)
	if err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}
	if got.Status != StatusScheduled {
		t.Errorf("status = %q, want scheduled after reschedule", got.Status)
	}
	if !repo.appointments[a.ID].ScheduledAt.Equal(newTime) {
		t.Error("stored time not updated")
	}

	if _, err := svc.Reschedule(context.Background(), a.ID, time.Now().Add(-time.Hour)); err == nil {
		t.Error("Reschedule(past) error = nil, want rejection")
	}
}

func TestRescheduleTerminalRejected(t *testing.T) {
	svc, _, _ := newTestService()
	a := book(t, svc)
	if _, err := svc.Transition(context.Background(), a.ID, StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.Reschedule(context.Background(), a.ID, time.Now().Add(time.Hour)); err == nil {
		t.Error("Reschedule(cancelled) error = nil, want rejection")
	}
}

func TestListByStatusValidation(t *testing.T) {
	svc, _, _ := newTestService()

	if _, _, err := svc.ListByStatus(context.Background(), "bogus", 20, 0); err == nil {
		t.Error("ListByStatus(bogus) error = nil, want rejection")
	}
}
