package student

import (
	"context"
	"strings"
	"testing"

	"github.com/campusmed/campusmed/internal/domain/intake"
	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
)

type mockRepo struct {
	students   map[uuid.UUID]*Student
	totalSteps map[uuid.UUID]int
	createErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		students:   make(map[uuid.UUID]*Student),
		totalSteps: make(map[uuid.UUID]int),
	}
}

func (m *mockRepo) Create(_ context.Context, s *Student, formTotalSteps int) error {
	if m.createErr != nil {
		return m.createErr
	}
	s.ID = uuid.New()
	m.students[s.ID] = s
	m.totalSteps[s.ID] = formTotalSteps
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*Student, error) {
	for _, s := range m.students {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) GetByStudentNumber(_ context.Context, number string) (*Student, error) {
	for _, s := range m.students {
		if s.StudentNumber == number {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, s *Student) error {
	if _, ok := m.students[s.ID]; !ok {
		return ErrNotFound
	}
	m.students[s.ID] = s
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	s, ok := m.students[id]
	if !ok {
		return ErrNotFound
	}
	s.Active = false
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Student, int, error) {
	var out []*Student
	for _, s := range m.students {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) ListByDepartment(_ context.Context, departmentID uuid.UUID, limit, offset int) ([]*Student, int, error) {
	var out []*Student
	for _, s := range m.students {
		if s.Active && s.DepartmentID != nil && *s.DepartmentID == departmentID {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func (m *mockRepo) Search(_ context.Context, query string, limit, offset int) ([]*Student, int, error) {
	var out []*Student
	for _, s := range m.students {
		if s.Active && strings.Contains(strings.ToLower(s.LastName), strings.ToLower(query)) {
			out = append(out, s)
		}
	}
	return out, len(out), nil
}

func newTestService(repo *mockRepo) (*Service, *notification.MockEmailSender) {
	email := &notification.MockEmailSender{}
	mgr := notification.NewManager(email, nil, notification.NewTemplateEngine())
	return NewService(repo, intake.NewRegistry(), mgr), email
}

func TestRegisterSeedsGenderDependentSteps(t *testing.T) {
	tests := []struct {
		gender    string
		wantSteps int
	}{
		{"female", 11},
		{"male", 10},
	}

	for _, tt := range tests {
		t.Run(tt.gender, func(t *testing.T) {
			repo := newMockRepo()
			svc, _ := newTestService(repo)

			st := &Student{
				StudentNumber: "S-1001",
				FirstName:     "Amina",
				LastName:      "Yusuf",
				Email:         "amina@example.edu",
				Gender:        tt.gender,
			}
			if err := svc.Register(context.Background(), st); err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if got := repo.totalSteps[st.ID]; got != tt.wantSteps {
				t.Errorf("form total steps = %d, want %d", got, tt.wantSteps)
			}
			if !st.Active {
				t.Error("student not active after registration")
			}
		})
	}
}

func TestRegisterSendsWelcomeEmail(t *testing.T) {
	repo := newMockRepo()
	svc, email := newTestService(repo)

	st := &Student{
		StudentNumber: "S-1002",
		FirstName:     "Daniel",
		LastName:      "Okoro",
		Email:         "Daniel@Example.edu",
		Gender:        "male",
	}
	if err := svc.Register(context.Background(), st); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	calls := email.Calls()
	if len(calls) != 1 {
		t.Fatalf("email calls = %d, want 1", len(calls))
	}
	if calls[0].To != "daniel@example.edu" {
		t.Errorf("recipient = %q, want lowercased email", calls[0].To)
	}
	if !strings.Contains(calls[0].Body, "Daniel Okoro") {
		t.Errorf("body %q does not mention the student's name", calls[0].Body)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		st   Student
	}{
		{"missing first name", Student{StudentNumber: "S-1", LastName: "Okoro", Email: "a@b.edu", Gender: "male"}},
		{"missing last name", Student{StudentNumber: "S-1", FirstName: "Daniel", Email: "a@b.edu", Gender: "male"}},
		{"invalid email", Student{StudentNumber: "S-1", FirstName: "Daniel", LastName: "Okoro", Email: "not-an-email", Gender: "male"}},
		{"missing gender", Student{StudentNumber: "S-1", FirstName: "Daniel", LastName: "Okoro", Email: "a@b.edu"}},
		{"missing student number", Student{FirstName: "Daniel", LastName: "Okoro", Email: "a@b.edu", Gender: "male"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()
			svc, email := newTestService(repo)

			if err := svc.Register(context.Background(), &tt.st); err == nil {
				t.Error("Register() error = nil, want validation error")
			}
			if len(email.Calls()) != 0 {
				t.Error("welcome email sent despite failed registration")
			}
		})
	}
}

func TestRegisterWithoutNotifier(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, intake.NewRegistry(), nil)

	st := &Student{
		StudentNumber: "S-1003",
		FirstName:     "Mei",
		LastName:      "Lin",
		Email:         "mei@example.edu",
		Gender:        "female",
	}
	if err := svc.Register(context.Background(), st); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
}

func TestUpdateRequiresID(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	if err := svc.Update(context.Background(), &Student{FirstName: "X"}); err == nil {
		t.Error("Update() error = nil, want id required")
	}
}

func TestDeactivate(t *testing.T) {
	repo := newMockRepo()
	svc, _ := newTestService(repo)

	st := &Student{
		StudentNumber: "S-1004",
		FirstName:     "Ade",
		LastName:      "Bello",
		Email:         "ade@example.edu",
		Gender:        "male",
	}
	if err := svc.Register(context.Background(), st); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := svc.Deactivate(context.Background(), st.ID); err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if repo.students[st.ID].Active {
		t.Error("student still active after deactivation")
	}

	if err := svc.Deactivate(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("Deactivate(unknown) error = %v, want ErrNotFound", err)
	}
}
