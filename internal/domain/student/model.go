package student

import (
	"time"

	"github.com/google/uuid"
)

// Student is the registered student record. The form_* columns live on the
// same row and are owned by the intake package; this model carries only the
// demographic and enrollment fields.
type Student struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	StudentNumber  string     `db:"student_number" json:"student_number"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Email          string     `db:"email" json:"email"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Gender         string     `db:"gender" json:"gender"`
	BirthDate      *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	DepartmentID   *uuid.UUID `db:"department_id" json:"department_id,omitempty"`
	EnrollmentYear int        `db:"enrollment_year" json:"enrollment_year"`
	Active         bool       `db:"active" json:"active"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName is used in notification templates.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
