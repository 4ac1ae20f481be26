package intake

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status tracks where a student is in the intake sequence.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Progress is a student's position in the intake form sequence. CurrentStep
// is an index into the gender-specific step order; it only ever advances by
// one per successful submission and never exceeds TotalSteps.
type Progress struct {
	StudentID       uuid.UUID `db:"student_id" json:"student_id"`
	Gender          string    `db:"gender" json:"gender"`
	CurrentStep     int       `db:"form_current_step" json:"current_step"`
	TotalSteps      int       `db:"form_total_steps" json:"total_steps"`
	ProgressPercent int       `db:"form_progress_pct" json:"progress_percentage"`
	Status          Status    `db:"form_status" json:"status"`
	UpdatedAt       time.Time `db:"form_updated_at" json:"updated_at"`
}

// Completed reports whether the student has finished every step.
func (p *Progress) Completed() bool {
	return p.Status == StatusCompleted || p.CurrentStep >= p.TotalSteps
}

// PercentFor computes the rounded progress percentage after reaching step.
func PercentFor(step, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	return int(math.Round(float64(step) / float64(totalSteps) * 100))
}

// ProgressUpdate is the new progress state applied by a CAS advance.
type ProgressUpdate struct {
	NewStep         int
	ProgressPercent int
	Status          Status
}

// FormRecord holds the accumulated intake form answers for one student.
// Sections are merged in one at a time; earlier sections' fields are never
// clobbered by later submissions.
type FormRecord struct {
	StudentID uuid.UUID              `db:"student_id" json:"student_id"`
	Data      map[string]interface{} `db:"data" json:"data"`
	UpdatedAt time.Time              `db:"updated_at" json:"updated_at"`
}
