package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Transitions are enforced by the service:
// scheduled -> confirmed | cancelled, confirmed -> completed | cancelled | no_show.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	StudentID       uuid.UUID  `db:"student_id" json:"student_id"`
	Clinician       string     `db:"clinician" json:"clinician"`
	Reason          string     `db:"reason" json:"reason"`
	ScheduledAt     time.Time  `db:"scheduled_at" json:"scheduled_at"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	Status          string     `db:"status" json:"status"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CancelledAt     *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
