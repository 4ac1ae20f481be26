package labresult

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusReleased = "released"
)

// LabResult is one blood test panel for a student. Values holds the measured
// analytes keyed by analyte code; it is stored as JSONB so panels with
// different analyte sets share one table.
type LabResult struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	StudentID   uuid.UUID              `db:"student_id" json:"student_id"`
	TestType    string                 `db:"test_type" json:"test_type"`
	CollectedAt time.Time              `db:"collected_at" json:"collected_at"`
	Values      map[string]interface{} `db:"results" json:"values"`
	Status      string                 `db:"status" json:"status"`
	ReleasedAt  *time.Time             `db:"released_at" json:"released_at,omitempty"`
	Notes       *string                `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time              `db:"updated_at" json:"updated_at"`
}

// Released reports whether the result is visible to the student.
func (r *LabResult) Released() bool {
	return r.Status == StatusReleased
}
