package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusmed/campusmed/internal/platform/auth"
	"github.com/google/uuid"
)

// Service is the sole mutating entry point for intake form progress.
type Service struct {
	reg      *Registry
	progress ProgressRepository
	forms    FormRepository
}

func NewService(reg *Registry, progress ProgressRepository, forms FormRepository) *Service {
	return &Service{reg: reg, progress: progress, forms: forms}
}

// Registry exposes the section schemas for read-only consumers.
func (s *Service) Registry() *Registry { return s.reg }

// SubmitResult is the outcome of a step submission. Conflict indicates the
// progress counter was advanced by a concurrent submission; the caller should
// resynchronize to LatestStep rather than treat it as a failure.
type SubmitResult struct {
	NextSection string
	Completed   bool
	Conflict    bool
	LatestStep  int
}

// SubmitStep validates and persists one section of the intake form, then
// advances the student's progress. The submitted section must be exactly the
// one implied by the student's current step; progress advances via a
// compare-and-swap so two racing submissions produce one success and one
// conflict, never a double advance.
func (s *Service) SubmitStep(ctx context.Context, caller auth.Identity, payload map[string]interface{}) (*SubmitResult, error) {
	if !caller.IsStudent() {
		return nil, newError(KindUnauthorized, "no authenticated student identity")
	}

	sectionID, _ := payload["section"].(string)
	if sectionID == "" {
		return nil, newError(KindInvalidSection, "payload is missing a section identifier")
	}
	sec, ok := s.reg.Lookup(sectionID)
	if !ok {
		return nil, newError(KindInvalidSection, fmt.Sprintf("unknown section %q", sectionID))
	}

	prog, err := s.progress.GetByStudent(ctx, caller.StudentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "no registration record for student")
		}
		return nil, wrapError(KindDBError, "load progress", err)
	}

	if prog.Completed() {
		return nil, newError(KindAlreadyCompleted, "intake form is already completed")
	}

	steps := s.reg.StepsFor(prog.Gender)
	if prog.CurrentStep >= len(steps) {
		return nil, newError(KindAlreadyCompleted, "intake form is already completed")
	}
	expected := steps[prog.CurrentStep]
	if sectionID != expected {
		return nil, newError(KindInvalidOrder,
			fmt.Sprintf("expected section %q at step %d, got %q", expected, prog.CurrentStep, sectionID))
	}

	fields := FilterFields(sec, payload)
	if len(fields) == 0 {
		return nil, newError(KindNoValidFields, fmt.Sprintf("no fields belong to section %q", sectionID))
	}

	normalized := Normalize(sec, fields)
	if err := Validate(sec, normalized); err != nil {
		return nil, newError(KindValidation, err.Error())
	}

	if err := s.forms.UpsertSection(ctx, caller.StudentID, normalized); err != nil {
		return nil, wrapError(KindDBError, "persist section", err)
	}

	newStep := prog.CurrentStep + 1
	upd := ProgressUpdate{
		NewStep:         newStep,
		ProgressPercent: PercentFor(newStep, prog.TotalSteps),
		Status:          StatusInProgress,
	}
	if newStep >= prog.TotalSteps {
		upd.Status = StatusCompleted
	}

	applied, err := s.progress.Advance(ctx, caller.StudentID, prog.CurrentStep, upd)
	if err != nil {
		return nil, wrapError(KindDBError, "advance progress", err)
	}

	if !applied {
		// Lost the race: another submission advanced the counter. Re-read and
		// hand the caller the authoritative position to resynchronize to.
		latest, err := s.progress.GetByStudent(ctx, caller.StudentID)
		if err != nil {
			return nil, wrapError(KindDBError, "reload progress after conflict", err)
		}
		res := &SubmitResult{
			Conflict:   true,
			LatestStep: latest.CurrentStep,
			Completed:  latest.Completed(),
		}
		if latest.CurrentStep < latest.TotalSteps {
			res.NextSection = steps[latest.CurrentStep]
		}
		return res, nil
	}

	res := &SubmitResult{
		Completed:  newStep >= prog.TotalSteps,
		LatestStep: newStep,
	}
	if newStep < prog.TotalSteps {
		res.NextSection = steps[newStep]
	}
	return res, nil
}

// GetProgress returns the caller's intake progress.
func (s *Service) GetProgress(ctx context.Context, caller auth.Identity) (*Progress, error) {
	if !caller.IsStudent() {
		return nil, newError(KindUnauthorized, "no authenticated student identity")
	}
	return s.progressFor(ctx, caller.StudentID)
}

// GetProgressForStudent returns a named student's intake progress, for staff
// use.
func (s *Service) GetProgressForStudent(ctx context.Context, studentID uuid.UUID) (*Progress, error) {
	return s.progressFor(ctx, studentID)
}

func (s *Service) progressFor(ctx context.Context, studentID uuid.UUID) (*Progress, error) {
	prog, err := s.progress.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "no registration record for student")
		}
		return nil, wrapError(KindDBError, "load progress", err)
	}
	return prog, nil
}

// GetForm returns the accumulated form answers for a student, for staff use.
// Students that have not submitted any section yet have no record.
func (s *Service) GetForm(ctx context.Context, studentID uuid.UUID) (*FormRecord, error) {
	rec, err := s.forms.GetByStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, newError(KindNotFound, "no intake form submitted")
		}
		return nil, wrapError(KindDBError, "load medical form", err)
	}
	return rec, nil
}

// SectionsFor returns the ordered section schemas a student of the given
// gender must complete, for rendering the wizard.
func (s *Service) SectionsFor(gender string) []*Section {
	var out []*Section
	for _, id := range s.reg.StepsFor(gender) {
		if sec, ok := s.reg.Lookup(id); ok {
			out = append(out, sec)
		}
	}
	return out
}
