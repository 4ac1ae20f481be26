package intake

import (
	"errors"
	"net/http"

	"github.com/campusmed/campusmed/internal/platform/auth"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Handler exposes the intake wizard over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the intake endpoints on the given group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/intake/steps", h.SubmitStep)
	g.GET("/intake/progress", h.GetProgress)
	g.GET("/intake/sections", h.ListSections)
	g.GET("/students/:id/medical-form", h.GetStudentForm, auth.RequireRole("staff"))
}

type stepResponse struct {
	NextSection *string `json:"nextSection"`
	Completed   bool    `json:"completed"`
}

type conflictResponse struct {
	Conflict      bool    `json:"conflict"`
	Message       string  `json:"message"`
	NextSection   *string `json:"nextSection"`
	Completed     bool    `json:"completed"`
	LatestStepNum int     `json:"latestStepNum"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SubmitStep handles POST /intake/steps. The body is the raw section payload:
// a "section" discriminator plus that section's fields.
func (h *Handler) SubmitStep(c echo.Context) error {
	var payload map[string]interface{}
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   string(KindValidation),
			Message: "request body must be a JSON object",
		})
	}

	caller := auth.IdentityFromContext(c.Request().Context())
	res, err := h.svc.SubmitStep(c.Request().Context(), caller, payload)
	if err != nil {
		return h.writeError(c, err)
	}

	if res.Conflict {
		return c.JSON(http.StatusConflict, conflictResponse{
			Conflict:      true,
			Message:       "progress was advanced by a concurrent submission",
			NextSection:   optional(res.NextSection),
			Completed:     res.Completed,
			LatestStepNum: res.LatestStep,
		})
	}

	return c.JSON(http.StatusOK, stepResponse{
		NextSection: optional(res.NextSection),
		Completed:   res.Completed,
	})
}

type progressResponse struct {
	CurrentStep     int     `json:"currentStep"`
	TotalSteps      int     `json:"totalSteps"`
	ProgressPercent int     `json:"progressPercentage"`
	Status          string  `json:"status"`
	NextSection     *string `json:"nextSection"`
}

// GetProgress handles GET /intake/progress for the authenticated student.
func (h *Handler) GetProgress(c echo.Context) error {
	caller := auth.IdentityFromContext(c.Request().Context())
	prog, err := h.svc.GetProgress(c.Request().Context(), caller)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.progressBody(prog))
}

func (h *Handler) progressBody(prog *Progress) progressResponse {
	body := progressResponse{
		CurrentStep:     prog.CurrentStep,
		TotalSteps:      prog.TotalSteps,
		ProgressPercent: prog.ProgressPercent,
		Status:          string(prog.Status),
	}
	steps := h.svc.Registry().StepsFor(prog.Gender)
	if prog.CurrentStep < len(steps) {
		body.NextSection = optional(steps[prog.CurrentStep])
	}
	return body
}

type sectionResponse struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Fields []fieldResponse `json:"fields"`
}

type fieldResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ListSections handles GET /intake/sections. The ordered schema depends on the
// caller's gender, so it requires a student identity.
func (h *Handler) ListSections(c echo.Context) error {
	caller := auth.IdentityFromContext(c.Request().Context())
	prog, err := h.svc.GetProgress(c.Request().Context(), caller)
	if err != nil {
		return h.writeError(c, err)
	}

	var out []sectionResponse
	for _, sec := range h.svc.SectionsFor(prog.Gender) {
		sr := sectionResponse{ID: sec.ID, Title: sec.Title}
		for _, f := range sec.Fields {
			sr.Fields = append(sr.Fields, fieldResponse{Name: f.Name, Kind: string(f.Kind)})
		}
		out = append(out, sr)
	}
	return c.JSON(http.StatusOK, out)
}

type studentFormResponse struct {
	StudentID string                 `json:"studentId"`
	Data      map[string]interface{} `json:"data"`
	Progress  progressResponse       `json:"progress"`
}

// GetStudentForm handles GET /students/:id/medical-form for clinic staff.
func (h *Handler) GetStudentForm(c echo.Context) error {
	studentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{
			Error:   string(KindValidation),
			Message: "invalid student id",
		})
	}

	ctx := c.Request().Context()
	prog, err := h.svc.GetProgressForStudent(ctx, studentID)
	if err != nil {
		return h.writeError(c, err)
	}
	rec, err := h.svc.GetForm(ctx, studentID)
	if err != nil {
		if KindOf(err) == KindNotFound {
			rec = &FormRecord{StudentID: studentID, Data: map[string]interface{}{}}
		} else {
			return h.writeError(c, err)
		}
	}

	return c.JSON(http.StatusOK, studentFormResponse{
		StudentID: studentID.String(),
		Data:      rec.Data,
		Progress:  h.progressBody(prog),
	})
}

func (h *Handler) writeError(c echo.Context, err error) error {
	var ierr *Error
	if !errors.As(err, &ierr) {
		log.Error().Err(err).Msg("intake: unclassified error")
		return c.JSON(http.StatusInternalServerError, errorResponse{
			Error:   string(KindDBError),
			Message: "internal error",
		})
	}

	status := http.StatusBadRequest
	message := ierr.Message
	switch ierr.Kind {
	case KindUnauthorized:
		status = http.StatusUnauthorized
	case KindNotFound:
		status = http.StatusNotFound
	case KindAlreadyCompleted:
		status = http.StatusConflict
	case KindDBError:
		status = http.StatusInternalServerError
		message = "An error occurred. Please try again."
		log.Error().Err(ierr).Msg("intake: database error")
	}

	return c.JSON(status, errorResponse{Error: string(ierr.Kind), Message: message})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
