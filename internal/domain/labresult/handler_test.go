package labresult

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/campusmed/campusmed/internal/platform/notification"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newHandlerTest() (*Handler, *mockRepo) {
	repo := newMockRepo()
	mgr := notification.NewManager(&notification.MockEmailSender{}, nil, notification.NewTemplateEngine())
	return NewHandler(NewService(repo, &mockDirectory{}, mgr)), repo
}

func TestHandlerRecord(t *testing.T) {
	h, repo := newHandlerTest()

	e := echo.New()
	body := `{"student_id":"` + uuid.NewString() + `","test_type":"full blood count","collected_at":"2026-08-20T09:30:00Z","values":{"hb":13.2}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lab-results", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Record(c); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var created LabResult
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if created.Status != StatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}
	if _, ok := repo.results[created.ID]; !ok {
		t.Error("result not stored")
	}
}

func TestHandlerReleaseConflictWhenAlreadyReleased(t *testing.T) {
	h, repo := newHandlerTest()

	id := uuid.New()
	now := time.Now()
	repo.results[id] = &LabResult{
		ID:          id,
		StudentID:   uuid.New(),
		TestType:    "fbc",
		CollectedAt: now,
		Values:      map[string]interface{}{"hb": 13.2},
		Status:      StatusReleased,
		ReleasedAt:  &now,
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lab-results/"+id.String()+"/release", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	err := h.Release(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusConflict {
		t.Errorf("error = %v, want 409 HTTPError", err)
	}
}

func TestHandlerReleaseNotFound(t *testing.T) {
	h, _ := newHandlerTest()

	e := echo.New()
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/lab-results/"+id+"/release", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)

	err := h.Release(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("error = %v, want 404 HTTPError", err)
	}
}
