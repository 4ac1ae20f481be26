package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTemplateEngine_RegisterAndRender(t *testing.T) {
	eng := NewTemplateEngine()
	eng.RegisterTemplate(Template{
		ID:      "test-tpl",
		Name:    "Test Template",
		Subject: "Hello {{name}}",
		Body:    "Dear {{name}}, your code is {{code}}.",
		Type:    TypeEmail,
	})

	subject, body, err := eng.Render("test-tpl", map[string]string{
		"name": "Alice",
		"code": "1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Hello Alice" {
		t.Errorf("subject = %q, want %q", subject, "Hello Alice")
	}
	if body != "Dear Alice, your code is 1234." {
		t.Errorf("body = %q", body)
	}
}

func TestTemplateEngine_UnknownTemplate(t *testing.T) {
	eng := NewTemplateEngine()
	_, _, err := eng.Render("no-such-template", nil)
	if err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestTemplateEngine_MissingDataLeftAsIs(t *testing.T) {
	eng := NewTemplateEngine()
	subject, _, err := eng.Render("result-released", map[string]string{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(subject, "blood test results") {
		t.Errorf("unexpected subject: %q", subject)
	}
}

func TestManager_SendFromTemplate(t *testing.T) {
	email := &MockEmailSender{}
	mgr := NewManager(email, nil, NewTemplateEngine())

	n, err := mgr.SendFromTemplate(context.Background(), "result-released", map[string]string{
		"student_name": "Jane Doe",
		"test_type":    "full blood count",
		"test_date":    "2025-03-04",
	}, "jane@example.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Status != "sent" {
		t.Errorf("status = %q, want sent", n.Status)
	}

	calls := email.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 email, got %d", len(calls))
	}
	if calls[0].To != "jane@example.edu" {
		t.Errorf("recipient = %q", calls[0].To)
	}
	if !strings.Contains(calls[0].Body, "full blood count") {
		t.Errorf("body missing test type: %q", calls[0].Body)
	}
}

func TestManager_SendFailureRecorded(t *testing.T) {
	email := &MockEmailSender{ShouldFail: true, FailError: "smtp unreachable"}
	mgr := NewManager(email, nil, NewTemplateEngine())

	n, err := mgr.SendFromTemplate(context.Background(), "result-released", nil, "jane@example.edu")
	if err == nil {
		t.Fatal("expected send error")
	}
	if n.Status != "failed" {
		t.Errorf("status = %q, want failed", n.Status)
	}
	if n.Error != "smtp unreachable" {
		t.Errorf("error = %q", n.Error)
	}
}

func TestManager_Retry(t *testing.T) {
	email := &MockEmailSender{ShouldFail: true, FailError: "smtp unreachable"}
	mgr := NewManager(email, nil, NewTemplateEngine())

	n, _ := mgr.SendFromTemplate(context.Background(), "result-released", nil, "jane@example.edu")

	// Recovered sender
	email.ShouldFail = false
	if err := mgr.Retry(context.Background(), n.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := mgr.Get(n.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != "sent" {
		t.Errorf("status = %q, want sent", got.Status)
	}
	if got.Error != "" {
		t.Errorf("error should be cleared, got %q", got.Error)
	}
}

func TestManager_RetryRejectsSent(t *testing.T) {
	email := &MockEmailSender{}
	mgr := NewManager(email, nil, NewTemplateEngine())

	n, _ := mgr.SendFromTemplate(context.Background(), "result-released", nil, "jane@example.edu")
	if err := mgr.Retry(context.Background(), n.ID); err == nil {
		t.Fatal("expected error retrying a sent notification")
	}
}

func TestManager_Stats(t *testing.T) {
	email := &MockEmailSender{}
	mgr := NewManager(email, nil, NewTemplateEngine())

	mgr.SendFromTemplate(context.Background(), "result-released", nil, "a@example.edu")
	mgr.SendFromTemplate(context.Background(), "result-released", nil, "b@example.edu")

	stats := mgr.Stats()
	if stats["sent"] != 2 {
		t.Errorf("sent = %d, want 2", stats["sent"])
	}
}

func TestHandler_GetAndList(t *testing.T) {
	email := &MockEmailSender{}
	mgr := NewManager(email, nil, NewTemplateEngine())
	n, _ := mgr.SendFromTemplate(context.Background(), "result-released", nil, "jane@example.edu")

	h := NewHandler(mgr)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(n.ID)

	if err := h.HandleGet(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var got Notification
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.ID != n.ID {
		t.Errorf("id = %q, want %q", got.ID, n.ID)
	}

	req = httptest.NewRequest(http.MethodGet, "/?recipient=jane@example.edu", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	if err := h.HandleList(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestHandler_ListRequiresRecipient(t *testing.T) {
	h := NewHandler(NewManager(&MockEmailSender{}, nil, NewTemplateEngine()))
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h.HandleList(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
