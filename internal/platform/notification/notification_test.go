package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type captureSender struct {
	to      string
	subject string
	body    string
	err     error
}

func (s *captureSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.to = to
	s.subject = subject
	s.body = body
	return s.err
}

func TestRender_BuiltInTemplates(t *testing.T) {
	e := NewTemplateEngine()

	subject, body, err := e.Render("password-recovery", map[string]string{
		"recovery_link": "https://turnero.local/reset-password/abc123",
		"ttl":           "5 minutes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Password recovery" {
		t.Errorf("unexpected subject: %s", subject)
	}
	if !strings.Contains(body, "https://turnero.local/reset-password/abc123") {
		t.Errorf("expected link in body, got %s", body)
	}
	if !strings.Contains(body, "5 minutes") {
		t.Errorf("expected ttl in body, got %s", body)
	}
}

func TestRender_SubjectPlaceholders(t *testing.T) {
	e := NewTemplateEngine()
	subject, _, err := e.Render("appointment-reserved", map[string]string{
		"doctor": "House",
		"date":   "2026-09-10",
		"time":   "10:30",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Appointment confirmed for 2026-09-10" {
		t.Errorf("unexpected subject: %s", subject)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	e := NewTemplateEngine()
	if _, _, err := e.Render("no-such-template", nil); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRender_MissingKeysLeftIntact(t *testing.T) {
	e := NewTemplateEngine()
	_, body, err := e.Render("appointment-cancelled", map[string]string{"doctor": "House"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "{{date}}") {
		t.Errorf("expected unresolved placeholder preserved, got %s", body)
	}
}

func TestRegisterTemplate_Overrides(t *testing.T) {
	e := NewTemplateEngine()
	e.RegisterTemplate(Template{
		ID:      "password-recovery",
		Subject: "Custom subject",
		Body:    "custom {{recovery_link}}",
	})
	subject, body, err := e.Render("password-recovery", map[string]string{"recovery_link": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "Custom subject" || body != "custom x" {
		t.Errorf("override not applied: %s / %s", subject, body)
	}
}

func TestMailer_Send(t *testing.T) {
	sender := &captureSender{}
	m := NewMailer(NewTemplateEngine(), sender)

	err := m.Send(context.Background(), "ana@example.com", "password-recovery", map[string]string{
		"recovery_link": "link",
		"ttl":           "5 minutes",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.to != "ana@example.com" {
		t.Errorf("expected recipient to be set, got %s", sender.to)
	}
	if !strings.Contains(sender.body, "link") {
		t.Errorf("expected rendered body, got %s", sender.body)
	}
}

func TestMailer_SendFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	m := NewMailer(NewTemplateEngine(), sender)

	err := m.Send(context.Background(), "ana@example.com", "password-recovery", nil)
	if err == nil {
		t.Fatal("expected delivery error to surface")
	}
}
