package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
)

type FormService struct {
	Forms  FormRepo
	Events events.Publisher
	// Mailer forwards contact messages; nil disables forwarding.
	Mailer Mailer
}

func (s *FormService) SubmitFeedback(ctx context.Context, name, email, message string) (*models.Feedback, error) {
	l := logging.FromContext(ctx).With("svc", "forms.feedback")

	fb := &models.Feedback{Name: name, Email: email, Message: message}
	if err := s.Forms.CreateFeedback(ctx, fb); err != nil {
		l.Error("feedback_error", "status", 500, "error", err)
		return nil, fmt.Errorf("save feedback: %w", err)
	}

	publish(ctx, s.Events, events.TopicForm, fb.ID, "feedback_submitted", map[string]any{
		"feedbackId": fb.ID,
		"email":      fb.Email,
	})
	return fb, nil
}

func (s *FormService) SubmitContact(ctx context.Context, name, email, subject, message string) (*models.Contact, error) {
	l := logging.FromContext(ctx).With("svc", "forms.contact")

	fields := []struct{ name, value string }{
		{"name", name},
		{"email", email},
		{"subject", subject},
		{"message", message},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("contact %s is required: %w", f.name, ErrValidation)
		}
	}

	ct := &models.Contact{Name: name, Email: email, Subject: subject, Message: message}
	if err := s.Forms.CreateContact(ctx, ct); err != nil {
		l.Error("contact_error", "status", 500, "error", err)
		return nil, fmt.Errorf("save contact: %w", err)
	}

	if s.Mailer != nil {
		body := fmt.Sprintf("From: %s <%s>\n\n%s", ct.Name, ct.Email, ct.Message)
		if err := s.Mailer.Send(ctx, "[contact] "+ct.Subject, body); err != nil {
			l.Warn("contact_mail_failed", "contact_id", ct.ID, "error", err)
		}
	}

	publish(ctx, s.Events, events.TopicForm, ct.ID, "contact_submitted", map[string]any{
		"contactId": ct.ID,
		"email":     ct.Email,
		"subject":   ct.Subject,
	})
	return ct, nil
}
