package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const (
	contactThanksHTML  = "<h2>Thank you for reaching out! We will get back to you shortly.</h2>"
	contactInvalidHTML = "<h2>Please fill in your name, email, subject and message.</h2>"
	contactErrorHTML   = "<h2>There was an error processing your request. Please try again later.</h2>"
)

type FormsHTTP struct {
	Svc *service.FormService
}

func (h *FormsHTTP) AddFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forms.feedback")

	var form transport.FeedbackForm
	if err := c.Bind(&form); err != nil {
		l.Warn("feedback_error", "status", 400, "error", err)
		return c.String(http.StatusBadRequest, "Invalid form submission.")
	}

	if _, err := h.Svc.SubmitFeedback(ctx, form.Name, form.Email, form.Message); err != nil {
		return c.String(http.StatusInternalServerError, "Error submitting feedback.")
	}
	return c.String(http.StatusOK, "Feedback submitted successfully!")
}

func (h *FormsHTTP) AddContact(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "forms.contact")

	var form transport.ContactForm
	if err := c.Bind(&form); err != nil {
		l.Warn("contact_error", "status", 400, "error", err)
		return c.HTML(http.StatusBadRequest, contactInvalidHTML)
	}

	_, err := h.Svc.SubmitContact(ctx, form.Name, form.Email, form.Subject, form.Message)
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn("contact_error", "status", 400, "error", err)
		return c.HTML(http.StatusBadRequest, contactInvalidHTML)
	case err != nil:
		return c.HTML(http.StatusInternalServerError, contactErrorHTML)
	}
	return c.HTML(http.StatusOK, contactThanksHTML)
}
