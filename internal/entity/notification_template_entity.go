package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NotificationTemplate holds reusable subject/body text with {variable}
// placeholders. Variables maps each declared placeholder to its default
// value, used whenever the caller omits it.
type NotificationTemplate struct {
	Id        uuid.UUID
	Code      string
	Name      string
	Type      NotificationType
	Subject   string
	Body      string
	Channels  []NotificationChannel
	Variables map[string]string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Render substitutes every {variable} placeholder in the body, falling back
// to the declared defaults for variables the caller did not provide.
// Placeholders with neither a value nor a default are left in place.
func (t *NotificationTemplate) Render(variables map[string]string) string {
	return t.substitute(t.Body, variables)
}

// RenderSubject renders the subject template, or returns nil when the
// template declares no subject so callers can fall back to their own title.
func (t *NotificationTemplate) RenderSubject(variables map[string]string) *string {
	if t.Subject == "" {
		return nil
	}
	subject := t.substitute(t.Subject, variables)
	return &subject
}

func (t *NotificationTemplate) substitute(text string, variables map[string]string) string {
	for name, fallback := range t.Variables {
		value, ok := variables[name]
		if !ok {
			value = fallback
		}
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	for name, value := range variables {
		text = strings.ReplaceAll(text, "{"+name+"}", value)
	}
	return text
}
