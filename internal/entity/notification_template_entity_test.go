package entity

import (
	"testing"

	"github.com/google/uuid"
)

func TestTemplateRender(t *testing.T) {
	tpl := &NotificationTemplate{
		Id:      uuid.New(),
		Code:    "SECURITY_ALERT",
		Type:    NotificationTypeWarning,
		Subject: "Alert for {name}",
		Body:    "We noticed {activity} from {location}.",
		Variables: map[string]string{
			"name":     "there",
			"activity": "unusual activity",
			"location": "an unknown location",
		},
		IsActive: true,
	}

	tests := []struct {
		name      string
		variables map[string]string
		wantBody  string
	}{
		{
			name:      "all variables provided",
			variables: map[string]string{"activity": "a new login", "location": "Berlin"},
			wantBody:  "We noticed a new login from Berlin.",
		},
		{
			name:      "missing variables use declared defaults",
			variables: map[string]string{"activity": "a new login"},
			wantBody:  "We noticed a new login from an unknown location.",
		},
		{
			name:      "no variables at all",
			variables: nil,
			wantBody:  "We noticed unusual activity from an unknown location.",
		},
		{
			name:      "extra variables are ignored",
			variables: map[string]string{"activity": "x", "location": "y", "unused": "z"},
			wantBody:  "We noticed x from y.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tpl.Render(tt.variables); got != tt.wantBody {
				t.Errorf("Render() = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestTemplateRenderUndeclaredVariable(t *testing.T) {
	tpl := &NotificationTemplate{
		Body:      "Hello {who}",
		Variables: map[string]string{},
	}

	// Undeclared placeholders still render when the caller provides a value.
	if got := tpl.Render(map[string]string{"who": "world"}); got != "Hello world" {
		t.Errorf("Render() = %q, want %q", got, "Hello world")
	}

	// Without a value or a default the placeholder stays visible.
	if got := tpl.Render(nil); got != "Hello {who}" {
		t.Errorf("Render() = %q, want placeholder kept", got)
	}
}

func TestTemplateRenderSubject(t *testing.T) {
	tpl := &NotificationTemplate{
		Subject:   "Welcome, {name}!",
		Body:      "ignored",
		Variables: map[string]string{"name": "friend"},
	}

	subject := tpl.RenderSubject(map[string]string{"name": "Ada"})
	if subject == nil || *subject != "Welcome, Ada!" {
		t.Errorf("RenderSubject() = %v, want Welcome, Ada!", subject)
	}

	// An empty subject means the caller keeps its own title.
	tpl.Subject = ""
	if got := tpl.RenderSubject(nil); got != nil {
		t.Errorf("RenderSubject() with empty subject = %v, want nil", got)
	}
}
