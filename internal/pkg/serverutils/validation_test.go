package serverutils

import (
	"testing"

	"notifhub-be/internal/pkg/apperror"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
	Internal string `json:"-" validate:"omitempty,max=3"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name string
		form signupForm
		want string
	}{
		{
			name: "valid",
			form: signupForm{Email: "ada@example.com", Password: "correcthorse"},
		},
		{
			name: "missing everything",
			form: signupForm{},
			want: "Validation failed: email is required, password is required",
		},
		{
			name: "bad email",
			form: signupForm{Email: "nope", Password: "correcthorse"},
			want: "Validation failed: email must be a valid email address",
		},
		{
			name: "short password",
			form: signupForm{Email: "ada@example.com", Password: "hunter2"},
			want: "Validation failed: password must be at least 8 characters",
		},
		{
			name: "value outside the allowed set",
			form: signupForm{Email: "ada@example.com", Password: "correcthorse", Role: "root"},
			want: "Validation failed: role must be one of: admin user",
		},
		{
			name: "field hidden from json keeps its Go name",
			form: signupForm{Email: "ada@example.com", Password: "correcthorse", Internal: "long"},
			want: "Validation failed: Internal must be at most 3 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.form)
			if tt.want == "" {
				if err != nil {
					t.Errorf("expected no error, got %q", err.Error())
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error %q, got nil", tt.want)
			}
			if err.Error() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, err.Error())
			}
			if !apperror.IsKind(err, apperror.KindValidation) {
				t.Errorf("expected a validation kind, got %v", apperror.KindOf(err))
			}
		})
	}
}
