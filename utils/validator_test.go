package utils

import (
	"strings"
	"testing"
)

type registerForm struct {
	Name     string `validate:"required,nameok"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,pwdmin"`
	Confirm  string `validate:"eqfield=Password"`
}

func TestValidateStruct_OK(t *testing.T) {
	f := registerForm{
		Name:     "Ravi Kumar",
		Email:    "ravi@example.com",
		Password: "secret1",
		Confirm:  "secret1",
	}
	if err := ValidateStruct(&f); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestValidateStruct_Errors(t *testing.T) {
	tests := []struct {
		name string
		form registerForm
		want string
	}{
		{
			name: "missing name",
			form: registerForm{Email: "a@b.co", Password: "secret1", Confirm: "secret1"},
			want: "Name is required",
		},
		{
			name: "bad email",
			form: registerForm{Name: "Ravi", Email: "not-an-email", Password: "secret1", Confirm: "secret1"},
			want: "valid email",
		},
		{
			name: "short password",
			form: registerForm{Name: "Ravi", Email: "a@b.co", Password: "abc", Confirm: "abc"},
			want: "at least 6",
		},
		{
			name: "confirmation mismatch",
			form: registerForm{Name: "Ravi", Email: "a@b.co", Password: "secret1", Confirm: "secret2"},
			want: "must equal Password",
		},
		{
			name: "name with invalid characters",
			form: registerForm{Name: "<script>", Email: "a@b.co", Password: "secret1", Confirm: "secret1"},
			want: "invalid characters",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.form)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestGenerateOrderID_Format(t *testing.T) {
	id := GenerateOrderID(42)
	if !strings.HasPrefix(id, "PLG-") {
		t.Fatalf("expected PLG- prefix, got %s", id)
	}
	if !strings.HasSuffix(id, "42") {
		t.Fatalf("expected user ID suffix, got %s", id)
	}
}

func TestGenerateReferenceID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := GenerateReferenceID(7)
		if seen[id] {
			t.Fatalf("duplicate reference ID %s", id)
		}
		seen[id] = true
	}
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		val       float64
		precision int
		want      float64
	}{
		{174.0, 2, 174.0},
		{987.4449, 2, 987.44},
		{0.125, 2, 0.13},
		{1215.0, 2, 1215.0},
	}
	for _, tt := range tests {
		if got := RoundFloat(tt.val, tt.precision); got != tt.want {
			t.Errorf("RoundFloat(%v, %d) = %v, want %v", tt.val, tt.precision, got, tt.want)
		}
	}
}
