package validator

import "testing"

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"full policy", "Abc123!@", true},
		{"longer valid", "Sup3r$ecretPass", true},
		{"too short", "Ab1!xyz", false},
		{"no letters", "12345678!@#$", false},
		{"no uppercase", "abc123!@abc", false},
		{"no lowercase", "ABC123!@ABC", false},
		{"no digits", "Abcdefg!@", false},
		{"no symbols", "Abcdefg123", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := CheckPassword(tt.password)
			if tt.valid && msg != "" {
				t.Errorf("CheckPassword(%q) = %q, want valid", tt.password, msg)
			}
			if !tt.valid && msg == "" {
				t.Errorf("CheckPassword(%q) passed, want violation", tt.password)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type loginBody struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	errs := ValidateStruct(&loginBody{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Errorf("expected email violation, got %v", errs)
	}
	if _, ok := errs["password"]; !ok {
		t.Errorf("expected password violation, got %v", errs)
	}

	errs = ValidateStruct(&loginBody{Email: "ann@x.com", Password: "pw"})
	if len(errs) != 0 {
		t.Errorf("expected no violations, got %v", errs)
	}
}
