package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"ada@example.edu",
		"first.last+tag@sub.example.co.uk",
	}
	invalid := []string{
		"",
		"not-an-email",
		"missing@tld",
		"@example.com",
		"spaces in@example.com",
	}

	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("short password accepted")
	}
	if ok, msg := ValidatePassword("longenough1"); !ok {
		t.Errorf("valid password rejected: %s", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("SanitizeInput = %q, want %q", got, "helloworld")
	}
}
