package handlers

import (
	"strings"
	"testing"
)

func TestValidateRegistration(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		email     string
		password  string
		wantErr   bool
	}{
		{"valid", "Ada", "Lovelace", "ada@example.com", "secret1", false},
		{"missing first name", "", "Lovelace", "ada@example.com", "secret1", true},
		{"missing last name", "Ada", "", "ada@example.com", "secret1", true},
		{"missing email", "Ada", "Lovelace", "", "secret1", true},
		{"missing password", "Ada", "Lovelace", "ada@example.com", "", true},
		{"whitespace name", "   ", "Lovelace", "ada@example.com", "secret1", true},
		{"no at sign", "Ada", "Lovelace", "ada.example.com", "secret1", true},
		{"no domain dot", "Ada", "Lovelace", "ada@example", "secret1", true},
		{"space in email", "Ada", "Lovelace", "ada lovelace@example.com", "secret1", true},
		{"password too short", "Ada", "Lovelace", "ada@example.com", "five5", true},
		{"password exactly six", "Ada", "Lovelace", "ada@example.com", "sixsix", false},
		{"name too long", strings.Repeat("a", 101), "Lovelace", "ada@example.com", "secret1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := validateRegistration(tt.firstName, tt.lastName, tt.email, tt.password)
			if (msg != "") != tt.wantErr {
				t.Errorf("got %q, wantErr=%v", msg, tt.wantErr)
			}
		})
	}
}

func TestValidatePostInput(t *testing.T) {
	if msg := validatePostInput("Title", "tech"); msg != "" {
		t.Errorf("valid input rejected: %q", msg)
	}
	if msg := validatePostInput("", "tech"); msg == "" {
		t.Error("missing title accepted")
	}
	if msg := validatePostInput("Title", ""); msg == "" {
		t.Error("missing category accepted")
	}
	if msg := validatePostInput("  ", "tech"); msg == "" {
		t.Error("whitespace title accepted")
	}
	if msg := validatePostInput(strings.Repeat("t", 301), "tech"); msg == "" {
		t.Error("overlong title accepted")
	}
}

func TestValidateCommentContent(t *testing.T) {
	if msg := validateCommentContent("nice post"); msg != "" {
		t.Errorf("valid content rejected: %q", msg)
	}
	if msg := validateCommentContent(""); msg == "" {
		t.Error("empty content accepted")
	}
	if msg := validateCommentContent("   "); msg == "" {
		t.Error("whitespace content accepted")
	}
	if msg := validateCommentContent(strings.Repeat("c", 10_001)); msg == "" {
		t.Error("overlong content accepted")
	}
}
