package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation limits for account and content fields.
const (
	minPasswordLen = 6
	maxNameLen     = 100
	maxTitleLen    = 300
	maxContentLen  = 10_000
)

// emailPattern is the standard loose address check: something@something.tld.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateRegistration checks the register inputs and returns the first
// error found, or "" when all fields pass.
func validateRegistration(firstName, lastName, email, password string) string {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" ||
		strings.TrimSpace(email) == "" || password == "" {
		return "All fields are required"
	}
	if utf8.RuneCountInString(firstName) > maxNameLen || utf8.RuneCountInString(lastName) > maxNameLen {
		return "Name is too long (max 100 characters)"
	}
	if !emailPattern.MatchString(email) {
		return "Invalid email"
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "Password must be at least 6 characters"
	}
	return ""
}

// validatePostInput checks the create-post inputs.
func validatePostInput(title, category string) string {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(category) == "" {
		return "Blog title and category is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	return ""
}

// validateCommentContent checks comment text.
func validateCommentContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Content is required"
	}
	if utf8.RuneCountInString(content) > maxContentLen {
		return "Content is too long (max 10,000 characters)"
	}
	return ""
}
