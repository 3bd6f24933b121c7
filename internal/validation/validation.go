package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks minimum password requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks a display name
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "name must be 100 characters or fewer"}
	}
	return nil
}

// ValidateRelationLabel checks a free-text relationship label ("Sister",
// "Great-uncle"). Labels are the owner's words, so only length is enforced
func ValidateRelationLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return ValidationError{Field: "relation", Message: "relation label is required"}
	}
	if len(label) > 50 {
		return ValidationError{Field: "relation", Message: "relation label must be 50 characters or fewer"}
	}
	return nil
}

// ValidateVisibility checks a content visibility value
func ValidateVisibility(visibility string) error {
	switch visibility {
	case "public", "family", "private":
		return nil
	}
	return ValidationError{Field: "visibility", Message: "visibility must be public, family or private"}
}

// ValidateTitle checks a content title
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ValidationError{Field: "title", Message: "title is required"}
	}
	if len(title) > 200 {
		return ValidationError{Field: "title", Message: "title must be 200 characters or fewer"}
	}
	return nil
}
