package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrLocationNotFound   = errors.New("location not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPageNotFound       = errors.New("page not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrSlugTaken          = errors.New("category slug already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationErrors maps form field names to a human readable message.
// A non-empty value is returned by the Validate* helpers and by services
// rejecting submitted input; handlers re-render the form with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records the first message for a field.
func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// AsValidation extracts field errors from err, if it carries any.
func AsValidation(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
