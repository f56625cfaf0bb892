package utils

import "strings"

// NewNullString is a helper for string pointers, returning nil if the
// trimmed string is empty. Optional text fields are stored as NULL.
func NewNullString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// TrimmedPtr trims an optional string, collapsing blanks to nil.
func TrimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return NewNullString(*s)
}
