package db

import "strings"

// IsUniqueViolation reports whether the provided error is a unique constraint
// violation. Matching on the driver message keeps it working across the
// postgres and sqlite dialects.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
