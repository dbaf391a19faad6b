package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/juju/errors"
	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"
)

// ErrIntegrityViolation marks a write rejected by a uniqueness, foreign key
// or check constraint.
const ErrIntegrityViolation = errors.ConstError("integrity violation")

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// dateLayout stores calendar dates
const dateLayout = "2006-01-02"

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// isConstraintViolation reports whether err came from a failed SQLite constraint
func isConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// wrapWriteErr annotates a failed write, tagging constraint failures with
// ErrIntegrityViolation
func wrapWriteErr(action string, err error) error {
	if isConstraintViolation(err) {
		return fmt.Errorf("failed to %s: %w: %w", action, ErrIntegrityViolation, err)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// inClause returns "(?, ?, ...)" and the matching arguments
func inClause(ids []int64) (string, []any) {
	args := make([]any, len(ids))
	marks := make([]string, len(ids))
	for i, id := range ids {
		args[i] = id
		marks[i] = "?"
	}
	return "(" + strings.Join(marks, ", ") + ")", args
}
