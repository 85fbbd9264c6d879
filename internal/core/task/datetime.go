package task

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// DateTimeLayout is the point-in-time layout used in the store and in
// command input: yyyy-MM-dd HHmm, e.g. "2019-12-02 1800".
const DateTimeLayout = "2006-01-02 1504"

// ErrInvalidDateFormat is returned when a string does not match DateTimeLayout.
var ErrInvalidDateFormat = errors.New("invalid date format, please use yyyy-MM-dd HHmm format")

var dateTimeShape = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{4}$`)

// ParseDateTime parses s as a wall-clock time in DateTimeLayout. The result
// is in UTC, which carries no zone offset or daylight saving rules, so every
// valid input formats back to itself.
func ParseDateTime(s string) (time.Time, error) {
	if !dateTimeShape.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDateFormat, s, err)
	}

	return t, nil
}

// FormatDateTime renders t in DateTimeLayout.
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
