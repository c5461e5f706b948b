package model

import (
	"errors"
	"strings"
	"time"
)

// TimestampLayout is the wire format of Snip.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

var timestampLayouts = []string{
	TimestampLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// ErrBadTimestamp is returned by ParseTimestamp for input it cannot read.
var ErrBadTimestamp = errors.New("timestamp must be a date-time like 2006-01-02 15:04:05")

// Snip is a captured screenshot stored against a folder.
// CreatedAt is set by the store; Timestamp is the user-editable capture time.
type Snip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   string    `json:"timestamp"`
	Filename    string    `json:"filename"`
	Folder      string    `json:"folder"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`

	FolderID    string `json:"-"`
	StoragePath string `json:"-"`
}

// ParseTimestamp accepts the wire layout, HTML datetime-local values and RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
