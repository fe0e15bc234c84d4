package models

import (
	"time"

	"github.com/akeren/waitlist-foundry/pkg/constants"
)

// WaitlistEntry is one accepted signup. Rows are append-only: nothing updates or
// deletes them, and email uniqueness is deliberately not enforced.
type WaitlistEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Timestamp time.Time `gorm:"not null;index"`
	Email     string    `gorm:"not null;size:320;index"`
	UserAgent string    `gorm:"not null"`
	Source    string    `gorm:"not null"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist_entries"
}

// FormattedTimestamp renders the timestamp as ISO-8601 UTC with millisecond precision.
// A zero timestamp (unparseable spreadsheet cell) renders as "".
func (e *WaitlistEntry) FormattedTimestamp() string {
	if e.Timestamp.IsZero() {
		return ""
	}
	return e.Timestamp.UTC().Format(constants.ISO8601MillisFormat)
}

// Row returns the four spreadsheet columns in their fixed order:
// timestamp, email, user agent, source.
func (e *WaitlistEntry) Row() []any {
	return []any{e.FormattedTimestamp(), e.Email, e.UserAgent, e.Source}
}
