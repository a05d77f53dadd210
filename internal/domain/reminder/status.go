// internal/domain/reminder/status.go
package reminder

import (
	"database/sql/driver"
	"fmt"
)

// ReactionStatus is the last reaction recorded for a reminder.
// The zero value is StatusPending, so a freshly built Reminder starts pending.
type ReactionStatus uint8

const (
	StatusPending ReactionStatus = iota
	StatusCompleted
	StatusDelayed
	StatusIgnored
	StatusSnoozed
)

var statusNames = [...]string{
	StatusPending:   "pending",
	StatusCompleted: "completed",
	StatusDelayed:   "delayed",
	StatusIgnored:   "ignored",
	StatusSnoozed:   "snoozed",
}

// AllStatuses lists every status in declaration order.
func AllStatuses() []ReactionStatus {
	return []ReactionStatus{StatusPending, StatusCompleted, StatusDelayed, StatusIgnored, StatusSnoozed}
}

// String returns the canonical serialized form. It is the only encoding used for
// storage, logs and JSON.
func (s ReactionStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("ReactionStatus(%d)", uint8(s))
}

// Valid reports whether s is one of the declared statuses.
func (s ReactionStatus) Valid() bool {
	return int(s) < len(statusNames)
}

// ParseReactionStatus is the inverse of String.
func ParseReactionStatus(v string) (ReactionStatus, error) {
	for _, s := range AllStatuses() {
		if s.String() == v {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown reaction status %q", v)
}

func (s ReactionStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid reaction status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *ReactionStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseReactionStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer.
func (s ReactionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid reaction status %d", uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *ReactionStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into ReactionStatus", src)
	}
}
