package models

import "time"

// DayFormat is the calendar-day layout used throughout the attendance
// ledger. Records are grouped per user per day in this format.
const DayFormat = "2006-01-02"

// AttendanceRecord is one entry/exit pair in the attendance ledger.
// A record is "open" while CheckOutAt is unset; the ledger guarantees at
// most one open record per (user, day).
type AttendanceRecord struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	// Day is the calendar day the record belongs to, in DayFormat.
	Day string `json:"day"`

	CheckInAt  time.Time  `json:"check_in_at"`
	CheckOutAt *time.Time `json:"check_out_at,omitempty"`

	// Area is the facility zone the entry was recorded for.
	Area string `json:"area"`

	// AutoClosed marks records closed by the stale-record sweeper rather
	// than by an explicit check-out.
	AutoClosed bool `json:"auto_closed"`
}

// TableName returns the name of the database table
// associated with the AttendanceRecord model.
func (a AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Open reports whether the record still lacks a check-out.
func (a AttendanceRecord) Open() bool {
	return a.CheckOutAt == nil
}
