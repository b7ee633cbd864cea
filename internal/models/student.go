package models

import "time"

// Attendance status codes as the attendance scanners record them. The values
// are the source-locale strings stored on existing documents.
const (
	AttendancePresent = "تم الحضور"
	AttendanceLate    = "متأخر"
	AttendanceAbsent  = "غائب"
)

// AttendanceEntry is one check-in event on a student document. The portal
// only reads these; the scanning station owns the writes.
type AttendanceEntry struct {
	DateTime string `bson:"dateTime" json:"dateTime"`
	Status   string `bson:"status" json:"status"`
}

// Student is a learner record keyed by the server-generated code.
type Student struct {
	Code        string            `bson:"_id" json:"code"`
	FullName    string            `bson:"fullName" json:"fullName"`
	Gender      string            `bson:"gender,omitempty" json:"gender,omitempty"`
	Birthdate   string            `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	PhoneNumber string            `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Church      string            `bson:"church,omitempty" json:"church,omitempty"`
	Level       string            `bson:"level,omitempty" json:"level,omitempty"`
	Address     string            `bson:"address,omitempty" json:"address,omitempty"`
	Active      bool              `bson:"active" json:"active"`
	Admin       bool              `bson:"admin" json:"admin"`
	Degree      Degree            `bson:"degree" json:"degree"`
	Attendance  []AttendanceEntry `bson:"attendance,omitempty" json:"attendance,omitempty"`
	CreatedAt   time.Time         `bson:"createdAt,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time         `bson:"updatedAt,omitempty" json:"updated_at,omitempty"`
}

// AttendanceStats aggregates a student's check-in history by status.
type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Late    int `json:"late"`
	Absent  int `json:"absent"`
}

// AttendanceSummary tallies the student's attendance entries.
func (s Student) AttendanceSummary() AttendanceStats {
	stats := AttendanceStats{Total: len(s.Attendance)}
	for _, entry := range s.Attendance {
		switch entry.Status {
		case AttendancePresent:
			stats.Present++
		case AttendanceLate:
			stats.Late++
		case AttendanceAbsent:
			stats.Absent++
		}
	}
	return stats
}

// LastAttendance returns the most recent check-in entry, if any. Entries are
// stored newest first.
func (s Student) LastAttendance() (AttendanceEntry, bool) {
	if len(s.Attendance) == 0 {
		return AttendanceEntry{}, false
	}
	return s.Attendance[0], true
}
