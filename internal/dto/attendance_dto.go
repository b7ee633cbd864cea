package dto

import (
	"time"

	"github.com/keraza-portal/keraza-go-api/internal/models"
)

// AttendanceListRequest filters the attendance report.
type AttendanceListRequest struct {
	Level      string
	Search     string
	Sort       string
	Descending bool
}

// AttendanceStudentResponse is one row of the attendance report.
type AttendanceStudentResponse struct {
	Code       string                   `json:"code"`
	FullName   string                   `json:"fullName"`
	Level      string                   `json:"level,omitempty"`
	Church     string                   `json:"church,omitempty"`
	Attendance []models.AttendanceEntry `json:"attendance"`
	Stats      models.AttendanceStats   `json:"stats"`
}

// AttendanceReportResponse wraps the report rows.
type AttendanceReportResponse struct {
	Items       []AttendanceStudentResponse `json:"items"`
	GeneratedAt time.Time                   `json:"generated_at"`
}

// NewAttendanceStudentResponse builds a report row from a student record.
func NewAttendanceStudentResponse(student models.Student) AttendanceStudentResponse {
	entries := student.Attendance
	if entries == nil {
		entries = []models.AttendanceEntry{}
	}
	return AttendanceStudentResponse{
		Code:       student.Code,
		FullName:   student.FullName,
		Level:      student.Level,
		Church:     student.Church,
		Attendance: entries,
		Stats:      student.AttendanceSummary(),
	}
}
