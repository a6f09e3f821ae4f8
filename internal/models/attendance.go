package models

import "time"

// AttendanceSession is one gathering on a calendar day. At most one session
// exists per (day, type).
type AttendanceSession struct {
	ID        int64          `json:"id"`
	Date      time.Time      `json:"date"`
	Type      AttendanceType `json:"type"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// MemberAttendance records one member's status at one session.
type MemberAttendance struct {
	ID        int64            `json:"id"`
	SessionID int64            `json:"attendanceId"`
	MemberID  int64            `json:"memberId"`
	Status    AttendanceStatus `json:"status"`
	Member    *MemberSummary   `json:"member,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Roster is the member directory for the attendance screen, optionally
// paired with the recorded statuses of one session.
type Roster struct {
	Members           []MemberSummary    `json:"members"`
	MemberAttendances []MemberAttendance `json:"memberAttendances"`
}
