package service

import (
	"context"
	"fmt"

	"churchadmin/internal/database"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

// RosterEntry is one member's status in a roster submission
type RosterEntry struct {
	MemberID int64  `json:"memberId" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

// CreateRosterInput creates a session together with its roster
type CreateRosterInput struct {
	Date              string        `json:"date" validate:"required,dateonly"`
	Type              string        `json:"type" validate:"omitempty,oneof=SUNDAY_SERVICE BIBLE_STUDY PRAYER_MEETING YOUTH_SERVICE MIDWEEK_SERVICE SPECIAL_EVENT"`
	MemberAttendances []RosterEntry `json:"memberAttendances" validate:"dive"`
}

// ReplaceRosterInput is the complete new roster of a session
type ReplaceRosterInput struct {
	MemberAttendances []RosterEntry `json:"memberAttendances" validate:"dive"`
}

// RosterWriteResult reports how many status rows a roster write stored
type RosterWriteResult struct {
	Success bool                      `json:"success"`
	Count   int                       `json:"count"`
	Session *models.AttendanceSession `json:"attendance,omitempty"`
}

// GetRoster returns the member directory, optionally name filtered, and the
// statuses recorded for sessionID when it is non-zero.
func (s *AttendanceService) GetRoster(ctx context.Context, sessionID int64, search string) (*models.Roster, error) {
	roster := &models.Roster{
		Members:           []models.MemberSummary{},
		MemberAttendances: []models.MemberAttendance{},
	}

	if sessionID != 0 {
		if _, err := s.Get(ctx, sessionID); err != nil {
			return nil, err
		}
		statuses, err := s.attendance.ListStatuses(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if statuses != nil {
			roster.MemberAttendances = statuses
		}
	}

	members, err := s.members.ListSummaries(ctx, search)
	if err != nil {
		return nil, err
	}
	if members != nil {
		roster.Members = members
	}
	return roster, nil
}

// CreateWithRoster creates a session and all of its status rows in one
// transaction. Nothing is stored when any part fails.
func (s *AttendanceService) CreateWithRoster(ctx context.Context, in CreateRosterInput) (*RosterWriteResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	entries, err := rosterEntries(in.MemberAttendances)
	if err != nil {
		return nil, err
	}
	session, err := s.newSession(CreateAttendanceInput{Date: in.Date, Type: in.Type})
	if err != nil {
		return nil, err
	}

	var count int
	err = database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		attendance := s.attendance.WithTx(tx)
		if err := s.ensureMembersExist(ctx, s.members.WithTx(tx), entries); err != nil {
			return err
		}
		if err := s.ensureUnique(ctx, attendance, session); err != nil {
			return err
		}
		if err := attendance.CreateSession(ctx, session); err != nil {
			return err
		}
		count, err = attendance.InsertStatuses(ctx, session.ID, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RosterWriteResult{Success: true, Count: count, Session: session}, nil
}

// ReplaceRoster swaps the whole roster of a session for the given entries.
// Members left out lose their status row. Concurrent replaces of the same
// session are serialized by the store and the last one wins.
func (s *AttendanceService) ReplaceRoster(ctx context.Context, sessionID int64, in ReplaceRosterInput) (*RosterWriteResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	entries, err := rosterEntries(in.MemberAttendances)
	if err != nil {
		return nil, err
	}

	var count int
	err = database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		attendance := s.attendance.WithTx(tx)
		session, err := attendance.GetSession(ctx, sessionID)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrAttendanceNotFound
		}
		if err := s.ensureMembersExist(ctx, s.members.WithTx(tx), entries); err != nil {
			return err
		}
		if err := attendance.DeleteStatuses(ctx, sessionID); err != nil {
			return err
		}
		count, err = attendance.InsertStatuses(ctx, sessionID, entries)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &RosterWriteResult{Success: true, Count: count}, nil
}

// rosterEntries converts validated entries, rejecting a member listed twice.
func rosterEntries(in []RosterEntry) ([]models.MemberAttendance, error) {
	seen := make(map[int64]int, len(in))
	out := make([]models.MemberAttendance, 0, len(in))
	for i, e := range in {
		if first, dup := seen[e.MemberID]; dup {
			return nil, Invalid("Invalid input", map[string]string{
				fmt.Sprintf("memberAttendances[%d].memberId", i): fmt.Sprintf("duplicates memberAttendances[%d]", first),
			})
		}
		seen[e.MemberID] = i
		out = append(out, models.MemberAttendance{MemberID: e.MemberID, Status: models.AttendanceStatus(e.Status)})
	}
	return out, nil
}

func (s *AttendanceService) ensureMembersExist(ctx context.Context, members *repository.MemberRepository, entries []models.MemberAttendance) error {
	ids := make([]int64, len(entries))
	for i, e := range entries {
		ids[i] = e.MemberID
	}
	found, err := members.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !found[id] {
			return ErrMemberNotFound
		}
	}
	return nil
}
