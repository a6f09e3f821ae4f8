package service

import (
	"context"
	"fmt"
	"time"

	"churchadmin/internal/database"
	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

// ListAttendanceParams filters the session list
type ListAttendanceParams struct {
	PageParams
	DateRangeParams
	Type   string `json:"type" validate:"omitempty,oneof=SUNDAY_SERVICE BIBLE_STUDY PRAYER_MEETING YOUTH_SERVICE MIDWEEK_SERVICE SPECIAL_EVENT"`
	Search string `json:"search"`
}

// CreateAttendanceInput describes a new session
type CreateAttendanceInput struct {
	Date string `json:"date" validate:"required,dateonly"`
	Type string `json:"type" validate:"omitempty,oneof=SUNDAY_SERVICE BIBLE_STUDY PRAYER_MEETING YOUTH_SERVICE MIDWEEK_SERVICE SPECIAL_EVENT"`
}

// UpdateAttendanceInput changes the date and/or type of a session
type UpdateAttendanceInput struct {
	Date *string `json:"date" validate:"omitempty,min=1,dateonly"`
	Type *string `json:"type" validate:"omitempty,oneof=SUNDAY_SERVICE BIBLE_STUDY PRAYER_MEETING YOUTH_SERVICE MIDWEEK_SERVICE SPECIAL_EVENT"`
}

// AttendanceService manages attendance sessions and their rosters
type AttendanceService struct {
	db         *database.DB
	attendance *repository.AttendanceRepository
	members    *repository.MemberRepository
	loc        *time.Location
}

// NewAttendanceService creates a new attendance service
func NewAttendanceService(db *database.DB, attendance *repository.AttendanceRepository, members *repository.MemberRepository, loc *time.Location) *AttendanceService {
	return &AttendanceService{db: db, attendance: attendance, members: members, loc: loc}
}

// List returns a page of sessions, latest first
func (s *AttendanceService) List(ctx context.Context, params ListAttendanceParams) (listquery.Result[models.AttendanceSession], error) {
	if err := validateInput(params); err != nil {
		return listquery.Result[models.AttendanceSession]{}, err
	}
	dates, err := params.dateRange(s.loc)
	if err != nil {
		return listquery.Result[models.AttendanceSession]{}, err
	}

	page := params.page()
	filter := repository.AttendanceFilter{Type: params.Type, Dates: dates, Search: params.Search}
	sessions, total, err := s.attendance.ListSessions(ctx, filter, page)
	if err != nil {
		return listquery.Result[models.AttendanceSession]{}, err
	}
	return listquery.NewResult(sessions, total, page), nil
}

// Get returns one session
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.AttendanceSession, error) {
	session, err := s.attendance.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrAttendanceNotFound
	}
	return session, nil
}

// Create adds a session. SUNDAY_SERVICE is assumed when no type is given.
func (s *AttendanceService) Create(ctx context.Context, in CreateAttendanceInput) (*models.AttendanceSession, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	session, err := s.newSession(in)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, s.attendance, session); err != nil {
		return nil, err
	}
	if err := s.attendance.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Update changes a session. The (day, type) uniqueness check runs on the
// values after the change.
func (s *AttendanceService) Update(ctx context.Context, id int64, in UpdateAttendanceInput) (*models.AttendanceSession, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Date != nil {
		if session.Date, err = parseDate("date", *in.Date, s.loc); err != nil {
			return nil, err
		}
	}
	if in.Type != nil {
		session.Type = models.AttendanceType(*in.Type)
	}

	if err := s.ensureUnique(ctx, s.attendance, session); err != nil {
		return nil, err
	}
	if err := s.attendance.UpdateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session and its roster
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		return s.attendance.WithTx(tx).DeleteSession(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete attendance session %d: %w", id, err)
	}
	return nil
}

func (s *AttendanceService) newSession(in CreateAttendanceInput) (*models.AttendanceSession, error) {
	date, err := parseDate("date", in.Date, s.loc)
	if err != nil {
		return nil, err
	}
	session := &models.AttendanceSession{Date: date, Type: models.AttendanceSundayService}
	if in.Type != "" {
		session.Type = models.AttendanceType(in.Type)
	}
	return session, nil
}

// ensureUnique rejects a session whose calendar day and type are already
// taken by another session.
func (s *AttendanceService) ensureUnique(ctx context.Context, repo *repository.AttendanceRepository, session *models.AttendanceSession) error {
	existing, err := repo.FindSession(ctx, session.Type, listquery.DayRange(session.Date, s.loc), session.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return Conflict(fmt.Sprintf("Attendance for %s on this date already exists", session.Type))
	}
	return nil
}
