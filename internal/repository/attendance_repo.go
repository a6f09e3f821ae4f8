package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"churchadmin/internal/database"
	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
)

// AttendanceFilter narrows the session list
type AttendanceFilter struct {
	Type   string
	Dates  listquery.DateRange
	Search string
}

func (f AttendanceFilter) compile() (string, []any) {
	// Type labels are shown with spaces ("Sunday Service") but stored with underscores.
	search := strings.Join(strings.Fields(f.Search), "_")

	var q listquery.Filter
	q.Eq("type", f.Type).
		Range("date", f.Dates).
		Search(search, "type")
	return q.Compile()
}

// AttendanceRepository handles attendance sessions and their member statuses
type AttendanceRepository struct {
	db database.DBTX
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db database.DBTX) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *AttendanceRepository) WithTx(tx *database.Tx) *AttendanceRepository {
	return &AttendanceRepository{db: tx}
}

// CreateSession inserts s and fills in its ID and timestamps
func (r *AttendanceRepository) CreateSession(ctx context.Context, s *models.AttendanceSession) error {
	now := dbTime(time.Now())
	s.Date = dbTime(s.Date)
	s.CreatedAt, s.UpdatedAt = now, now

	query := "INSERT INTO attendance_sessions (date, type, created_at, updated_at) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningIDContext(ctx, query, s.Date, string(s.Type), now, now)
	if err != nil {
		return fmt.Errorf("failed to create attendance session: %w", err)
	}
	s.ID = id
	return nil
}

// GetSession retrieves a session by ID
func (r *AttendanceRepository) GetSession(ctx context.Context, id int64) (*models.AttendanceSession, error) {
	query := "SELECT id, date, type, created_at, updated_at FROM attendance_sessions WHERE id = ?"
	s, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}
	return s, nil
}

// FindSession returns a session of the given type dated within day,
// ignoring excludeID (0 excludes nothing).
func (r *AttendanceRepository) FindSession(ctx context.Context, sessionType models.AttendanceType, day listquery.DateRange, excludeID int64) (*models.AttendanceSession, error) {
	var q listquery.Filter
	q.Eq("type", string(sessionType)).Range("date", day)
	if excludeID != 0 {
		q.Where("id <> ?", excludeID)
	}
	where, args := q.Compile()

	query := "SELECT id, date, type, created_at, updated_at FROM attendance_sessions" + where + " ORDER BY id LIMIT 1"
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find attendance session: %w", err)
	}
	return s, nil
}

// UpdateSession writes the date and type of s
func (r *AttendanceRepository) UpdateSession(ctx context.Context, s *models.AttendanceSession) error {
	s.Date = dbTime(s.Date)
	s.UpdatedAt = dbTime(time.Now())

	query := "UPDATE attendance_sessions SET date = ?, type = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, s.Date, string(s.Type), s.UpdatedAt, s.ID); err != nil {
		return fmt.Errorf("failed to update attendance session: %w", err)
	}
	return nil
}

// DeleteSession removes a session together with its statuses
func (r *AttendanceRepository) DeleteSession(ctx context.Context, id int64) error {
	if err := r.DeleteStatuses(ctx, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attendance_sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete attendance session: %w", err)
	}
	return nil
}

// ListSessions returns one page of sessions, latest date first, and the filtered total
func (r *AttendanceRepository) ListSessions(ctx context.Context, filter AttendanceFilter, page listquery.Page) ([]models.AttendanceSession, int64, error) {
	where, args := filter.compile()

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance sessions: %w", err)
	}

	query := "SELECT id, date, type, created_at, updated_at FROM attendance_sessions" + where +
		" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}

// ListAllSessions returns every session ordered by ID, for backups
func (r *AttendanceRepository) ListAllSessions(ctx context.Context) ([]models.AttendanceSession, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, date, type, created_at, updated_at FROM attendance_sessions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.AttendanceSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

// ListStatuses returns the statuses recorded for a session, each with the
// member's summary, ordered by member name
func (r *AttendanceRepository) ListStatuses(ctx context.Context, sessionID int64) ([]models.MemberAttendance, error) {
	query := `
		SELECT a.id, a.session_id, a.member_id, a.status, a.created_at,
			m.id, m.first_name, m.last_name, m.middle_name, m.image
		FROM attendance_member_statuses a
		JOIN members m ON m.id = a.member_id
		WHERE a.session_id = ?
		ORDER BY m.last_name ASC, m.first_name ASC, a.id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance statuses: %w", err)
	}
	defer rows.Close()

	var out []models.MemberAttendance
	for rows.Next() {
		var a models.MemberAttendance
		var status string
		var member models.MemberSummary
		var middle, image sql.NullString
		if err := rows.Scan(&a.ID, &a.SessionID, &a.MemberID, &status, &a.CreatedAt,
			&member.ID, &member.FirstName, &member.LastName, &middle, &image); err != nil {
			return nil, fmt.Errorf("failed to scan attendance status: %w", err)
		}
		a.Status = models.AttendanceStatus(status)
		a.CreatedAt = a.CreatedAt.UTC()
		member.MiddleName, member.Image = stringPtr(middle), stringPtr(image)
		a.Member = &member
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListAllStatuses returns every status row ordered by ID, for backups
func (r *AttendanceRepository) ListAllStatuses(ctx context.Context) ([]models.MemberAttendance, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, session_id, member_id, status, created_at FROM attendance_member_statuses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance statuses: %w", err)
	}
	defer rows.Close()

	var out []models.MemberAttendance
	for rows.Next() {
		var a models.MemberAttendance
		var status string
		if err := rows.Scan(&a.ID, &a.SessionID, &a.MemberID, &status, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance status: %w", err)
		}
		a.Status = models.AttendanceStatus(status)
		a.CreatedAt = a.CreatedAt.UTC()
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteStatuses removes every status row of a session
func (r *AttendanceRepository) DeleteStatuses(ctx context.Context, sessionID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM attendance_member_statuses WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete attendance statuses: %w", err)
	}
	return nil
}

// InsertStatuses adds status rows for a session and returns how many were written
func (r *AttendanceRepository) InsertStatuses(ctx context.Context, sessionID int64, entries []models.MemberAttendance) (int, error) {
	now := dbTime(time.Now())
	query := "INSERT INTO attendance_member_statuses (session_id, member_id, status, created_at) VALUES (?, ?, ?, ?)"
	for _, e := range entries {
		if _, err := r.db.ExecContext(ctx, query, sessionID, e.MemberID, string(e.Status), now); err != nil {
			return 0, fmt.Errorf("failed to insert attendance status for member %d: %w", e.MemberID, err)
		}
	}
	return len(entries), nil
}

func scanSession(row rowScanner) (*models.AttendanceSession, error) {
	var s models.AttendanceSession
	var sessionType string
	if err := row.Scan(&s.ID, &s.Date, &sessionType, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Type = models.AttendanceType(sessionType)
	s.Date, s.CreatedAt, s.UpdatedAt = s.Date.UTC(), s.CreatedAt.UTC(), s.UpdatedAt.UTC()
	return &s, nil
}
