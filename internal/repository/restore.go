package repository

import (
	"context"
	"fmt"

	"churchadmin/internal/database"
	"churchadmin/internal/models"
)

// restoreTables lists every church table, parents before children
var restoreTables = []string{
	"admins",
	"members",
	"attendance_sessions",
	"attendance_member_statuses",
	"offerings",
	"prayer_requests",
}

// RestoreRepository writes backup rows back with their original IDs and
// timestamps. Use it inside a transaction.
type RestoreRepository struct {
	db database.DBTX
}

// NewRestoreRepository creates a restore repository on db
func NewRestoreRepository(db database.DBTX) *RestoreRepository {
	return &RestoreRepository{db: db}
}

// Clear deletes every row of every church table
func (r *RestoreRepository) Clear(ctx context.Context) error {
	for i := len(restoreTables) - 1; i >= 0; i-- {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+restoreTables[i]); err != nil {
			return fmt.Errorf("failed to clear %s: %w", restoreTables[i], err)
		}
	}
	return nil
}

// ResetSequences moves id generators past the restored rows where the
// database needs it
func (r *RestoreRepository) ResetSequences(ctx context.Context) error {
	for _, table := range restoreTables {
		query := r.db.GetDialect().ResetSequenceQuery(table)
		if query == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to reset id sequence of %s: %w", table, err)
		}
	}
	return nil
}

func (r *RestoreRepository) RestoreAdmin(ctx context.Context, a *models.Admin) error {
	query := "INSERT INTO admins (id, username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.Username, a.PasswordHash, dbTime(a.CreatedAt), dbTime(a.UpdatedAt)); err != nil {
		return fmt.Errorf("failed to restore admin %d: %w", a.ID, err)
	}
	return nil
}

func (r *RestoreRepository) RestoreMember(ctx context.Context, m *models.Member) error {
	query := "INSERT INTO members (" + memberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{m.ID}, memberValues(m)...)
	args = append(args, dbTime(m.CreatedAt), dbTime(m.UpdatedAt))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to restore member %d: %w", m.ID, err)
	}
	return nil
}

func (r *RestoreRepository) RestoreSession(ctx context.Context, s *models.AttendanceSession) error {
	query := "INSERT INTO attendance_sessions (id, date, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, s.ID, dbTime(s.Date), string(s.Type), dbTime(s.CreatedAt), dbTime(s.UpdatedAt)); err != nil {
		return fmt.Errorf("failed to restore attendance session %d: %w", s.ID, err)
	}
	return nil
}

func (r *RestoreRepository) RestoreStatus(ctx context.Context, a *models.MemberAttendance) error {
	query := "INSERT INTO attendance_member_statuses (id, session_id, member_id, status, created_at) VALUES (?, ?, ?, ?, ?)"
	if _, err := r.db.ExecContext(ctx, query, a.ID, a.SessionID, a.MemberID, string(a.Status), dbTime(a.CreatedAt)); err != nil {
		return fmt.Errorf("failed to restore attendance status %d: %w", a.ID, err)
	}
	return nil
}

func (r *RestoreRepository) RestoreOffering(ctx context.Context, o *models.Offering) error {
	query := `
		INSERT INTO offerings (id, member_id, date, type, amount_cents, note, receipt_number, is_anonymous, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		o.ID, nullInt64(o.MemberID), dbTime(o.Date), string(o.Type), int64(o.Amount), nullString(o.Note),
		nullString(o.ReceiptNumber), o.IsAnonymous, dbTime(o.CreatedAt), dbTime(o.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to restore offering %d: %w", o.ID, err)
	}
	return nil
}

func (r *RestoreRepository) RestorePrayerRequest(ctx context.Context, p *models.PrayerRequest) error {
	query := `
		INSERT INTO prayer_requests (id, member_id, title, description, note, date_to_pray, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, nullInt64(p.MemberID), p.Title, p.Description, nullString(p.Note), nullTime(p.DateToPray),
		string(p.Status), dbTime(p.CreatedAt), dbTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to restore prayer request %d: %w", p.ID, err)
	}
	return nil
}
