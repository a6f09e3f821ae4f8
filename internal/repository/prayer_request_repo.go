package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"churchadmin/internal/database"
	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
)

const prayerRequestSelect = `
	SELECT p.id, p.member_id, p.title, p.description, p.note, p.date_to_pray, p.status, p.created_at, p.updated_at,
		m.id, m.first_name, m.last_name, m.user_type, m.email, m.cellphone_number
	FROM prayer_requests p
	LEFT JOIN members m ON m.id = p.member_id`

// PrayerRequestFilter narrows prayer request lists and stats.
// Dates apply to the submission time.
type PrayerRequestFilter struct {
	Status   string
	UserType string
	Dates    listquery.DateRange
	Search   string
}

func (f PrayerRequestFilter) compile() (string, []any) {
	var q listquery.Filter
	q.Eq("p.status", f.Status).
		Eq("m.user_type", f.UserType).
		Range("p.created_at", f.Dates).
		Search(f.Search, "m.first_name", "m.last_name", "m.email", "p.title", "p.description", "p.note")
	return q.Compile()
}

// PrayerRequestBucket is one group of the stats aggregation
type PrayerRequestBucket struct {
	Status   string
	UserType string
	Count    int64
}

// PrayerRequestRepository handles database operations for prayer requests
type PrayerRequestRepository struct {
	db database.DBTX
}

// NewPrayerRequestRepository creates a new prayer request repository
func NewPrayerRequestRepository(db database.DBTX) *PrayerRequestRepository {
	return &PrayerRequestRepository{db: db}
}

// CreatePrayerRequest inserts p and fills in its ID and timestamps
func (r *PrayerRequestRepository) CreatePrayerRequest(ctx context.Context, p *models.PrayerRequest) error {
	now := dbTime(time.Now())
	p.CreatedAt, p.UpdatedAt = now, now

	query := `
		INSERT INTO prayer_requests (member_id, title, description, note, date_to_pray, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningIDContext(ctx, query,
		nullInt64(p.MemberID), p.Title, p.Description, nullString(p.Note), nullTime(p.DateToPray),
		string(p.Status), now, now)
	if err != nil {
		return fmt.Errorf("failed to create prayer request: %w", err)
	}
	p.ID = id
	return nil
}

// GetPrayerRequestByID retrieves a prayer request with its member's contact details
func (r *PrayerRequestRepository) GetPrayerRequestByID(ctx context.Context, id int64) (*models.PrayerRequest, error) {
	p, err := scanPrayerRequest(r.db.QueryRowContext(ctx, prayerRequestSelect+" WHERE p.id = ?", id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prayer request: %w", err)
	}
	return p, nil
}

// UpdatePrayerRequest writes every mutable column of p
func (r *PrayerRequestRepository) UpdatePrayerRequest(ctx context.Context, p *models.PrayerRequest) error {
	p.UpdatedAt = dbTime(time.Now())

	query := `
		UPDATE prayer_requests SET member_id = ?, title = ?, description = ?, note = ?, date_to_pray = ?,
			status = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		nullInt64(p.MemberID), p.Title, p.Description, nullString(p.Note), nullTime(p.DateToPray),
		string(p.Status), p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update prayer request: %w", err)
	}
	return nil
}

// DeletePrayerRequest removes a prayer request
func (r *PrayerRequestRepository) DeletePrayerRequest(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM prayer_requests WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete prayer request: %w", err)
	}
	return nil
}

// ListPrayerRequests returns one page of prayer requests, newest first, and the filtered total
func (r *PrayerRequestRepository) ListPrayerRequests(ctx context.Context, filter PrayerRequestFilter, page listquery.Page) ([]models.PrayerRequest, int64, error) {
	where, args := filter.compile()

	var total int64
	countQuery := "SELECT COUNT(*) FROM prayer_requests p LEFT JOIN members m ON m.id = p.member_id" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count prayer requests: %w", err)
	}

	query := prayerRequestSelect + where + " ORDER BY p.created_at DESC, p.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list prayer requests: %w", err)
	}
	defer rows.Close()

	var requests []models.PrayerRequest
	for rows.Next() {
		p, err := scanPrayerRequest(rows, false)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan prayer request: %w", err)
		}
		requests = append(requests, *p)
	}
	return requests, total, rows.Err()
}

// ListAllPrayerRequests returns every prayer request ordered by ID, for backups
func (r *PrayerRequestRepository) ListAllPrayerRequests(ctx context.Context) ([]models.PrayerRequest, error) {
	rows, err := r.db.QueryContext(ctx, prayerRequestSelect+" ORDER BY p.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list prayer requests: %w", err)
	}
	defer rows.Close()

	var requests []models.PrayerRequest
	for rows.Next() {
		p, err := scanPrayerRequest(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prayer request: %w", err)
		}
		requests = append(requests, *p)
	}
	return requests, rows.Err()
}

// Buckets groups the filtered prayer requests by status and member user
// type (GUEST when there is no member)
func (r *PrayerRequestRepository) Buckets(ctx context.Context, filter PrayerRequestFilter) ([]PrayerRequestBucket, error) {
	where, args := filter.compile()

	query := `
		SELECT p.status, COALESCE(m.user_type, 'GUEST'), COUNT(*)
		FROM prayer_requests p
		LEFT JOIN members m ON m.id = p.member_id` + where + `
		GROUP BY p.status, COALESCE(m.user_type, 'GUEST')`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate prayer requests: %w", err)
	}
	defer rows.Close()

	var buckets []PrayerRequestBucket
	for rows.Next() {
		var b PrayerRequestBucket
		if err := rows.Scan(&b.Status, &b.UserType, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan prayer request aggregate: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func scanPrayerRequest(row rowScanner, withContact bool) (*models.PrayerRequest, error) {
	var p models.PrayerRequest
	var status string
	var memberID, refID sql.NullInt64
	var dateToPray sql.NullTime
	var note, firstName, lastName, userType, email, cell sql.NullString

	err := row.Scan(&p.ID, &memberID, &p.Title, &p.Description, &note, &dateToPray, &status,
		&p.CreatedAt, &p.UpdatedAt, &refID, &firstName, &lastName, &userType, &email, &cell)
	if err != nil {
		return nil, err
	}

	p.Status = models.PrayerStatus(status)
	p.MemberID = int64Ptr(memberID)
	p.Note = stringPtr(note)
	p.DateToPray = timePtr(dateToPray)
	p.CreatedAt, p.UpdatedAt = p.CreatedAt.UTC(), p.UpdatedAt.UTC()
	p.Member = memberRef(refID, firstName, lastName, userType)
	if p.Member != nil && withContact {
		p.Member.Email, p.Member.CellphoneNumber = stringPtr(email), stringPtr(cell)
	}
	return &p, nil
}
