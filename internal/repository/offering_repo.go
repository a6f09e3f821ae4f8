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

const offeringSelect = `
	SELECT o.id, o.member_id, o.date, o.type, o.amount_cents, o.note, o.receipt_number, o.is_anonymous,
		o.created_at, o.updated_at, m.id, m.first_name, m.last_name, m.user_type, m.email, m.cellphone_number
	FROM offerings o
	LEFT JOIN members m ON m.id = o.member_id`

// OfferingFilter narrows offering lists and stats
type OfferingFilter struct {
	Type        string
	UserType    string
	IsAnonymous *bool
	Dates       listquery.DateRange
	Search      string
}

func (f OfferingFilter) compile() (string, []any) {
	var q listquery.Filter
	q.Eq("o.type", f.Type).
		Eq("m.user_type", f.UserType).
		Bool("o.is_anonymous", f.IsAnonymous).
		Range("o.date", f.Dates).
		Search(f.Search, "m.first_name", "m.last_name", "m.email", "o.note", "o.receipt_number")
	return q.Compile()
}

// OfferingBucket is one group of the stats aggregation
type OfferingBucket struct {
	Type        string
	UserType    string
	IsAnonymous bool
	Count       int64
	AmountCents int64
}

// OfferingRepository handles database operations for tithes and offerings
type OfferingRepository struct {
	db database.DBTX
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(db database.DBTX) *OfferingRepository {
	return &OfferingRepository{db: db}
}

// CreateOffering inserts o and fills in its ID and timestamps
func (r *OfferingRepository) CreateOffering(ctx context.Context, o *models.Offering) error {
	now := dbTime(time.Now())
	o.Date = dbTime(o.Date)
	o.CreatedAt, o.UpdatedAt = now, now

	query := `
		INSERT INTO offerings (member_id, date, type, amount_cents, note, receipt_number, is_anonymous, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningIDContext(ctx, query,
		nullInt64(o.MemberID), o.Date, string(o.Type), int64(o.Amount), nullString(o.Note),
		nullString(o.ReceiptNumber), o.IsAnonymous, now, now)
	if err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	o.ID = id
	return nil
}

// GetOfferingByID retrieves an offering with its member's contact details
func (r *OfferingRepository) GetOfferingByID(ctx context.Context, id int64) (*models.Offering, error) {
	o, err := scanOffering(r.db.QueryRowContext(ctx, offeringSelect+" WHERE o.id = ?", id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return o, nil
}

// UpdateOffering writes every mutable column of o
func (r *OfferingRepository) UpdateOffering(ctx context.Context, o *models.Offering) error {
	o.Date = dbTime(o.Date)
	o.UpdatedAt = dbTime(time.Now())

	query := `
		UPDATE offerings SET member_id = ?, date = ?, type = ?, amount_cents = ?, note = ?,
			receipt_number = ?, is_anonymous = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query,
		nullInt64(o.MemberID), o.Date, string(o.Type), int64(o.Amount), nullString(o.Note),
		nullString(o.ReceiptNumber), o.IsAnonymous, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update offering: %w", err)
	}
	return nil
}

// DeleteOffering removes an offering
func (r *OfferingRepository) DeleteOffering(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM offerings WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete offering: %w", err)
	}
	return nil
}

// ReceiptNumberTaken reports whether another offering (not excludeID) uses receipt
func (r *OfferingRepository) ReceiptNumberTaken(ctx context.Context, receipt string, excludeID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM offerings WHERE receipt_number = ? AND id <> ?"
	if err := r.db.QueryRowContext(ctx, query, receipt, excludeID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check receipt number: %w", err)
	}
	return count > 0, nil
}

// ListOfferings returns one page of offerings, latest date first, with the
// filtered total count and total amount in cents
func (r *OfferingRepository) ListOfferings(ctx context.Context, filter OfferingFilter, page listquery.Page) ([]models.Offering, int64, int64, error) {
	where, args := filter.compile()

	var total, totalCents int64
	countQuery := "SELECT COUNT(*), COALESCE(SUM(o.amount_cents), 0) FROM offerings o LEFT JOIN members m ON m.id = o.member_id" + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total, &totalCents); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count offerings: %w", err)
	}

	query := offeringSelect + where + " ORDER BY o.date DESC, o.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer rows.Close()

	var offerings []models.Offering
	for rows.Next() {
		o, err := scanOffering(rows, false)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to scan offering: %w", err)
		}
		offerings = append(offerings, *o)
	}
	return offerings, total, totalCents, rows.Err()
}

// ListAllOfferings returns every offering ordered by ID, for backups
func (r *OfferingRepository) ListAllOfferings(ctx context.Context) ([]models.Offering, error) {
	rows, err := r.db.QueryContext(ctx, offeringSelect+" ORDER BY o.id")
	if err != nil {
		return nil, fmt.Errorf("failed to list offerings: %w", err)
	}
	defer rows.Close()

	var offerings []models.Offering
	for rows.Next() {
		o, err := scanOffering(rows, false)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offering: %w", err)
		}
		offerings = append(offerings, *o)
	}
	return offerings, rows.Err()
}

// Buckets groups the filtered offerings by type, member user type (GUEST
// when there is no member) and anonymity
func (r *OfferingRepository) Buckets(ctx context.Context, filter OfferingFilter) ([]OfferingBucket, error) {
	where, args := filter.compile()

	query := `
		SELECT o.type, COALESCE(m.user_type, 'GUEST'), o.is_anonymous, COUNT(*), COALESCE(SUM(o.amount_cents), 0)
		FROM offerings o
		LEFT JOIN members m ON m.id = o.member_id` + where + `
		GROUP BY o.type, COALESCE(m.user_type, 'GUEST'), o.is_anonymous`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate offerings: %w", err)
	}
	defer rows.Close()

	var buckets []OfferingBucket
	for rows.Next() {
		var b OfferingBucket
		if err := rows.Scan(&b.Type, &b.UserType, &b.IsAnonymous, &b.Count, &b.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan offering aggregate: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func scanOffering(row rowScanner, withContact bool) (*models.Offering, error) {
	var o models.Offering
	var offeringType string
	var amount int64
	var memberID, refID sql.NullInt64
	var note, receipt, firstName, lastName, userType, email, cell sql.NullString

	err := row.Scan(&o.ID, &memberID, &o.Date, &offeringType, &amount, &note, &receipt, &o.IsAnonymous,
		&o.CreatedAt, &o.UpdatedAt, &refID, &firstName, &lastName, &userType, &email, &cell)
	if err != nil {
		return nil, err
	}

	o.Type = models.OfferingType(offeringType)
	o.Amount = models.Money(amount)
	o.MemberID = int64Ptr(memberID)
	o.Note, o.ReceiptNumber = stringPtr(note), stringPtr(receipt)
	o.Date, o.CreatedAt, o.UpdatedAt = o.Date.UTC(), o.CreatedAt.UTC(), o.UpdatedAt.UTC()
	o.Member = memberRef(refID, firstName, lastName, userType)
	if o.Member != nil && withContact {
		o.Member.Email, o.Member.CellphoneNumber = stringPtr(email), stringPtr(cell)
	}
	return &o, nil
}

func memberRef(id sql.NullInt64, firstName, lastName, userType sql.NullString) *models.MemberRef {
	if !id.Valid {
		return nil
	}
	return &models.MemberRef{
		ID:        id.Int64,
		FirstName: firstName.String,
		LastName:  lastName.String,
		UserType:  models.UserType(userType.String),
	}
}
