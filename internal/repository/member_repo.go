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

const memberColumns = `id, user_type, image, last_name, first_name, middle_name, fathers_name, mothers_name,
	date_of_birth, place_of_birth, sex, height, weight, present_address, occupation, blood_type,
	job_experience, cellphone_number, home_telephone_number, email, spouse_name, birth_order,
	citizenship, previous_religion, date_accepted_the_lord, person_led_you_to_the_lord,
	first_day_of_church_attendance, date_water_baptized, date_spirit_baptized, created_at, updated_at`

// MemberFilter narrows the member list
type MemberFilter struct {
	Search   string
	Sex      string
	UserType string
}

func (f MemberFilter) compile() (string, []any) {
	var q listquery.Filter
	q.Eq("sex", f.Sex).
		Eq("user_type", f.UserType).
		Search(f.Search, "first_name", "middle_name", "last_name")
	return q.Compile()
}

// MemberRepository handles database operations for members and guests
type MemberRepository struct {
	db database.DBTX
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db database.DBTX) *MemberRepository {
	return &MemberRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *MemberRepository) WithTx(tx *database.Tx) *MemberRepository {
	return &MemberRepository{db: tx}
}

// CreateMember inserts m and fills in its ID and timestamps
func (r *MemberRepository) CreateMember(ctx context.Context, m *models.Member) error {
	now := dbTime(time.Now())
	m.CreatedAt, m.UpdatedAt = now, now

	query := `
		INSERT INTO members (user_type, image, last_name, first_name, middle_name, fathers_name, mothers_name,
			date_of_birth, place_of_birth, sex, height, weight, present_address, occupation, blood_type,
			job_experience, cellphone_number, home_telephone_number, email, spouse_name, birth_order,
			citizenship, previous_religion, date_accepted_the_lord, person_led_you_to_the_lord,
			first_day_of_church_attendance, date_water_baptized, date_spirit_baptized, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := append(memberValues(m), now, now)
	id, err := r.db.ExecReturningIDContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	m.ID = id
	return nil
}

// GetMemberByID retrieves a member by ID
func (r *MemberRepository) GetMemberByID(ctx context.Context, id int64) (*models.Member, error) {
	query := "SELECT " + memberColumns + " FROM members WHERE id = ?"
	m, err := scanMember(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return m, nil
}

// UpdateMember writes every mutable column of m
func (r *MemberRepository) UpdateMember(ctx context.Context, m *models.Member) error {
	m.UpdatedAt = dbTime(time.Now())

	query := `
		UPDATE members SET user_type = ?, image = ?, last_name = ?, first_name = ?, middle_name = ?,
			fathers_name = ?, mothers_name = ?, date_of_birth = ?, place_of_birth = ?, sex = ?, height = ?,
			weight = ?, present_address = ?, occupation = ?, blood_type = ?, job_experience = ?,
			cellphone_number = ?, home_telephone_number = ?, email = ?, spouse_name = ?, birth_order = ?,
			citizenship = ?, previous_religion = ?, date_accepted_the_lord = ?, person_led_you_to_the_lord = ?,
			first_day_of_church_attendance = ?, date_water_baptized = ?, date_spirit_baptized = ?, updated_at = ?
		WHERE id = ?
	`
	args := append(memberValues(m), m.UpdatedAt, m.ID)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

// DeleteMember removes a member. Offerings and prayer requests keep their
// rows with the member link cleared; attendance statuses are removed. Call
// inside a transaction so the detach and delete land together.
func (r *MemberRepository) DeleteMember(ctx context.Context, id int64) error {
	statements := []string{
		"UPDATE offerings SET member_id = NULL WHERE member_id = ?",
		"UPDATE prayer_requests SET member_id = NULL WHERE member_id = ?",
		"DELETE FROM attendance_member_statuses WHERE member_id = ?",
		"DELETE FROM members WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
	}
	return nil
}

// ListMembers returns one page of members, newest first, and the filtered total
func (r *MemberRepository) ListMembers(ctx context.Context, filter MemberFilter, page listquery.Page) ([]models.Member, int64, error) {
	where, args := filter.compile()

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM members"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}

	query := "SELECT " + memberColumns + " FROM members" + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, total, rows.Err()
}

// ListSummaries returns the member directory ordered by last then first name
func (r *MemberRepository) ListSummaries(ctx context.Context, search string) ([]models.MemberSummary, error) {
	var filter listquery.Filter
	filter.Search(search, "first_name", "middle_name", "last_name")
	where, args := filter.Compile()

	query := "SELECT id, first_name, last_name, middle_name, image FROM members" + where + " ORDER BY last_name ASC, first_name ASC, id ASC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var out []models.MemberSummary
	for rows.Next() {
		var s models.MemberSummary
		var middle, image sql.NullString
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName, &middle, &image); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		s.MiddleName, s.Image = stringPtr(middle), stringPtr(image)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ExistingIDs reports which of ids exist
func (r *MemberRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	in, args := inClause(ids)
	rows, err := r.db.QueryContext(ctx, "SELECT id FROM members WHERE id IN "+in, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to check members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan member id: %w", err)
		}
		found[id] = true
	}
	return found, rows.Err()
}

// ListAllMembers returns every member ordered by ID, for backups
func (r *MemberRepository) ListAllMembers(ctx context.Context) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+memberColumns+" FROM members ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func memberValues(m *models.Member) []any {
	return []any{
		string(m.UserType), nullString(m.Image), m.LastName, m.FirstName, nullString(m.MiddleName),
		nullString(m.FathersName), nullString(m.MothersName), dbTime(m.DateOfBirth), m.PlaceOfBirth, m.Sex,
		nullString(m.Height), nullString(m.Weight), nullString(m.PresentAddress), nullString(m.Occupation),
		nullString(m.BloodType), nullJSON(m.JobExperience), nullString(m.CellphoneNumber),
		nullString(m.HomeTelephoneNumber), nullString(m.Email), nullString(m.SpouseName), nullString(m.BirthOrder),
		m.Citizenship, nullString(m.PreviousReligion), nullTime(m.DateAcceptedTheLord),
		nullString(m.PersonLedYouToTheLord), nullTime(m.FirstDayOfChurchAttendance),
		nullTime(m.DateWaterBaptized), nullTime(m.DateSpiritBaptized),
	}
}

func scanMember(row rowScanner) (*models.Member, error) {
	var m models.Member
	var userType string
	var image, middle, fathers, mothers, height, weight, address sql.NullString
	var occupation, blood, jobExp, cell, home, email, spouse sql.NullString
	var birthOrder, prevReligion, ledBy sql.NullString
	var acceptedLord, firstAttendance, waterBaptized, spiritBaptized sql.NullTime

	err := row.Scan(
		&m.ID, &userType, &image, &m.LastName, &m.FirstName, &middle, &fathers, &mothers,
		&m.DateOfBirth, &m.PlaceOfBirth, &m.Sex, &height, &weight, &address, &occupation, &blood,
		&jobExp, &cell, &home, &email, &spouse, &birthOrder,
		&m.Citizenship, &prevReligion, &acceptedLord, &ledBy,
		&firstAttendance, &waterBaptized, &spiritBaptized, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.UserType = models.UserType(userType)
	m.Image, m.MiddleName, m.FathersName, m.MothersName = stringPtr(image), stringPtr(middle), stringPtr(fathers), stringPtr(mothers)
	m.Height, m.Weight, m.PresentAddress = stringPtr(height), stringPtr(weight), stringPtr(address)
	m.Occupation, m.BloodType, m.JobExperience = stringPtr(occupation), stringPtr(blood), rawJSON(jobExp)
	m.CellphoneNumber, m.HomeTelephoneNumber, m.Email = stringPtr(cell), stringPtr(home), stringPtr(email)
	m.SpouseName, m.BirthOrder, m.PreviousReligion = stringPtr(spouse), stringPtr(birthOrder), stringPtr(prevReligion)
	m.PersonLedYouToTheLord = stringPtr(ledBy)
	m.DateAcceptedTheLord, m.FirstDayOfChurchAttendance = timePtr(acceptedLord), timePtr(firstAttendance)
	m.DateWaterBaptized, m.DateSpiritBaptized = timePtr(waterBaptized), timePtr(spiritBaptized)
	m.DateOfBirth, m.CreatedAt, m.UpdatedAt = m.DateOfBirth.UTC(), m.CreatedAt.UTC(), m.UpdatedAt.UTC()
	return &m, nil
}
