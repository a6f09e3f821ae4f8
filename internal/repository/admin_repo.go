package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"churchadmin/internal/database"
	"churchadmin/internal/models"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db database.DBTX
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db database.DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

// CreateAdmin inserts a new admin account
func (r *AdminRepository) CreateAdmin(ctx context.Context, username, passwordHash string) (*models.Admin, error) {
	now := dbTime(time.Now())
	query := `
		INSERT INTO admins (username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningIDContext(ctx, query, username, passwordHash, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &models.Admin{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetAdminByUsername retrieves an admin by username
func (r *AdminRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `
		SELECT id, username, password_hash, created_at, updated_at
		FROM admins
		WHERE username = ?
	`
	admin := &models.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// UpdatePassword replaces an admin's password hash
func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := "UPDATE admins SET password_hash = ?, updated_at = ? WHERE id = ?"
	if _, err := r.db.ExecContext(ctx, query, passwordHash, dbTime(time.Now()), id); err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return nil
}

// ListAllAdmins returns every admin ordered by ID, for backups
func (r *AdminRepository) ListAllAdmins(ctx context.Context) ([]models.Admin, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, username, password_hash, created_at, updated_at FROM admins ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var admins []models.Admin
	for rows.Next() {
		var a models.Admin
		if err := rows.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin: %w", err)
		}
		a.CreatedAt, a.UpdatedAt = a.CreatedAt.UTC(), a.UpdatedAt.UTC()
		admins = append(admins, a)
	}
	return admins, rows.Err()
}
