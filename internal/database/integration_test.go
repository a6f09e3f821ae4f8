package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"churchadmin/migrations"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "church.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()

	tables := []string{"admins", "members", "attendance_sessions", "attendance_member_statuses", "offerings", "prayer_requests"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again must be a no-op.
	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var applied int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&applied); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if applied != 1 {
		t.Errorf("Expected 1 applied migration, got %d", applied)
	}
}

// TestWithTx tests commit and rollback through the transaction helper
func TestWithTx(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	err := WithTx(ctx, db, func(tx *Tx) error {
		_, err := tx.ExecReturningIDContext(ctx,
			"INSERT INTO attendance_sessions (date, type, created_at, updated_at) VALUES (?, ?, ?, ?)",
			now, "SUNDAY_SERVICE", now, now)
		return err
	})
	if err != nil {
		t.Fatalf("Committed transaction failed: %v", err)
	}

	boom := errors.New("boom")
	err = WithTx(ctx, db, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO attendance_sessions (date, type, created_at, updated_at) VALUES (?, ?, ?, ?)",
			now, "BIBLE_STUDY", now, now); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected rollback error to be returned, got %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_sessions").Scan(&count); err != nil {
		t.Fatalf("Failed to count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 session after rollback, got %d", count)
	}
}

// TestForeignKeysEnforced checks that cascading deletes reach roster rows
func TestForeignKeysEnforced(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	sessionID, err := db.ExecReturningIDContext(ctx,
		"INSERT INTO attendance_sessions (date, type, created_at, updated_at) VALUES (?, ?, ?, ?)",
		now, "SUNDAY_SERVICE", now, now)
	if err != nil {
		t.Fatalf("Failed to insert session: %v", err)
	}
	memberID, err := db.ExecReturningIDContext(ctx,
		`INSERT INTO members (last_name, first_name, date_of_birth, place_of_birth, sex, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"Cruz", "Juan", now, "Manila", "MALE", now, now)
	if err != nil {
		t.Fatalf("Failed to insert member: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO attendance_member_statuses (session_id, member_id, status, created_at) VALUES (?, ?, ?, ?)",
		sessionID, memberID, "PRESENT", now); err != nil {
		t.Fatalf("Failed to insert status: %v", err)
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM attendance_sessions WHERE id = ?", sessionID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM attendance_member_statuses").Scan(&count); err != nil {
		t.Fatalf("Failed to count statuses: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected statuses to cascade, %d left", count)
	}
}
