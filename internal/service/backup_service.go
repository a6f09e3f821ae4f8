package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/database"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

const backupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version            string                     `json:"version"`
	ExportedAt         time.Time                  `json:"exported_at"`
	DatabaseType       string                     `json:"database_type"`
	Admins             []AdminBackup              `json:"admins"`
	Members            []models.Member            `json:"members"`
	AttendanceSessions []models.AttendanceSession `json:"attendance_sessions"`
	MemberAttendances  []models.MemberAttendance  `json:"member_attendances"`
	Offerings          []models.Offering          `json:"offerings"`
	PrayerRequests     []models.PrayerRequest     `json:"prayer_requests"`
}

// AdminBackup represents an admin account for backup. The password hash is
// included so restored admins can still log in.
type AdminBackup struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(ctx, file); err != nil {
		return err
	}
	log.WithField("path", outputPath).Info("Database exported")
	return nil
}

// ExportToWriter writes a complete backup as indented JSON to w
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup, err := s.collect(ctx)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.WithFields(log.Fields{
		"admins":             len(backup.Admins),
		"members":            len(backup.Members),
		"attendance":         len(backup.AttendanceSessions),
		"member_attendances": len(backup.MemberAttendances),
		"offerings":          len(backup.Offerings),
		"prayer_requests":    len(backup.PrayerRequests),
	}).Info("Backup written")
	return nil
}

func (s *BackupService) collect(ctx context.Context) (*BackupData, error) {
	backup := &BackupData{
		Version:      backupVersion,
		ExportedAt:   time.Now().UTC(),
		DatabaseType: s.db.Dialect.DriverName(),
	}

	admins, err := repository.NewAdminRepository(s.db).ListAllAdmins(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export admins: %w", err)
	}
	for _, a := range admins {
		backup.Admins = append(backup.Admins, AdminBackup{
			ID:           a.ID,
			Username:     a.Username,
			PasswordHash: a.PasswordHash,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.UpdatedAt,
		})
	}

	if backup.Members, err = repository.NewMemberRepository(s.db).ListAllMembers(ctx); err != nil {
		return nil, fmt.Errorf("failed to export members: %w", err)
	}

	attendance := repository.NewAttendanceRepository(s.db)
	if backup.AttendanceSessions, err = attendance.ListAllSessions(ctx); err != nil {
		return nil, fmt.Errorf("failed to export attendance sessions: %w", err)
	}
	if backup.MemberAttendances, err = attendance.ListAllStatuses(ctx); err != nil {
		return nil, fmt.Errorf("failed to export attendance statuses: %w", err)
	}

	if backup.Offerings, err = repository.NewOfferingRepository(s.db).ListAllOfferings(ctx); err != nil {
		return nil, fmt.Errorf("failed to export offerings: %w", err)
	}
	if backup.PrayerRequests, err = repository.NewPrayerRequestRepository(s.db).ListAllPrayerRequests(ctx); err != nil {
		return nil, fmt.Errorf("failed to export prayer requests: %w", err)
	}
	return backup, nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader replaces every church record with the backup read from
// reader. The restore runs in one transaction.
func (s *BackupService) ImportFromReader(ctx context.Context, reader io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(reader).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.WithFields(log.Fields{
		"version":     backup.Version,
		"exported_at": backup.ExportedAt,
		"source":      backup.DatabaseType,
	}).Info("Starting database import")

	err := database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		restore := repository.NewRestoreRepository(tx)
		if err := restore.Clear(ctx); err != nil {
			return err
		}

		for _, a := range backup.Admins {
			admin := models.Admin{ID: a.ID, Username: a.Username, PasswordHash: a.PasswordHash, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt}
			if err := restore.RestoreAdmin(ctx, &admin); err != nil {
				return err
			}
		}
		for i := range backup.Members {
			if err := restore.RestoreMember(ctx, &backup.Members[i]); err != nil {
				return err
			}
		}
		for i := range backup.AttendanceSessions {
			if err := restore.RestoreSession(ctx, &backup.AttendanceSessions[i]); err != nil {
				return err
			}
		}
		for i := range backup.MemberAttendances {
			if err := restore.RestoreStatus(ctx, &backup.MemberAttendances[i]); err != nil {
				return err
			}
		}
		for i := range backup.Offerings {
			if err := restore.RestoreOffering(ctx, &backup.Offerings[i]); err != nil {
				return err
			}
		}
		for i := range backup.PrayerRequests {
			if err := restore.RestorePrayerRequest(ctx, &backup.PrayerRequests[i]); err != nil {
				return err
			}
		}
		return restore.ResetSequences(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}

	log.Info("Database import completed")
	return nil
}
