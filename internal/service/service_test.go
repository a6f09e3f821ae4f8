package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchadmin/internal/database"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
	"churchadmin/migrations"
)

// manila is a fixed +08:00 zone, so day boundaries differ from UTC.
var manila = time.FixedZone("PHT", 8*60*60)

type testEnv struct {
	db         *database.DB
	members    *MemberService
	attendance *AttendanceService
	offerings  *OfferingService
	prayers    *PrayerRequestService
	auth       *AuthService
	backup     *BackupService
	notifier   *recordingNotifier
}

type recordingNotifier struct {
	sent []*models.PrayerRequest
	err  error
}

func (n *recordingNotifier) SendPrayerRequestNotification(ctx context.Context, p *models.PrayerRequest) error {
	n.sent = append(n.sent, p)
	return n.err
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "church.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(context.Background(), migrations.FS))

	memberRepo := repository.NewMemberRepository(db)
	notifier := &recordingNotifier{}
	return &testEnv{
		db:         db,
		members:    NewMemberService(db, memberRepo, manila),
		attendance: NewAttendanceService(db, repository.NewAttendanceRepository(db), memberRepo, manila),
		offerings:  NewOfferingService(repository.NewOfferingRepository(db), memberRepo, manila),
		prayers:    NewPrayerRequestService(repository.NewPrayerRequestRepository(db), memberRepo, notifier, manila),
		auth:       NewAuthService(repository.NewAdminRepository(db)),
		backup:     NewBackupService(db),
		notifier:   notifier,
	}
}

func (e *testEnv) createMember(t *testing.T, first, last string) *models.Member {
	t.Helper()
	m, err := e.members.Create(context.Background(), CreateMemberInput{
		FirstName:    first,
		LastName:     last,
		DateOfBirth:  "1985-06-12",
		PlaceOfBirth: "Quezon City",
		Sex:          "FEMALE",
	})
	require.NoError(t, err)
	return m
}

func strPtr(s string) *string { return &s }

func int64Ptr(n int64) *int64 { return &n }

func moneyPtr(amount float64) *models.Money {
	m := models.MoneyFromFloat(amount)
	return &m
}

func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, KindOf(err), "error: %v", err)
}
