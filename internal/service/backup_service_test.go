package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupRoundTrip(t *testing.T) {
	src := newTestEnv(t)
	ctx := context.Background()

	_, err := src.auth.CreateAdmin(ctx, "secretary", "minutes-2024")
	require.NoError(t, err)
	m := src.createMember(t, "Ana", "Bautista")
	_, err = src.attendance.CreateWithRoster(ctx, CreateRosterInput{
		Date:              "2024-03-17",
		MemberAttendances: []RosterEntry{{MemberID: m.ID, Status: "PRESENT"}},
	})
	require.NoError(t, err)
	_, err = src.offerings.Create(ctx, CreateOfferingInput{
		MemberID: int64Ptr(m.ID), Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(250.75), ReceiptNumber: strPtr("OR-9"),
	})
	require.NoError(t, err)
	_, err = src.prayers.Create(ctx, CreatePrayerRequestInput{Title: "Rain", Description: "For the harvest"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.backup.ExportToWriter(ctx, &buf))

	dst := newTestEnv(t)
	dst.createMember(t, "Stale", "Record")
	require.NoError(t, dst.backup.ImportFromReader(ctx, &buf))

	members, err := dst.members.List(ctx, ListMembersParams{})
	require.NoError(t, err)
	require.Len(t, members.Items, 1, "import replaces existing records")
	assert.Equal(t, m.ID, members.Items[0].ID)

	offerings, err := dst.offerings.List(ctx, ListOfferingsParams{})
	require.NoError(t, err)
	require.Len(t, offerings.Items, 1)
	assert.Equal(t, m.ID, *offerings.Items[0].MemberID)
	assert.Equal(t, "OR-9", *offerings.Items[0].ReceiptNumber)
	assert.Equal(t, offerings.TotalAmount, offerings.Items[0].Amount)

	sessions, err := dst.attendance.List(ctx, ListAttendanceParams{})
	require.NoError(t, err)
	require.Len(t, sessions.Items, 1)
	roster, err := dst.attendance.GetRoster(ctx, sessions.Items[0].ID, "")
	require.NoError(t, err)
	assert.Len(t, roster.MemberAttendances, 1)

	_, err = dst.auth.Login(ctx, LoginInput{Username: "secretary", Password: "minutes-2024"})
	assert.NoError(t, err, "admins keep their passwords")

	// New rows get fresh IDs after a restore.
	next := dst.createMember(t, "Ben", "Aquino")
	assert.Greater(t, next.ID, m.ID)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	env := newTestEnv(t)
	err := env.backup.ImportFromReader(context.Background(), strings.NewReader(`{"version":"9.9"}`))
	assert.Error(t, err)
}
