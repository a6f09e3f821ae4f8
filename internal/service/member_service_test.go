package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchadmin/internal/models"
)

func TestCreateMemberDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.members.Create(ctx, CreateMemberInput{
		FirstName:    "Juan",
		LastName:     "Dela Cruz",
		DateOfBirth:  "1990-01-15",
		PlaceOfBirth: "Cebu",
		Sex:          "MALE",
		Email:        strPtr(""),
		MiddleName:   strPtr("  "),
	})
	require.NoError(t, err)

	assert.Equal(t, models.UserTypeMember, m.UserType)
	assert.Equal(t, "Filipino", m.Citizenship)
	assert.Nil(t, m.Email)
	assert.Nil(t, m.MiddleName)

	got, err := env.members.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "1990-01-14T16:00:00Z", got.DateOfBirth.Format("2006-01-02T15:04:05Z07:00"),
		"date of birth is midnight in the church time zone")
}

func TestCreateMemberValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.members.Create(context.Background(), CreateMemberInput{
		FirstName:   "Ana",
		DateOfBirth: "15/01/1990",
		Email:       strPtr("ana-at-example"),
		UserType:    "VISITOR",
	})
	assertKind(t, err, KindValidation)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Contains(t, svcErr.Fields, "lastName")
	assert.Contains(t, svcErr.Fields, "dateOfBirth")
	assert.Contains(t, svcErr.Fields, "email")
	assert.Contains(t, svcErr.Fields, "userType")
	assert.Contains(t, svcErr.Fields, "placeOfBirth")
	assert.Contains(t, svcErr.Fields, "sex")
}

func TestUpdateMemberPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m, err := env.members.Create(ctx, CreateMemberInput{
		FirstName:         "Maria",
		LastName:          "Santos",
		DateOfBirth:       "1988-03-03",
		PlaceOfBirth:      "Davao",
		Sex:               "FEMALE",
		Occupation:        strPtr("Teacher"),
		DateWaterBaptized: strPtr("2010-05-01"),
	})
	require.NoError(t, err)

	updated, err := env.members.Update(ctx, m.ID, UpdateMemberInput{
		LastName:          strPtr("Reyes"),
		Occupation:        strPtr(""),
		DateWaterBaptized: strPtr(""),
		UserType:          strPtr("GUEST"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Reyes", updated.LastName)
	assert.Equal(t, "Maria", updated.FirstName)
	assert.Equal(t, models.UserTypeGuest, updated.UserType)
	assert.Nil(t, updated.Occupation)
	assert.Nil(t, updated.DateWaterBaptized)

	_, err = env.members.Update(ctx, m.ID, UpdateMemberInput{FirstName: strPtr("")})
	assertKind(t, err, KindValidation)

	_, err = env.members.Update(ctx, 9999, UpdateMemberInput{FirstName: strPtr("X")})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestListMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, name := range []string{"Andrea", "Bea", "Carla", "Dana", "Elena"} {
		env.createMember(t, name, "Garcia")
	}
	env.createMember(t, "Ramon", "Andrada")

	page, err := env.members.List(ctx, ListMembersParams{PageParams: PageParams{Page: 2, Limit: 4}})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Items, 2)

	found, err := env.members.List(ctx, ListMembersParams{Search: "AND"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.TotalCount, "matches first name Andrea and last name Andrada")

	empty, err := env.members.List(ctx, ListMembersParams{Search: "   "})
	require.NoError(t, err)
	all, err := env.members.List(ctx, ListMembersParams{})
	require.NoError(t, err)
	assert.Equal(t, all, empty)

	none, err := env.members.List(ctx, ListMembersParams{Search: "zzz"})
	require.NoError(t, err)
	assert.NotNil(t, none.Items)
	assert.Empty(t, none.Items)
	assert.Equal(t, 0, none.TotalPages)

	_, err = env.members.List(ctx, ListMembersParams{PageParams: PageParams{Limit: 500}})
	assertKind(t, err, KindValidation)
}

func TestDeleteMemberDetachesRecords(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.createMember(t, "Pedro", "Penduko")
	other := env.createMember(t, "Nena", "Penduko")

	offering, err := env.offerings.Create(ctx, CreateOfferingInput{
		MemberID: int64Ptr(m.ID), Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(500),
	})
	require.NoError(t, err)
	prayer, err := env.prayers.Create(ctx, CreatePrayerRequestInput{
		MemberID: int64Ptr(m.ID), Title: "Healing", Description: "For my mother",
	})
	require.NoError(t, err)
	roster, err := env.attendance.CreateWithRoster(ctx, CreateRosterInput{
		Date: "2024-03-17",
		MemberAttendances: []RosterEntry{
			{MemberID: m.ID, Status: "PRESENT"},
			{MemberID: other.ID, Status: "LATE"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.members.Delete(ctx, m.ID))

	_, err = env.members.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	gotOffering, err := env.offerings.Get(ctx, offering.ID)
	require.NoError(t, err)
	assert.Nil(t, gotOffering.MemberID)
	assert.Nil(t, gotOffering.Member)

	gotPrayer, err := env.prayers.Get(ctx, prayer.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPrayer.MemberID)

	r, err := env.attendance.GetRoster(ctx, roster.Session.ID, "")
	require.NoError(t, err)
	require.Len(t, r.MemberAttendances, 1)
	assert.Equal(t, other.ID, r.MemberAttendances[0].MemberID)

	assert.ErrorIs(t, env.members.Delete(ctx, m.ID), ErrMemberNotFound)
}
