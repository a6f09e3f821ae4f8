package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchadmin/internal/models"
)

func TestOfferingReceiptNumberUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.offerings.Create(ctx, CreateOfferingInput{
		Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(1000), ReceiptNumber: strPtr("OR-001"),
	})
	require.NoError(t, err)
	assert.False(t, first.IsAnonymous)

	_, err = env.offerings.Create(ctx, CreateOfferingInput{
		Date: "2024-03-18", Type: "OFFERING", Amount: moneyPtr(50), ReceiptNumber: strPtr("OR-001"),
	})
	assert.ErrorIs(t, err, ErrReceiptNumberTaken)

	// Offerings without receipts never collide.
	for i := 0; i < 2; i++ {
		o, err := env.offerings.Create(ctx, CreateOfferingInput{
			Date: "2024-03-17", Type: "OFFERING", Amount: moneyPtr(20), ReceiptNumber: strPtr(""),
		})
		require.NoError(t, err)
		assert.Nil(t, o.ReceiptNumber)
	}

	updated, err := env.offerings.Update(ctx, first.ID, UpdateOfferingInput{
		ReceiptNumber: models.NullableOf("OR-001"),
		Amount:        moneyPtr(1200.5),
	})
	require.NoError(t, err, "keeping its own receipt number is not a conflict")
	assert.Equal(t, models.Money(120050), updated.Amount)

	second, err := env.offerings.Create(ctx, CreateOfferingInput{
		Date: "2024-03-18", Type: "MISSIONS", Amount: moneyPtr(75), ReceiptNumber: strPtr("OR-002"),
	})
	require.NoError(t, err)
	_, err = env.offerings.Update(ctx, second.ID, UpdateOfferingInput{ReceiptNumber: models.NullableOf("OR-001")})
	assert.ErrorIs(t, err, ErrReceiptNumberTaken)
}

func TestOfferingMemberLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.offerings.Create(ctx, CreateOfferingInput{
		MemberID: int64Ptr(404), Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(10),
	})
	assert.ErrorIs(t, err, ErrMemberNotFound)

	m, err := env.members.Create(ctx, CreateMemberInput{
		FirstName: "Lito", LastName: "Lapid", DateOfBirth: "1970-10-25", PlaceOfBirth: "Pampanga", Sex: "MALE",
		Email: strPtr("lito@example.com"), CellphoneNumber: strPtr("09171234567"),
	})
	require.NoError(t, err)

	o, err := env.offerings.Create(ctx, CreateOfferingInput{
		MemberID: int64Ptr(m.ID), Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(10),
	})
	require.NoError(t, err)
	require.NotNil(t, o.Member)
	assert.Equal(t, "Lito", o.Member.FirstName)
	require.NotNil(t, o.Member.Email)
	assert.Equal(t, "lito@example.com", *o.Member.Email)

	unlinked, err := env.offerings.Update(ctx, o.ID, UpdateOfferingInput{MemberID: models.Null[int64]()})
	require.NoError(t, err)
	assert.Nil(t, unlinked.MemberID)
	assert.Nil(t, unlinked.Member)

	untouched, err := env.offerings.Update(ctx, o.ID, UpdateOfferingInput{Note: models.NullableOf("thanks")})
	require.NoError(t, err)
	assert.Nil(t, untouched.MemberID, "omitting memberId leaves the link alone")
	require.NotNil(t, untouched.Note)
	assert.Equal(t, "thanks", *untouched.Note)
}

func TestOfferingValidationAndNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.offerings.Create(ctx, CreateOfferingInput{Date: "2024-03-17", Type: "TITHE", Amount: moneyPtr(-5)})
	assertKind(t, err, KindValidation)

	_, err = env.offerings.Create(ctx, CreateOfferingInput{Date: "2024-03-17", Type: "TITHE"})
	assertKind(t, err, KindValidation)

	_, err = env.offerings.Create(ctx, CreateOfferingInput{Date: "2024-03-17", Type: "DONATION", Amount: moneyPtr(5)})
	assertKind(t, err, KindValidation)

	_, err = env.offerings.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrOfferingNotFound)
	_, err = env.offerings.Update(ctx, 1, UpdateOfferingInput{})
	assert.ErrorIs(t, err, ErrOfferingNotFound)
	assert.ErrorIs(t, env.offerings.Delete(ctx, 1), ErrOfferingNotFound)
}

func TestListOfferingsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.createMember(t, "Rosa", "Villanueva")
	anon := true
	inputs := []CreateOfferingInput{
		{Date: "2023-12-31", Type: "TITHE", Amount: moneyPtr(100)},
		{Date: "2024-01-01", Type: "TITHE", Amount: moneyPtr(200), MemberID: int64Ptr(m.ID)},
		{Date: "2024-01-15", Type: "OFFERING", Amount: moneyPtr(30.25), Note: strPtr("Youth camp"), IsAnonymous: anon},
		{Date: "2024-01-31", Type: "MISSIONS", Amount: moneyPtr(45.5)},
		{Date: "2024-02-01", Type: "TITHE", Amount: moneyPtr(400)},
	}
	for _, in := range inputs {
		_, err := env.offerings.Create(ctx, in)
		require.NoError(t, err)
	}

	january, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{
		DateRangeParams: DateRangeParams{StartDate: "2024-01-01", EndDate: "2024-01-31"},
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), january.TotalCount)
	assert.Equal(t, models.MoneyFromFloat(275.75), january.TotalAmount)

	members, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{UserType: "MEMBER"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), members.TotalCount)

	byNote, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{Search: "youth"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byNote.TotalCount)

	byName, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{Search: "villa"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byName.TotalCount)

	anonymous, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{IsAnonymous: &anon}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), anonymous.TotalCount)

	all, err := env.offerings.List(ctx, ListOfferingsParams{})
	require.NoError(t, err)
	blank, err := env.offerings.List(ctx, ListOfferingsParams{OfferingFilterParams: OfferingFilterParams{Search: ""}})
	require.NoError(t, err)
	assert.Equal(t, all, blank)
	assert.Equal(t, int64(5), all.TotalCount)
}

func TestOfferingStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	m := env.createMember(t, "Rosa", "Villanueva")
	inputs := []CreateOfferingInput{
		{Date: "2024-01-07", Type: "TITHE", Amount: moneyPtr(0.1), MemberID: int64Ptr(m.ID)},
		{Date: "2024-01-07", Type: "TITHE", Amount: moneyPtr(0.2)},
		{Date: "2024-01-14", Type: "OFFERING", Amount: moneyPtr(150), IsAnonymous: true},
		{Date: "2024-01-14", Type: "BUILDING_FUND", Amount: moneyPtr(1000.05), MemberID: int64Ptr(m.ID), IsAnonymous: true},
	}
	for _, in := range inputs {
		_, err := env.offerings.Create(ctx, in)
		require.NoError(t, err)
	}

	stats, err := env.offerings.Stats(ctx, OfferingFilterParams{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalRecords)
	assert.Equal(t, models.MoneyFromFloat(1150.35), stats.TotalAmount)
	assert.Equal(t, models.MoneyFromFloat(0.3), stats.AmountByType["TITHE"])
	assert.Equal(t, models.MoneyFromFloat(1000.15), stats.AmountByUserType["MEMBER"])
	assert.Equal(t, models.MoneyFromFloat(150.2), stats.AmountByUserType["GUEST"])
	assert.Equal(t, int64(2), stats.AnonymousCount)
	assert.Equal(t, models.MoneyFromFloat(1150.05), stats.AnonymousAmount)

	var byType, byUserType models.Money
	for _, amount := range stats.AmountByType {
		byType += amount
	}
	for _, amount := range stats.AmountByUserType {
		byUserType += amount
	}
	assert.Equal(t, stats.TotalAmount, byType)
	assert.Equal(t, stats.TotalAmount, byUserType)

	tithes, err := env.offerings.Stats(ctx, OfferingFilterParams{Type: "TITHE"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), tithes.TotalRecords)
	assert.Len(t, tithes.AmountByType, 1)

	none, err := env.offerings.Stats(ctx, OfferingFilterParams{DateRangeParams: DateRangeParams{StartDate: "2030-01-01"}})
	require.NoError(t, err)
	assert.Zero(t, none.TotalAmount)
	assert.NotNil(t, none.AmountByType)
}
