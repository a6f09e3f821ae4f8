package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churchadmin/internal/models"
)

type memberForm struct {
	FirstName   string  `json:"firstName" validate:"required"`
	LastName    string  `json:"lastName" validate:"required"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required,dateonly"`
	Email       *string `json:"email" validate:"omitempty,optemail"`
	UserType    string  `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
}

type entriesForm struct {
	Entries []entry `json:"memberAttendances" validate:"dive"`
}

type entry struct {
	MemberID int64  `json:"memberId" validate:"required,gt=0"`
	Status   string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

type patchForm struct {
	DateToPray models.Nullable[string] `json:"dateToPray" validate:"omitempty,dateonly"`
	MemberID   models.Nullable[int64]  `json:"memberId" validate:"omitempty,gt=0"`
}

func strPtr(s string) *string { return &s }

func TestStructValid(t *testing.T) {
	form := memberForm{
		FirstName:   "Maria",
		LastName:    "Santos",
		DateOfBirth: "1990-05-14",
		Email:       strPtr(""),
		UserType:    "GUEST",
	}
	assert.NoError(t, Struct(form))

	form.Email = strPtr("maria@example.com")
	assert.NoError(t, Struct(form))

	form.Email = nil
	assert.NoError(t, Struct(form))
}

func TestStructReportsFieldsByJSONName(t *testing.T) {
	err := Struct(memberForm{DateOfBirth: "14/05/1990", Email: strPtr("not-an-email"), UserType: "VISITOR"})
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "is required", fields["firstName"])
	assert.Equal(t, "is required", fields["lastName"])
	assert.Equal(t, "must be a date (YYYY-MM-DD)", fields["dateOfBirth"])
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be one of: MEMBER, GUEST", fields["userType"])
}

func TestStructDivesIntoSlices(t *testing.T) {
	err := Struct(entriesForm{Entries: []entry{
		{MemberID: 1, Status: "PRESENT"},
		{MemberID: 2, Status: "SLEEPING"},
	}})
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "memberAttendances[1].status")
	assert.Len(t, fields, 1)
}

func TestStructNullableFields(t *testing.T) {
	var form patchForm
	require.NoError(t, json.Unmarshal([]byte(`{"dateToPray": null}`), &form))
	assert.NoError(t, Struct(form))

	require.NoError(t, json.Unmarshal([]byte(`{"dateToPray": "2024-13-45", "memberId": -1}`), &form))
	err := Struct(form)
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))
	assert.Contains(t, fields, "dateToPray")
	assert.Contains(t, fields, "memberId")
}

type Paging struct {
	Page int `json:"page" validate:"omitempty,gte=1"`
}

type listForm struct {
	Paging
	Type string `json:"type" validate:"omitempty,oneof=TITHE OFFERING"`
}

func TestStructFlattensEmbeddedStructs(t *testing.T) {
	err := Struct(listForm{Paging: Paging{Page: -2}, Type: "GIFT"})
	require.Error(t, err)

	var fields Errors
	require.True(t, errors.As(err, &fields))
	assert.Equal(t, "must be at least 1", fields["page"])
	assert.Equal(t, "must be one of: TITHE, OFFERING", fields["type"])
}
