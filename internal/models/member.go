package models

import (
	"encoding/json"
	"time"
)

// Member is a person known to the church, either a member or a guest.
type Member struct {
	ID                         int64           `json:"id"`
	UserType                   UserType        `json:"userType"`
	Image                      *string         `json:"image"`
	LastName                   string          `json:"lastName"`
	FirstName                  string          `json:"firstName"`
	MiddleName                 *string         `json:"middleName"`
	FathersName                *string         `json:"fathersName"`
	MothersName                *string         `json:"mothersName"`
	DateOfBirth                time.Time       `json:"dateOfBirth"`
	PlaceOfBirth               string          `json:"placeOfBirth"`
	Sex                        string          `json:"sex"`
	Height                     *string         `json:"height"`
	Weight                     *string         `json:"weight"`
	PresentAddress             *string         `json:"presentAddress"`
	Occupation                 *string         `json:"occupation"`
	BloodType                  *string         `json:"bloodType"`
	JobExperience              json.RawMessage `json:"jobExperience"`
	CellphoneNumber            *string         `json:"cellphoneNumber"`
	HomeTelephoneNumber        *string         `json:"homeTelephoneNumber"`
	Email                      *string         `json:"email"`
	SpouseName                 *string         `json:"spouseName"`
	BirthOrder                 *string         `json:"birthOrder"`
	Citizenship                string          `json:"citizenship"`
	PreviousReligion           *string         `json:"previousReligion"`
	DateAcceptedTheLord        *time.Time      `json:"dateAcceptedTheLord"`
	PersonLedYouToTheLord      *string         `json:"personLedYouToTheLord"`
	FirstDayOfChurchAttendance *time.Time      `json:"firstDayOfChurchAttendance"`
	DateWaterBaptized          *time.Time      `json:"dateWaterBaptized"`
	DateSpiritBaptized         *time.Time      `json:"dateSpiritBaptized"`
	CreatedAt                  time.Time       `json:"createdAt"`
	UpdatedAt                  time.Time       `json:"updatedAt"`
}

// MemberSummary is the minimal projection used by the attendance roster.
type MemberSummary struct {
	ID         int64   `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	MiddleName *string `json:"middleName"`
	Image      *string `json:"image"`
}

// MemberRef is the member projection attached to offerings and prayer
// requests. Email and phone are only filled on single-record reads.
type MemberRef struct {
	ID              int64    `json:"id"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	UserType        UserType `json:"userType"`
	Email           *string  `json:"email,omitempty"`
	CellphoneNumber *string  `json:"cellphoneNumber,omitempty"`
}
