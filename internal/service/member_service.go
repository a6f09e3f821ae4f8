package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"churchadmin/internal/database"
	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

const defaultCitizenship = "Filipino"

// ListMembersParams filters the member list
type ListMembersParams struct {
	PageParams
	Search   string `json:"search"`
	Sex      string `json:"sex"`
	UserType string `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
}

// CreateMemberInput is the full member form
type CreateMemberInput struct {
	UserType                   string          `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
	Image                      *string         `json:"image"`
	LastName                   string          `json:"lastName" validate:"required"`
	FirstName                  string          `json:"firstName" validate:"required"`
	MiddleName                 *string         `json:"middleName"`
	FathersName                *string         `json:"fathersName"`
	MothersName                *string         `json:"mothersName"`
	DateOfBirth                string          `json:"dateOfBirth" validate:"required,dateonly"`
	PlaceOfBirth               string          `json:"placeOfBirth" validate:"required"`
	Sex                        string          `json:"sex" validate:"required"`
	Height                     *string         `json:"height"`
	Weight                     *string         `json:"weight"`
	PresentAddress             *string         `json:"presentAddress"`
	Occupation                 *string         `json:"occupation"`
	BloodType                  *string         `json:"bloodType"`
	JobExperience              json.RawMessage `json:"jobExperience"`
	CellphoneNumber            *string         `json:"cellphoneNumber"`
	HomeTelephoneNumber        *string         `json:"homeTelephoneNumber"`
	Email                      *string         `json:"email" validate:"omitempty,optemail"`
	SpouseName                 *string         `json:"spouseName"`
	BirthOrder                 *string         `json:"birthOrder"`
	Citizenship                string          `json:"citizenship"`
	PreviousReligion           *string         `json:"previousReligion"`
	DateAcceptedTheLord        *string         `json:"dateAcceptedTheLord" validate:"omitempty,dateonly"`
	PersonLedYouToTheLord      *string         `json:"personLedYouToTheLord"`
	FirstDayOfChurchAttendance *string         `json:"firstDayOfChurchAttendance" validate:"omitempty,dateonly"`
	DateWaterBaptized          *string         `json:"dateWaterBaptized" validate:"omitempty,dateonly"`
	DateSpiritBaptized         *string         `json:"dateSpiritBaptized" validate:"omitempty,dateonly"`
}

// UpdateMemberInput changes only the fields that are present. A blank
// optional field clears it.
type UpdateMemberInput struct {
	UserType                   *string         `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
	Image                      *string         `json:"image"`
	LastName                   *string         `json:"lastName" validate:"omitempty,min=1"`
	FirstName                  *string         `json:"firstName" validate:"omitempty,min=1"`
	MiddleName                 *string         `json:"middleName"`
	FathersName                *string         `json:"fathersName"`
	MothersName                *string         `json:"mothersName"`
	DateOfBirth                *string         `json:"dateOfBirth" validate:"omitempty,min=1,dateonly"`
	PlaceOfBirth               *string         `json:"placeOfBirth" validate:"omitempty,min=1"`
	Sex                        *string         `json:"sex" validate:"omitempty,min=1"`
	Height                     *string         `json:"height"`
	Weight                     *string         `json:"weight"`
	PresentAddress             *string         `json:"presentAddress"`
	Occupation                 *string         `json:"occupation"`
	BloodType                  *string         `json:"bloodType"`
	JobExperience              json.RawMessage `json:"jobExperience"`
	CellphoneNumber            *string         `json:"cellphoneNumber"`
	HomeTelephoneNumber        *string         `json:"homeTelephoneNumber"`
	Email                      *string         `json:"email" validate:"omitempty,optemail"`
	SpouseName                 *string         `json:"spouseName"`
	BirthOrder                 *string         `json:"birthOrder"`
	Citizenship                *string         `json:"citizenship" validate:"omitempty,min=1"`
	PreviousReligion           *string         `json:"previousReligion"`
	DateAcceptedTheLord        *string         `json:"dateAcceptedTheLord" validate:"omitempty,dateonly"`
	PersonLedYouToTheLord      *string         `json:"personLedYouToTheLord"`
	FirstDayOfChurchAttendance *string         `json:"firstDayOfChurchAttendance" validate:"omitempty,dateonly"`
	DateWaterBaptized          *string         `json:"dateWaterBaptized" validate:"omitempty,dateonly"`
	DateSpiritBaptized         *string         `json:"dateSpiritBaptized" validate:"omitempty,dateonly"`
}

// MemberService handles member and guest records
type MemberService struct {
	db      *database.DB
	members *repository.MemberRepository
	loc     *time.Location
}

// NewMemberService creates a new member service. Dates without a time are
// read as calendar days in loc.
func NewMemberService(db *database.DB, members *repository.MemberRepository, loc *time.Location) *MemberService {
	return &MemberService{db: db, members: members, loc: loc}
}

// List returns a page of members, newest first
func (s *MemberService) List(ctx context.Context, params ListMembersParams) (listquery.Result[models.Member], error) {
	if err := validateInput(params); err != nil {
		return listquery.Result[models.Member]{}, err
	}

	page := params.page()
	filter := repository.MemberFilter{Search: params.Search, Sex: params.Sex, UserType: params.UserType}
	members, total, err := s.members.ListMembers(ctx, filter, page)
	if err != nil {
		return listquery.Result[models.Member]{}, err
	}
	return listquery.NewResult(members, total, page), nil
}

// Get returns one member
func (s *MemberService) Get(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.members.GetMemberByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// Create adds a member or guest
func (s *MemberService) Create(ctx context.Context, in CreateMemberInput) (*models.Member, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	m := &models.Member{
		UserType:              models.UserTypeMember,
		Image:                 optionalText(in.Image),
		LastName:              in.LastName,
		FirstName:             in.FirstName,
		MiddleName:            optionalText(in.MiddleName),
		FathersName:           optionalText(in.FathersName),
		MothersName:           optionalText(in.MothersName),
		PlaceOfBirth:          in.PlaceOfBirth,
		Sex:                   in.Sex,
		Height:                optionalText(in.Height),
		Weight:                optionalText(in.Weight),
		PresentAddress:        optionalText(in.PresentAddress),
		Occupation:            optionalText(in.Occupation),
		BloodType:             optionalText(in.BloodType),
		JobExperience:         in.JobExperience,
		CellphoneNumber:       optionalText(in.CellphoneNumber),
		HomeTelephoneNumber:   optionalText(in.HomeTelephoneNumber),
		Email:                 optionalText(in.Email),
		SpouseName:            optionalText(in.SpouseName),
		BirthOrder:            optionalText(in.BirthOrder),
		Citizenship:           defaultCitizenship,
		PreviousReligion:      optionalText(in.PreviousReligion),
		PersonLedYouToTheLord: optionalText(in.PersonLedYouToTheLord),
	}
	if in.UserType != "" {
		m.UserType = models.UserType(in.UserType)
	}
	if in.Citizenship != "" {
		m.Citizenship = in.Citizenship
	}

	var err error
	if m.DateOfBirth, err = parseDate("dateOfBirth", in.DateOfBirth, s.loc); err != nil {
		return nil, err
	}
	if m.DateAcceptedTheLord, err = optionalDate("dateAcceptedTheLord", in.DateAcceptedTheLord, s.loc); err != nil {
		return nil, err
	}
	if m.FirstDayOfChurchAttendance, err = optionalDate("firstDayOfChurchAttendance", in.FirstDayOfChurchAttendance, s.loc); err != nil {
		return nil, err
	}
	if m.DateWaterBaptized, err = optionalDate("dateWaterBaptized", in.DateWaterBaptized, s.loc); err != nil {
		return nil, err
	}
	if m.DateSpiritBaptized, err = optionalDate("dateSpiritBaptized", in.DateSpiritBaptized, s.loc); err != nil {
		return nil, err
	}

	if err := s.members.CreateMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Update applies a partial change to a member
func (s *MemberService) Update(ctx context.Context, id int64, in UpdateMemberInput) (*models.Member, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.UserType != nil {
		m.UserType = models.UserType(*in.UserType)
	}
	if in.LastName != nil {
		m.LastName = *in.LastName
	}
	if in.FirstName != nil {
		m.FirstName = *in.FirstName
	}
	if in.PlaceOfBirth != nil {
		m.PlaceOfBirth = *in.PlaceOfBirth
	}
	if in.Sex != nil {
		m.Sex = *in.Sex
	}
	if in.Citizenship != nil {
		m.Citizenship = *in.Citizenship
	}
	if in.JobExperience != nil {
		m.JobExperience = in.JobExperience
	}
	if in.DateOfBirth != nil {
		if m.DateOfBirth, err = parseDate("dateOfBirth", *in.DateOfBirth, s.loc); err != nil {
			return nil, err
		}
	}

	m.Image = patchText(m.Image, in.Image)
	m.MiddleName = patchText(m.MiddleName, in.MiddleName)
	m.FathersName = patchText(m.FathersName, in.FathersName)
	m.MothersName = patchText(m.MothersName, in.MothersName)
	m.Height = patchText(m.Height, in.Height)
	m.Weight = patchText(m.Weight, in.Weight)
	m.PresentAddress = patchText(m.PresentAddress, in.PresentAddress)
	m.Occupation = patchText(m.Occupation, in.Occupation)
	m.BloodType = patchText(m.BloodType, in.BloodType)
	m.CellphoneNumber = patchText(m.CellphoneNumber, in.CellphoneNumber)
	m.HomeTelephoneNumber = patchText(m.HomeTelephoneNumber, in.HomeTelephoneNumber)
	m.Email = patchText(m.Email, in.Email)
	m.SpouseName = patchText(m.SpouseName, in.SpouseName)
	m.BirthOrder = patchText(m.BirthOrder, in.BirthOrder)
	m.PreviousReligion = patchText(m.PreviousReligion, in.PreviousReligion)
	m.PersonLedYouToTheLord = patchText(m.PersonLedYouToTheLord, in.PersonLedYouToTheLord)

	if m.DateAcceptedTheLord, err = patchDate("dateAcceptedTheLord", m.DateAcceptedTheLord, in.DateAcceptedTheLord, s.loc); err != nil {
		return nil, err
	}
	if m.FirstDayOfChurchAttendance, err = patchDate("firstDayOfChurchAttendance", m.FirstDayOfChurchAttendance, in.FirstDayOfChurchAttendance, s.loc); err != nil {
		return nil, err
	}
	if m.DateWaterBaptized, err = patchDate("dateWaterBaptized", m.DateWaterBaptized, in.DateWaterBaptized, s.loc); err != nil {
		return nil, err
	}
	if m.DateSpiritBaptized, err = patchDate("dateSpiritBaptized", m.DateSpiritBaptized, in.DateSpiritBaptized, s.loc); err != nil {
		return nil, err
	}

	if err := s.members.UpdateMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a member. Their offerings and prayer requests are kept
// without a member link; their attendance statuses are removed.
func (s *MemberService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	err := database.WithTx(ctx, s.db, func(tx *database.Tx) error {
		return s.members.WithTx(tx).DeleteMember(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete member %d: %w", id, err)
	}
	return nil
}
