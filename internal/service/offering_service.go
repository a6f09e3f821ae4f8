package service

import (
	"context"
	"time"

	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

// OfferingFilterParams is shared by the offering list and its stats
type OfferingFilterParams struct {
	DateRangeParams
	Type        string `json:"type" validate:"omitempty,oneof=TITHE OFFERING BUILDING_FUND MISSIONS SPECIAL_OFFERING THANKSGIVING OTHER"`
	UserType    string `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
	IsAnonymous *bool  `json:"isAnonymous"`
	Search      string `json:"search"`
}

// ListOfferingsParams filters and pages the offering list
type ListOfferingsParams struct {
	PageParams
	OfferingFilterParams
}

// OfferingList is a page of offerings plus the total amount of the whole
// filtered set
type OfferingList struct {
	listquery.Result[models.Offering]
	TotalAmount models.Money `json:"totalAmount"`
}

// CreateOfferingInput records a tithe or offering
type CreateOfferingInput struct {
	MemberID      *int64        `json:"memberId" validate:"omitempty,gt=0"`
	Date          string        `json:"date" validate:"required,dateonly"`
	Type          string        `json:"type" validate:"required,oneof=TITHE OFFERING BUILDING_FUND MISSIONS SPECIAL_OFFERING THANKSGIVING OTHER"`
	Amount        *models.Money `json:"amount" validate:"required,gte=0"`
	Note          *string       `json:"note"`
	ReceiptNumber *string       `json:"receiptNumber"`
	IsAnonymous   bool          `json:"isAnonymous"`
}

// UpdateOfferingInput changes the fields that are present. A null memberId
// unlinks the member.
type UpdateOfferingInput struct {
	MemberID      models.Nullable[int64]  `json:"memberId" validate:"omitempty,gt=0"`
	Date          *string                 `json:"date" validate:"omitempty,min=1,dateonly"`
	Type          *string                 `json:"type" validate:"omitempty,oneof=TITHE OFFERING BUILDING_FUND MISSIONS SPECIAL_OFFERING THANKSGIVING OTHER"`
	Amount        *models.Money           `json:"amount" validate:"omitempty,gte=0"`
	Note          models.Nullable[string] `json:"note"`
	ReceiptNumber models.Nullable[string] `json:"receiptNumber"`
	IsAnonymous   *bool                   `json:"isAnonymous"`
}

// OfferingService manages tithes and offerings
type OfferingService struct {
	offerings *repository.OfferingRepository
	members   *repository.MemberRepository
	loc       *time.Location
}

// NewOfferingService creates a new offering service
func NewOfferingService(offerings *repository.OfferingRepository, members *repository.MemberRepository, loc *time.Location) *OfferingService {
	return &OfferingService{offerings: offerings, members: members, loc: loc}
}

func (s *OfferingService) filter(params OfferingFilterParams) (repository.OfferingFilter, error) {
	dates, err := params.dateRange(s.loc)
	if err != nil {
		return repository.OfferingFilter{}, err
	}
	return repository.OfferingFilter{
		Type:        params.Type,
		UserType:    params.UserType,
		IsAnonymous: params.IsAnonymous,
		Dates:       dates,
		Search:      params.Search,
	}, nil
}

// List returns a page of offerings, latest date first
func (s *OfferingService) List(ctx context.Context, params ListOfferingsParams) (*OfferingList, error) {
	if err := validateInput(params); err != nil {
		return nil, err
	}
	filter, err := s.filter(params.OfferingFilterParams)
	if err != nil {
		return nil, err
	}

	page := params.page()
	offerings, total, totalCents, err := s.offerings.ListOfferings(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &OfferingList{
		Result:      listquery.NewResult(offerings, total, page),
		TotalAmount: models.Money(totalCents),
	}, nil
}

// Get returns one offering with the giver's contact details
func (s *OfferingService) Get(ctx context.Context, id int64) (*models.Offering, error) {
	offering, err := s.offerings.GetOfferingByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if offering == nil {
		return nil, ErrOfferingNotFound
	}
	return offering, nil
}

// Create records an offering
func (s *OfferingService) Create(ctx context.Context, in CreateOfferingInput) (*models.Offering, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	date, err := parseDate("date", in.Date, s.loc)
	if err != nil {
		return nil, err
	}
	o := &models.Offering{
		MemberID:      in.MemberID,
		Date:          date,
		Type:          models.OfferingType(in.Type),
		Amount:        *in.Amount,
		Note:          optionalText(in.Note),
		ReceiptNumber: optionalText(in.ReceiptNumber),
		IsAnonymous:   in.IsAnonymous,
	}

	if err := s.check(ctx, o); err != nil {
		return nil, err
	}
	if err := s.offerings.CreateOffering(ctx, o); err != nil {
		return nil, err
	}
	return s.Get(ctx, o.ID)
}

// Update applies a partial change to an offering
func (s *OfferingService) Update(ctx context.Context, id int64, in UpdateOfferingInput) (*models.Offering, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.MemberID.Set {
		o.MemberID = in.MemberID.Ptr()
	}
	if in.Date != nil {
		if o.Date, err = parseDate("date", *in.Date, s.loc); err != nil {
			return nil, err
		}
	}
	if in.Type != nil {
		o.Type = models.OfferingType(*in.Type)
	}
	if in.Amount != nil {
		o.Amount = *in.Amount
	}
	if in.IsAnonymous != nil {
		o.IsAnonymous = *in.IsAnonymous
	}
	o.Note = nullableText(o.Note, in.Note)
	o.ReceiptNumber = nullableText(o.ReceiptNumber, in.ReceiptNumber)

	if err := s.check(ctx, o); err != nil {
		return nil, err
	}
	if err := s.offerings.UpdateOffering(ctx, o); err != nil {
		return nil, err
	}
	return s.Get(ctx, o.ID)
}

// Delete removes an offering
func (s *OfferingService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.offerings.DeleteOffering(ctx, id)
}

// Stats aggregates every offering that matches params
func (s *OfferingService) Stats(ctx context.Context, params OfferingFilterParams) (*models.OfferingStats, error) {
	if err := validateInput(params); err != nil {
		return nil, err
	}
	filter, err := s.filter(params)
	if err != nil {
		return nil, err
	}

	buckets, err := s.offerings.Buckets(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &models.OfferingStats{
		AmountByType:     map[string]models.Money{},
		AmountByUserType: map[string]models.Money{},
	}
	for _, b := range buckets {
		amount := models.Money(b.AmountCents)
		stats.TotalAmount += amount
		stats.TotalRecords += b.Count
		stats.AmountByType[b.Type] += amount
		stats.AmountByUserType[b.UserType] += amount
		if b.IsAnonymous {
			stats.AnonymousCount += b.Count
			stats.AnonymousAmount += amount
		}
	}
	return stats, nil
}

// check enforces the linked member's existence and receipt uniqueness
func (s *OfferingService) check(ctx context.Context, o *models.Offering) error {
	if o.MemberID != nil {
		if err := ensureMemberExists(ctx, s.members, *o.MemberID); err != nil {
			return err
		}
	}
	if o.ReceiptNumber != nil {
		taken, err := s.offerings.ReceiptNumberTaken(ctx, *o.ReceiptNumber, o.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrReceiptNumberTaken
		}
	}
	return nil
}

func ensureMemberExists(ctx context.Context, members *repository.MemberRepository, id int64) error {
	found, err := members.ExistingIDs(ctx, []int64{id})
	if err != nil {
		return err
	}
	if !found[id] {
		return ErrMemberNotFound
	}
	return nil
}
