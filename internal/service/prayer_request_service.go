package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
	"churchadmin/internal/repository"
)

// PrayerRequestNotifier is told about newly submitted prayer requests
type PrayerRequestNotifier interface {
	SendPrayerRequestNotification(ctx context.Context, p *models.PrayerRequest) error
}

// PrayerRequestFilterParams is shared by the prayer request list and its stats
type PrayerRequestFilterParams struct {
	DateRangeParams
	Status   string `json:"status" validate:"omitempty,oneof=PENDING DONE ANSWERED"`
	UserType string `json:"userType" validate:"omitempty,oneof=MEMBER GUEST"`
	Search   string `json:"search"`
}

// ListPrayerRequestsParams filters and pages the prayer request list
type ListPrayerRequestsParams struct {
	PageParams
	PrayerRequestFilterParams
}

// CreatePrayerRequestInput submits a prayer request
type CreatePrayerRequestInput struct {
	MemberID    *int64  `json:"memberId" validate:"omitempty,gt=0"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Note        *string `json:"note"`
	DateToPray  *string `json:"dateToPray" validate:"omitempty,dateonly"`
	Status      string  `json:"status" validate:"omitempty,oneof=PENDING DONE ANSWERED"`
}

// UpdatePrayerRequestInput changes the fields that are present. Null
// memberId, note or dateToPray clear them.
type UpdatePrayerRequestInput struct {
	MemberID    models.Nullable[int64]  `json:"memberId" validate:"omitempty,gt=0"`
	Title       *string                 `json:"title" validate:"omitempty,min=1"`
	Description *string                 `json:"description" validate:"omitempty,min=1"`
	Note        models.Nullable[string] `json:"note"`
	DateToPray  models.Nullable[string] `json:"dateToPray" validate:"omitempty,dateonly"`
	Status      *string                 `json:"status" validate:"omitempty,oneof=PENDING DONE ANSWERED"`
}

// PrayerRequestService manages prayer requests
type PrayerRequestService struct {
	requests *repository.PrayerRequestRepository
	members  *repository.MemberRepository
	notifier PrayerRequestNotifier
	loc      *time.Location
}

// NewPrayerRequestService creates a new prayer request service. notifier
// may be nil.
func NewPrayerRequestService(requests *repository.PrayerRequestRepository, members *repository.MemberRepository, notifier PrayerRequestNotifier, loc *time.Location) *PrayerRequestService {
	return &PrayerRequestService{requests: requests, members: members, notifier: notifier, loc: loc}
}

func (s *PrayerRequestService) filter(params PrayerRequestFilterParams) (repository.PrayerRequestFilter, error) {
	dates, err := params.dateRange(s.loc)
	if err != nil {
		return repository.PrayerRequestFilter{}, err
	}
	return repository.PrayerRequestFilter{
		Status:   params.Status,
		UserType: params.UserType,
		Dates:    dates,
		Search:   params.Search,
	}, nil
}

// List returns a page of prayer requests, newest first
func (s *PrayerRequestService) List(ctx context.Context, params ListPrayerRequestsParams) (listquery.Result[models.PrayerRequest], error) {
	if err := validateInput(params); err != nil {
		return listquery.Result[models.PrayerRequest]{}, err
	}
	filter, err := s.filter(params.PrayerRequestFilterParams)
	if err != nil {
		return listquery.Result[models.PrayerRequest]{}, err
	}

	page := params.page()
	requests, total, err := s.requests.ListPrayerRequests(ctx, filter, page)
	if err != nil {
		return listquery.Result[models.PrayerRequest]{}, err
	}
	return listquery.NewResult(requests, total, page), nil
}

// Get returns one prayer request with the member's contact details
func (s *PrayerRequestService) Get(ctx context.Context, id int64) (*models.PrayerRequest, error) {
	p, err := s.requests.GetPrayerRequestByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPrayerRequestNotFound
	}
	return p, nil
}

// Create stores a prayer request and notifies the prayer team. A failed
// notification is logged and does not fail the request.
func (s *PrayerRequestService) Create(ctx context.Context, in CreatePrayerRequestInput) (*models.PrayerRequest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	p := &models.PrayerRequest{
		MemberID:    in.MemberID,
		Title:       in.Title,
		Description: in.Description,
		Note:        optionalText(in.Note),
		Status:      models.PrayerPending,
	}
	if in.Status != "" {
		p.Status = models.PrayerStatus(in.Status)
	}
	var err error
	if p.DateToPray, err = optionalDate("dateToPray", in.DateToPray, s.loc); err != nil {
		return nil, err
	}

	if p.MemberID != nil {
		if err := ensureMemberExists(ctx, s.members, *p.MemberID); err != nil {
			return nil, err
		}
	}
	if err := s.requests.CreatePrayerRequest(ctx, p); err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		if err := s.notifier.SendPrayerRequestNotification(ctx, created); err != nil {
			log.WithError(err).WithField("prayer_request_id", created.ID).Warn("Failed to send prayer request notification")
		}
	}
	return created, nil
}

// Update applies a partial change to a prayer request
func (s *PrayerRequestService) Update(ctx context.Context, id int64, in UpdatePrayerRequestInput) (*models.PrayerRequest, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.MemberID.Set {
		p.MemberID = in.MemberID.Ptr()
	}
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = models.PrayerStatus(*in.Status)
	}
	p.Note = nullableText(p.Note, in.Note)
	if in.DateToPray.Set {
		if p.DateToPray, err = optionalDate("dateToPray", in.DateToPray.Ptr(), s.loc); err != nil {
			return nil, err
		}
	}

	if p.MemberID != nil {
		if err := ensureMemberExists(ctx, s.members, *p.MemberID); err != nil {
			return nil, err
		}
	}
	if err := s.requests.UpdatePrayerRequest(ctx, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

// Delete removes a prayer request
func (s *PrayerRequestService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.requests.DeletePrayerRequest(ctx, id)
}

// Stats counts every prayer request that matches params
func (s *PrayerRequestService) Stats(ctx context.Context, params PrayerRequestFilterParams) (*models.PrayerRequestStats, error) {
	if err := validateInput(params); err != nil {
		return nil, err
	}
	filter, err := s.filter(params)
	if err != nil {
		return nil, err
	}

	buckets, err := s.requests.Buckets(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &models.PrayerRequestStats{
		CountByStatus:   map[string]int64{},
		CountByUserType: map[string]int64{},
	}
	for _, b := range buckets {
		stats.TotalCount += b.Count
		stats.CountByStatus[b.Status] += b.Count
		stats.CountByUserType[b.UserType] += b.Count
	}
	return stats, nil
}
