package service

import (
	"strings"
	"time"

	"churchadmin/internal/listquery"
	"churchadmin/internal/models"
)

// PageParams is embedded by every list input.
type PageParams struct {
	Page  int `json:"page" validate:"omitempty,gte=1"`
	Limit int `json:"limit" validate:"omitempty,gte=1,lte=100"`
}

func (p PageParams) page() listquery.Page {
	return listquery.NewPage(p.Page, p.Limit)
}

// DateRangeParams bounds a list by calendar day, inclusive on both ends.
type DateRangeParams struct {
	StartDate string `json:"startDate" validate:"dateonly"`
	EndDate   string `json:"endDate" validate:"dateonly"`
}

func (p DateRangeParams) dateRange(loc *time.Location) (listquery.DateRange, error) {
	r, err := listquery.ParseDateRange(p.StartDate, p.EndDate, loc)
	if err != nil {
		return r, Invalid(err.Error(), nil)
	}
	return r, nil
}

func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	t, err := listquery.ParseDate(value, loc)
	if err != nil {
		return time.Time{}, Invalid("Invalid input", map[string]string{field: "must be a date (YYYY-MM-DD)"})
	}
	return t, nil
}

// optionalDate parses a date that may be absent or blank; both yield nil.
func optionalDate(field string, value *string, loc *time.Location) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// optionalText stores blank strings as NULL.
func optionalText(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := *s
	return &v
}

// patchText applies an optional string update: nil keeps current, blank clears.
func patchText(current *string, update *string) *string {
	if update == nil {
		return current
	}
	return optionalText(update)
}

// patchDate applies an optional date update: nil keeps current, blank clears.
func patchDate(field string, current *time.Time, update *string, loc *time.Location) (*time.Time, error) {
	if update == nil {
		return current, nil
	}
	return optionalDate(field, update, loc)
}

// nullableText applies a Nullable update: absent keeps current, null or blank clears.
func nullableText(current *string, update models.Nullable[string]) *string {
	if !update.Set {
		return current
	}
	return optionalText(update.Ptr())
}
