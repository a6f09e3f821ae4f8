package models

import "time"

// PrayerRequest is a request submitted by or for a member, or anonymously.
type PrayerRequest struct {
	ID          int64        `json:"id"`
	MemberID    *int64       `json:"memberId"`
	Member      *MemberRef   `json:"member"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Note        *string      `json:"note"`
	DateToPray  *time.Time   `json:"dateToPray"`
	Status      PrayerStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// PrayerRequestStats counts prayer requests over a filter.
type PrayerRequestStats struct {
	TotalCount      int64            `json:"totalCount"`
	CountByStatus   map[string]int64 `json:"countByStatus"`
	CountByUserType map[string]int64 `json:"countByUserType"`
}
