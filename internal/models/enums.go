package models

// UserType distinguishes registered members from guests.
type UserType string

const (
	UserTypeMember UserType = "MEMBER"
	UserTypeGuest  UserType = "GUEST"
)

// AttendanceType is the kind of gathering an attendance session records.
type AttendanceType string

const (
	AttendanceSundayService  AttendanceType = "SUNDAY_SERVICE"
	AttendanceBibleStudy     AttendanceType = "BIBLE_STUDY"
	AttendancePrayerMeeting  AttendanceType = "PRAYER_MEETING"
	AttendanceYouthService   AttendanceType = "YOUTH_SERVICE"
	AttendanceMidweekService AttendanceType = "MIDWEEK_SERVICE"
	AttendanceSpecialEvent   AttendanceType = "SPECIAL_EVENT"
)

// AttendanceStatus is a member's presence at one session.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusAbsent  AttendanceStatus = "ABSENT"
	StatusLate    AttendanceStatus = "LATE"
	StatusExcused AttendanceStatus = "EXCUSED"
)

// OfferingType categorises a contribution.
type OfferingType string

const (
	OfferingTithe           OfferingType = "TITHE"
	OfferingGeneral         OfferingType = "OFFERING"
	OfferingBuildingFund    OfferingType = "BUILDING_FUND"
	OfferingMissions        OfferingType = "MISSIONS"
	OfferingSpecialOffering OfferingType = "SPECIAL_OFFERING"
	OfferingThanksgiving    OfferingType = "THANKSGIVING"
	OfferingOther           OfferingType = "OTHER"
)

// PrayerStatus tracks a prayer request through its lifecycle.
type PrayerStatus string

const (
	PrayerPending  PrayerStatus = "PENDING"
	PrayerDone     PrayerStatus = "DONE"
	PrayerAnswered PrayerStatus = "ANSWERED"
)
