package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidFilter wraps every job filter parsing or validation failure.
var ErrInvalidFilter = errors.New("invalid job filter")

// Time types select which timestamp a from/to range applies to.
const (
	FilterTimeTypeCreated = "created"
	FilterTimeTypeDue     = "due"
)

// Filter sentinel values.
const (
	filterFalse       = "false"
	filterTrue        = "true"
	DistanceEmpty     = "empty"
	BookingTypePhys   = "physical"
	BookingTypePhone  = "phone"
	endOfDayClockTime = 23*time.Hour + 59*time.Minute
)

// JobFilter holds the optional criteria of a job listing request.
// Absent parameters are zero values; nothing here is defaulted.
type JobFilter struct {
	UserID *int64 `query:"user_id" validate:"omitempty,gt=0"`

	// IDs holds the id parameter. IDList records whether it was sent as a list.
	IDs    []int64 `query:"id" validate:"dive,gt=0"`
	IDList bool    `query:"-"`

	Feedback string `query:"feedback"`
	Count    string `query:"count"`

	Lang     []int64  `query:"lang"     validate:"dive,gt=0"`
	Status   []string `query:"status"   validate:"dive,required"`
	JobTypes []string `query:"job_type" validate:"dive,required"`

	ExpiredAt    *time.Time `query:"expired_at"`
	WillExpireAt *time.Time `query:"will_expire_at"`

	CustomerEmails   []string `query:"customer_email"   validate:"dive,email"`
	TranslatorEmails []string `query:"translator_email" validate:"dive,email"`

	FilterTimeType string     `query:"filter_timetype" validate:"omitempty,oneof=created due"`
	From           *time.Time `query:"from"`
	To             *time.Time `query:"to"`

	Physical *string `query:"physical"`
	Phone    *string `query:"phone"`
	Flagged  *string `query:"flagged"`

	Distance     string `query:"distance"`
	Salary       string `query:"salary"`
	ConsumerType string `query:"consumer_type"`
	BookingType  string `query:"booking_type" validate:"omitempty,oneof=physical phone"`

	Page *int `query:"page" validate:"omitempty,gte=1"`
}

// HasID reports whether an id restriction was requested.
func (f *JobFilter) HasID() bool { return len(f.IDs) > 0 }

// FeedbackRequested reports whether the low-rating feedback filter is on.
func (f *JobFilter) FeedbackRequested() bool {
	return f.Feedback != "" && f.Feedback != filterFalse
}

// CountWithFeedback reports whether a feedback listing should return only a count.
func (f *JobFilter) CountWithFeedback() bool {
	return f.Count != "" && f.Count != filterFalse
}

// CountRequested reports whether the listing should return only a count.
func (f *JobFilter) CountRequested() bool { return f.Count == filterTrue }

// DistanceEmptyRequested reports whether only bookings without a distance row are wanted.
func (f *JobFilter) DistanceEmptyRequested() bool { return f.Distance == DistanceEmpty }

// SalaryRequested reports whether only bookings of owners without salary are wanted.
func (f *JobFilter) SalaryRequested() bool { return f.Salary == Yes }

// ParseFilterTime parses a filter date. Accepted layouts are a bare date,
// date with time and RFC3339. When endOfDay is set a bare date resolves to
// 23:59:00 of that day.
func ParseFilterTime(raw string, endOfDay bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		if endOfDay {
			t = t.Add(endOfDayClockTime)
		}
		return t, nil
	}
	for _, layout := range []string{time.DateTime, "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidFilter, raw)
}
