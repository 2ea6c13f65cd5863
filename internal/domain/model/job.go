// Package model defines the core data types shared by the booking job listing layers.
package model

import (
	"time"
)

// JobStatus represents the lifecycle state of a booking.
type JobStatus string

const (
	JobStatusPending              JobStatus = "pending"
	JobStatusAssigned             JobStatus = "assigned"
	JobStatusStarted              JobStatus = "started"
	JobStatusCompleted            JobStatus = "completed"
	JobStatusWithdrawBefore24     JobStatus = "withdrawbefore24"
	JobStatusWithdrawAfter24      JobStatus = "withdrawafter24"
	JobStatusTimedOut             JobStatus = "timedout"
	JobStatusCancelled            JobStatus = "cancelled"
	JobStatusNotCarriedOutByOwner JobStatus = "not_carried_out_customer"
)

// ActiveJobStatuses are the statuses of bookings that still need work.
func ActiveJobStatuses() []JobStatus {
	return []JobStatus{JobStatusPending, JobStatusAssigned, JobStatusStarted}
}

// HistoricJobStatuses are the statuses of bookings that are finished one way or another.
func HistoricJobStatuses() []JobStatus {
	return []JobStatus{JobStatusCompleted, JobStatusWithdrawBefore24, JobStatusWithdrawAfter24, JobStatusTimedOut}
}

// Job types that scope what a consumer may see.
const (
	JobTypeRWS    = "rws"
	JobTypeUnpaid = "unpaid"
	JobTypePaid   = "paid"
)

// Yes/No values used by the yes|no string columns.
const (
	Yes = "yes"
	No  = "no"
)

// Job is a booking for an interpreter or translator. Relation fields are only
// populated when the relation was requested on the query.
type Job struct {
	ID                   int64      `json:"id"                     db:"id"`
	UserID               int64      `json:"user_id"                db:"user_id"`
	FromLanguageID       int64      `json:"from_language_id"       db:"from_language_id"`
	Status               JobStatus  `json:"status"                 db:"status"`
	JobType              string     `json:"job_type"               db:"job_type"`
	Immediate            string     `json:"immediate"              db:"immediate"`
	Due                  time.Time  `json:"due"                    db:"due"`
	ExpiredAt            *time.Time `json:"expired_at"             db:"expired_at"`
	WillExpireAt         *time.Time `json:"will_expire_at"         db:"will_expire_at"`
	CustomerPhysicalType string     `json:"customer_physical_type" db:"customer_physical_type"`
	CustomerPhoneType    string     `json:"customer_phone_type"    db:"customer_phone_type"`
	Flagged              string     `json:"flagged"                db:"flagged"`
	IgnoreFeedback       bool       `json:"ignore_feedback"        db:"ignore_feedback"`
	IgnorePhysical       bool       `json:"ignore_physical"        db:"ignore_physical"`
	IgnorePhysicalPhone  bool       `json:"ignore_physical_phone"  db:"ignore_physical_phone"`
	IgnoreFlagged        bool       `json:"ignore_flagged"         db:"ignore_flagged"`
	CreatedAt            time.Time  `json:"created_at"             db:"created_at"`

	User             *User               `json:"user,omitempty"               db:"-"`
	Language         *Language           `json:"language,omitempty"           db:"-"`
	Feedback         []*Feedback         `json:"feedback,omitempty"           db:"-"`
	TranslatorJobRel []*TranslatorJobRel `json:"translator_job_rel,omitempty" db:"-"`
	Distance         *Distance           `json:"distance,omitempty"           db:"-"`

	// UserCheck is computed for normal jobs of a user listing.
	UserCheck *bool `json:"usercheck,omitempty" db:"-"`
}

// IsImmediate reports whether the booking is an emergency booking.
func (j *Job) IsImmediate() bool { return j.Immediate == Yes }

// Language is a source/target language.
type Language struct {
	ID       int64  `json:"id"       db:"id"`
	Language string `json:"language" db:"language"`
}

// Feedback is a customer rating of a completed booking.
type Feedback struct {
	ID        int64     `json:"id"         db:"id"`
	JobID     int64     `json:"job_id"     db:"job_id"`
	UserID    int64     `json:"user_id"    db:"user_id"`
	Rating    int       `json:"rating"     db:"rating"`
	Comment   string    `json:"comment"    db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	User      *User     `json:"user,omitempty" db:"-"`
}

// TranslatorJobRel links a translator to a booking they accepted.
type TranslatorJobRel struct {
	ID          int64      `json:"id"           db:"id"`
	JobID       int64      `json:"job_id"       db:"job_id"`
	UserID      int64      `json:"user_id"      db:"user_id"`
	CancelAt    *time.Time `json:"cancel_at"    db:"cancel_at"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"   db:"created_at"`
	User        *User      `json:"user,omitempty" db:"-"`
}

// Distance is the travel record of a physical booking.
type Distance struct {
	ID       int64  `json:"id"       db:"id"`
	JobID    int64  `json:"job_id"   db:"job_id"`
	Distance string `json:"distance" db:"distance"`
	Time     string `json:"time"     db:"time"`
}
