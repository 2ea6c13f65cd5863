package model

import (
	"errors"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
)

// ErrForbidden is returned when the requester may not list the requested jobs.
var ErrForbidden = errors.New("not allowed to list jobs")

// JobPage is one page of a paginated listing.
type JobPage struct {
	Jobs        []*Job `json:"data"`
	Total       int    `json:"total"`
	PerPage     int    `json:"per_page"`
	CurrentPage int    `json:"current_page"`
	LastPage    int    `json:"last_page"`
}

// JobListing is the result of a filtered listing. Exactly one of Jobs, Page
// or Count is meaningful: Count is set for count requests, Page for
// paginated requests, Jobs otherwise.
type JobListing struct {
	Jobs  []*Job
	Page  *JobPage
	Count *int
}

// UserJobs is the per-user booking overview.
type UserJobs struct {
	EmergencyJobs []*Job              `json:"emergencyJobs"`
	NormalJobs    []*Job              `json:"normalJobs"`
	User          *User               `json:"cuser"`
	UserType      domainauth.UserType `json:"usertype"`
}

// AllJobsResult is the outcome of a job listing request: either the
// overview of one user or a filtered listing.
type AllJobsResult struct {
	UserJobs *UserJobs
	Listing  *JobListing
}
