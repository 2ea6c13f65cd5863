package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtapi/booking-api/internal/core"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/observability/metrics"
)

// DefaultJobPageSize is the page size of paginated admin listings.
const DefaultJobPageSize = 15

// Listing operations, used as metric and log tags.
const (
	opAllJobs     = "all_jobs"
	opUserJobs    = "user_jobs"
	opJobsByUser  = "jobs_by_user"
	opFiltered    = "filtered_jobs"
	opFilterCount = "filtered_count"
)

// userLookup resolves a user by id; *core.UserCacheService satisfies it.
type userLookup interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
}

// JobListingRepos groups the repositories JobListingService reads from.
type JobListingRepos struct {
	Jobs           core.JobRepository           // Required
	Users          core.UserRepository          // Required: email lookups and user fallback
	TranslatorJobs core.TranslatorJobRepository // Required: translator_email filter
	UserCache      userLookup                   // Optional: read-through user cache
}

// JobListingConfig holds listing configuration.
type JobListingConfig struct {
	Roles    domainauth.Roles
	PageSize int // defaults to DefaultJobPageSize
}

// JobListingServiceOptions groups dependencies for JobListingService.
type JobListingServiceOptions struct {
	Repos   JobListingRepos
	Config  JobListingConfig
	Logger  *slog.Logger // Optional: structured logger
	Metrics metrics.Sink // Optional: listing counts and timings
}

// JobListingService answers booking listing requests for customers,
// translators and administrators.
type JobListingService struct {
	jobs           core.JobRepository
	users          core.UserRepository
	translatorJobs core.TranslatorJobRepository
	userLookup     userLookup
	roles          domainauth.Roles
	pageSize       int
	logger         *slog.Logger
	metrics        metrics.Sink
}

// NewJobListingService constructs a new JobListingService.
func NewJobListingService(opts JobListingServiceOptions) *JobListingService {
	if opts.Repos.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Repos.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Repos.TranslatorJobs == nil {
		panic("TranslatorJobRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := opts.Metrics
	if sink == nil {
		sink = metrics.Noop{}
	}
	pageSize := opts.Config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultJobPageSize
	}

	var lookup userLookup = userRepoLookup{repo: opts.Repos.Users}
	if opts.Repos.UserCache != nil {
		lookup = opts.Repos.UserCache
	}

	return &JobListingService{
		jobs:           opts.Repos.Jobs,
		users:          opts.Repos.Users,
		translatorJobs: opts.Repos.TranslatorJobs,
		userLookup:     lookup,
		roles:          opts.Config.Roles,
		pageSize:       pageSize,
		logger:         logger.With("component", "job_listing"),
		metrics:        sink,
	}
}

type userRepoLookup struct {
	repo core.UserRepository
}

func (l userRepoLookup) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return l.repo.GetByID(ctx, id)
}

// GetAllJobs is the entry point of GET /api/jobs. A user_id filter returns
// that user's overview; otherwise only admins and super-admins may list.
func (s *JobListingService) GetAllJobs(
	ctx context.Context,
	sess domainauth.Session,
	filter *model.JobFilter,
) (*model.AllJobsResult, error) {
	if filter == nil {
		filter = &model.JobFilter{}
	}

	if filter.UserID != nil {
		userJobs, err := s.GetJobsByUser(ctx, *filter.UserID)
		if err != nil {
			return nil, err
		}
		return &model.AllJobsResult{UserJobs: userJobs}, nil
	}

	if !s.roles.IsAdminOrSuperAdmin(sess.UserType) {
		s.emit(opAllJobs, time.Time{}, model.ErrForbidden)
		s.logger.DebugContext(ctx, "job listing denied", "user_id", sess.UserID, "user_type", sess.UserType)
		return nil, model.ErrForbidden
	}

	listing, err := s.GetFilteredJobs(ctx, sess, filter)
	if err != nil {
		return nil, err
	}
	return &model.AllJobsResult{Listing: listing}, nil
}

// GetJobByUserID returns the open bookings of a customer or the new bookings
// of a translator.
func (s *JobListingService) GetJobByUserID(ctx context.Context, userID int64) (jobs []*model.Job, err error) {
	start := time.Now()
	defer func() { s.emit(opUserJobs, start, err) }()

	user, err := s.userLookup.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	switch {
	case user.Is(domainauth.UserTypeCustomer):
		return s.customerJobs(ctx, user.ID)
	case user.Is(domainauth.UserTypeTranslator):
		return s.listTranslatorJobs(ctx, user.ID, model.TranslatorJobsNew)
	default:
		return nil, fmt.Errorf("%w (id=%d, type=%q)", model.ErrUserTypeMismatch, userID, user.UserType)
	}
}

// GetJobsByUser splits a user's bookings into emergency and normal jobs.
// Normal jobs carry the double-booking check and are ordered by due time.
// Users that are neither customers nor translators get empty lists.
func (s *JobListingService) GetJobsByUser(ctx context.Context, userID int64) (result *model.UserJobs, err error) {
	start := time.Now()
	defer func() { s.emit(opJobsByUser, start, err) }()

	user, err := s.userLookup.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	result = &model.UserJobs{
		EmergencyJobs: []*model.Job{},
		NormalJobs:    []*model.Job{},
		User:          user,
	}

	var jobs []*model.Job
	switch {
	case user.Is(domainauth.UserTypeCustomer):
		result.UserType = domainauth.UserTypeCustomer
		jobs, err = s.customerJobs(ctx, user.ID)
	case user.Is(domainauth.UserTypeTranslator):
		result.UserType = domainauth.UserTypeTranslator
		jobs, err = s.listTranslatorJobs(ctx, user.ID, model.TranslatorJobsNew)
	default:
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	for _, job := range jobs {
		if job.IsImmediate() {
			result.EmergencyJobs = append(result.EmergencyJobs, job)
		} else {
			result.NormalJobs = append(result.NormalJobs, job)
		}
	}

	result.NormalJobs, err = s.recheckNormalJobs(ctx, user, result.NormalJobs)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetTranslatorJobs lists a translator's new or historic bookings.
func (s *JobListingService) GetTranslatorJobs(
	ctx context.Context,
	userID int64,
	kind model.TranslatorJobsKind,
) ([]*model.Job, error) {
	return s.listTranslatorJobs(ctx, userID, kind)
}

func (s *JobListingService) customerJobs(ctx context.Context, userID int64) ([]*model.Job, error) {
	q := model.NewJobQuery().
		Where(model.JobFieldUserID, userID).
		WhereIn(model.JobFieldStatus, model.ActiveJobStatuses()).
		OrderBy(model.JobFieldDue, false).
		With(
			model.RelUserMeta,
			model.RelUserAverage,
			model.RelTranslatorUserAverage,
			model.RelLanguage,
			model.RelFeedback,
		)

	jobs, err := s.jobs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list customer jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobListingService) listTranslatorJobs(
	ctx context.Context,
	userID int64,
	kind model.TranslatorJobsKind,
) ([]*model.Job, error) {
	jobs, err := s.jobs.ListForTranslator(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("list translator jobs: %w", err)
	}
	return jobs, nil
}

func (s *JobListingService) emit(op string, start time.Time, err error) {
	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, model.ErrForbidden):
		result = metrics.ResultDenied
	case err != nil:
		result = metrics.ResultError
	}
	var took time.Duration
	if !start.IsZero() {
		took = time.Since(start)
	}
	metrics.EmitListing(s.metrics, metrics.ListingMetric{
		Operation: op,
		Result:    result,
		Duration:  took,
		Err:       err,
	})
}
