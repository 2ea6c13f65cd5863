package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// conflictCheckConcurrency bounds parallel double-booking checks per listing.
const conflictCheckConcurrency = 4

// filteredJobRelations are eager loaded on every admin listing.
var filteredJobRelations = []model.JobRelation{
	model.RelUser,
	model.RelLanguage,
	model.RelFeedbackUser,
	model.RelTranslatorUser,
	model.RelDistance,
}

// GetFilteredJobs runs the admin listing pipeline: consumer scoping,
// role-gated filters, sorting, eager loading and finally count, page or
// full result.
func (s *JobListingService) GetFilteredJobs(
	ctx context.Context,
	sess domainauth.Session,
	filter *model.JobFilter,
) (listing *model.JobListing, err error) {
	start := time.Now()
	op := opFiltered
	defer func() { s.emit(op, start, err) }()

	q := s.queryJobsByConsumer(filter, sess.ConsumerType)

	var count *int
	if s.roles.IsSuperAdmin(sess.UserType) {
		count, err = s.applySuperAdminFilters(ctx, q, filter)
	} else {
		count, err = s.applyAdminFilters(ctx, q, filter)
	}
	if err != nil {
		return nil, err
	}
	if count != nil {
		op = opFilterCount
		return &model.JobListing{Count: count}, nil
	}

	q.OrderBy(model.JobFieldCreatedAt, true).With(filteredJobRelations...)

	if filter.Page != nil {
		page, pageErr := s.jobs.Paginate(ctx, q, model.PageRequest{Page: *filter.Page, PerPage: s.pageSize})
		if pageErr != nil {
			return nil, fmt.Errorf("paginate jobs: %w", pageErr)
		}
		return &model.JobListing{Page: page}, nil
	}

	jobs, err := s.jobs.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return &model.JobListing{Jobs: jobs}, nil
}

// queryJobsByConsumer starts the listing query: the optional id restriction
// and the job type visible to the requester's consumer type.
func (s *JobListingService) queryJobsByConsumer(filter *model.JobFilter, consumerType string) *model.JobQuery {
	q := model.NewJobQuery()
	if filter.HasID() {
		applyIDFilter(q, filter)
	}
	if consumerType == domainauth.ConsumerTypeRWS {
		q.Where(model.JobFieldJobType, model.JobTypeRWS)
	} else {
		q.Where(model.JobFieldJobType, model.JobTypeUnpaid)
	}
	return q
}

func applyIDFilter(q *model.JobQuery, filter *model.JobFilter) {
	if filter.IDList {
		q.WhereIn(model.JobFieldID, filter.IDs)
		return
	}
	q.Where(model.JobFieldID, filter.IDs[0])
}

func applyFeedbackFilter(q *model.JobQuery) {
	q.Where(model.JobFieldIgnoreFeedback, false).
		WhereHas(model.RelFeedback, model.Cond("rating", model.OpLte, 3))
}

func applyTimeRange(q *model.JobQuery, filter *model.JobFilter) {
	var column string
	switch filter.FilterTimeType {
	case model.FilterTimeTypeCreated:
		column = model.JobFieldCreatedAt
	case model.FilterTimeTypeDue:
		column = model.JobFieldDue
	default:
		return
	}
	if filter.From != nil {
		q.WhereOp(column, model.OpGte, *filter.From)
	}
	if filter.To != nil {
		q.WhereOp(column, model.OpLte, *filter.To)
	}
	q.OrderBy(column, true)
}

func (s *JobListingService) count(ctx context.Context, q *model.JobQuery) (*int, error) {
	n, err := s.jobs.Count(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	return &n, nil
}

// applySuperAdminFilters attaches the full filter set. A non-nil count means
// the request asked for a count and the listing stops here.
func (s *JobListingService) applySuperAdminFilters(
	ctx context.Context,
	q *model.JobQuery,
	filter *model.JobFilter,
) (*int, error) {
	if filter.FeedbackRequested() {
		applyFeedbackFilter(q)
		if filter.CountWithFeedback() {
			return s.count(ctx, q)
		}
	}

	// An id lookup supersedes every other criterion.
	if filter.HasID() {
		if !q.HasPredicate(model.JobFieldID, model.OpEq) && !q.HasPredicate(model.JobFieldID, model.OpIn) {
			applyIDFilter(q, filter)
		}
		return nil, nil
	}

	if len(filter.Lang) > 0 {
		q.WhereIn(model.JobFieldFromLanguageID, filter.Lang)
	}
	if len(filter.Status) > 0 {
		q.WhereIn(model.JobFieldStatus, filter.Status)
	}
	if filter.ExpiredAt != nil {
		q.WhereOp(model.JobFieldExpiredAt, model.OpGte, *filter.ExpiredAt)
	}
	if filter.WillExpireAt != nil {
		q.WhereOp(model.JobFieldWillExpireAt, model.OpGte, *filter.WillExpireAt)
	}

	if len(filter.CustomerEmails) > 0 {
		ids, err := s.users.ListIDsByEmails(ctx, filter.CustomerEmails)
		if err != nil {
			return nil, fmt.Errorf("customer email lookup: %w", err)
		}
		q.WhereIn(model.JobFieldUserID, ids)
	}
	if len(filter.TranslatorEmails) > 0 {
		jobIDs, err := s.translatorJobIDs(ctx, filter.TranslatorEmails)
		if err != nil {
			return nil, err
		}
		q.WhereIn(model.JobFieldID, jobIDs)
	}

	applyTimeRange(q, filter)

	if len(filter.JobTypes) > 0 {
		q.WhereIn(model.JobFieldJobType, filter.JobTypes)
	}
	if filter.Physical != nil {
		q.Where(model.JobFieldCustomerPhysicalType, *filter.Physical).
			Where(model.JobFieldIgnorePhysical, false)
	}
	if filter.Phone != nil {
		q.Where(model.JobFieldCustomerPhoneType, *filter.Phone)
		if filter.Physical != nil {
			q.Where(model.JobFieldIgnorePhysicalPhone, false)
		}
	}
	if filter.Flagged != nil {
		q.Where(model.JobFieldFlagged, *filter.Flagged).
			Where(model.JobFieldIgnoreFlagged, false)
	}
	if filter.DistanceEmptyRequested() {
		q.WhereDoesntHave(model.RelDistance)
	}
	if filter.SalaryRequested() {
		q.WhereDoesntHave(model.RelUserSalaries)
	}

	// The count is taken before the consumer and booking type restrictions.
	if filter.CountRequested() {
		return s.count(ctx, q)
	}

	if filter.ConsumerType != "" {
		q.WhereHas(model.RelUserMeta, model.Cond("consumer_type", model.OpEq, filter.ConsumerType))
	}
	switch filter.BookingType {
	case model.BookingTypePhys:
		q.Where(model.JobFieldCustomerPhysicalType, model.Yes)
	case model.BookingTypePhone:
		q.Where(model.JobFieldCustomerPhoneType, model.Yes)
	}
	return nil, nil
}

// applyAdminFilters attaches the reduced admin filter set.
func (s *JobListingService) applyAdminFilters(
	ctx context.Context,
	q *model.JobQuery,
	filter *model.JobFilter,
) (*int, error) {
	if filter.FeedbackRequested() {
		applyFeedbackFilter(q)
		if filter.CountWithFeedback() {
			return s.count(ctx, q)
		}
	}

	if len(filter.Lang) > 0 {
		q.WhereIn(model.JobFieldFromLanguageID, filter.Lang)
	}
	if len(filter.Status) > 0 {
		q.WhereIn(model.JobFieldStatus, filter.Status)
	}
	if len(filter.JobTypes) > 0 {
		q.WhereIn(model.JobFieldJobType, filter.JobTypes)
	}

	// Admins filter by a single customer; an unknown email is ignored.
	if len(filter.CustomerEmails) > 0 {
		user, err := s.users.GetByEmail(ctx, filter.CustomerEmails[0])
		switch {
		case err == nil:
			q.Where(model.JobFieldUserID, user.ID)
		case !errors.Is(err, model.ErrUserNotFound):
			return nil, fmt.Errorf("customer email lookup: %w", err)
		}
	}

	applyTimeRange(q, filter)

	if filter.CountRequested() {
		return s.count(ctx, q)
	}
	return nil, nil
}

func (s *JobListingService) translatorJobIDs(ctx context.Context, emails []string) ([]int64, error) {
	userIDs, err := s.users.ListIDsByEmails(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("translator email lookup: %w", err)
	}
	if len(userIDs) == 0 {
		return []int64{}, nil
	}
	jobIDs, err := s.translatorJobs.ActiveJobIDsByTranslators(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("translator job lookup: %w", err)
	}
	return jobIDs, nil
}

// recheckNormalJobs marks each job with whether taking it would double-book
// the user and orders the jobs by due time. Customers never conflict.
func (s *JobListingService) recheckNormalJobs(ctx context.Context, user *model.User, jobs []*model.Job) ([]*model.Job, error) {
	if user.Is(domainauth.UserTypeTranslator) {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(conflictCheckConcurrency)
		for _, job := range jobs {
			g.Go(func() error {
				conflict, err := s.jobs.HasConflictingAssignment(gctx, user.ID, job)
				if err != nil {
					return fmt.Errorf("check job %d: %w", job.ID, err)
				}
				job.UserCheck = &conflict
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, job := range jobs {
			job.UserCheck = new(bool)
		}
	}

	slices.SortStableFunc(jobs, func(a, b *model.Job) int {
		return cmp.Compare(a.Due.UnixNano(), b.Due.UnixNano())
	})
	return jobs, nil
}
