package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/dtapi/booking-api/internal/data/database"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// RepoConfig holds configuration options for the job repository.
type RepoConfig struct {
	Logger *slog.Logger
}

// JobRepo provides read access to bookings and their relations.
type JobRepo struct {
	DB        *sql.DB
	relations *RelationLoader
	logger    *slog.Logger
}

// NewJobRepo creates a new JobRepo instance with the given database connection and configuration.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRepo{
		DB:        db,
		relations: NewRelationLoader(db),
		logger:    logger.With("component", "job_repo"),
	}
}

var jobSelectColumns = []string{
	"id",
	"user_id",
	"from_language_id",
	"status",
	"job_type",
	"immediate",
	"due",
	"expired_at",
	"will_expire_at",
	"customer_physical_type",
	"customer_phone_type",
	"flagged",
	"ignore_feedback",
	"ignore_physical",
	"ignore_physical_phone",
	"ignore_flagged",
	"created_at",
}

func scanJob(row rowScanner) (*model.Job, error) {
	var (
		j            model.Job
		expiredAt    sql.NullTime
		willExpireAt sql.NullTime
	)
	if err := row.Scan(
		&j.ID,
		&j.UserID,
		&j.FromLanguageID,
		&j.Status,
		&j.JobType,
		&j.Immediate,
		&j.Due,
		&expiredAt,
		&willExpireAt,
		&j.CustomerPhysicalType,
		&j.CustomerPhoneType,
		&j.Flagged,
		&j.IgnoreFeedback,
		&j.IgnorePhysical,
		&j.IgnorePhysicalPhone,
		&j.IgnoreFlagged,
		&j.CreatedAt,
	); err != nil {
		return nil, err
	}
	j.ExpiredAt = timePtr(expiredAt)
	j.WillExpireAt = timePtr(willExpireAt)
	return &j, nil
}

// List returns every job matching q with the requested relations loaded.
func (r *JobRepo) List(ctx context.Context, q *model.JobQuery) ([]*model.Job, error) {
	opts, err := jobQueryOptions(q)
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, opts, q.Relations)
}

// Count returns the number of jobs matching q. Orderings and relations are ignored.
func (r *JobRepo) Count(ctx context.Context, q *model.JobQuery) (int, error) {
	opts, err := jobQueryOptions(q, database.WithCountOnly())
	if err != nil {
		return 0, err
	}
	query, args := database.BuildListQuery(opts)

	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// Paginate returns one page of the jobs matching q along with the total row count.
func (r *JobRepo) Paginate(ctx context.Context, q *model.JobQuery, page model.PageRequest) (*model.JobPage, error) {
	if page.Page < 1 || page.PerPage < 1 {
		return nil, ErrInvalidPageRequest
	}

	total, err := r.Count(ctx, q)
	if err != nil {
		return nil, err
	}

	out := &model.JobPage{
		Jobs:        []*model.Job{},
		Total:       total,
		PerPage:     page.PerPage,
		CurrentPage: page.Page,
		LastPage:    max((total+page.PerPage-1)/page.PerPage, 1),
	}
	if page.Offset() >= total {
		return out, nil
	}

	opts, err := jobQueryOptions(q, database.WithLimit(page.PerPage), database.WithOffset(page.Offset()))
	if err != nil {
		return nil, err
	}
	jobs, err := r.fetch(ctx, opts, q.Relations)
	if err != nil {
		return nil, err
	}
	out.Jobs = jobs
	return out, nil
}

const (
	translatorActiveRelCond   = `EXISTS (SELECT 1 FROM translator_job_rel tj WHERE tj.job_id = jobs.id AND tj.user_id = $1 AND tj.cancel_at IS NULL)`
	translatorAnyRelCond      = `EXISTS (SELECT 1 FROM translator_job_rel tj WHERE tj.job_id = jobs.id AND tj.user_id = $1)`
	conflictingAssignmentStmt = `
		SELECT EXISTS (
			SELECT 1
			FROM translator_job_rel tj
			JOIN jobs j ON j.id = tj.job_id
			WHERE tj.user_id = $1
			  AND tj.cancel_at IS NULL
			  AND j.id <> $2
			  AND j.due = $3
			  AND j.status IN ('pending', 'assigned', 'started')
		)`
)

// ListForTranslator returns the bookings a translator accepted. New bookings
// are the active ones ordered by due time; historic bookings are the finished
// ones, most recent first.
func (r *JobRepo) ListForTranslator(
	ctx context.Context,
	userID int64,
	kind model.TranslatorJobsKind,
) ([]*model.Job, error) {
	q := model.NewJobQuery().With(model.RelUserMeta, model.RelUserAverage, model.RelLanguage, model.RelFeedback)

	relCond := translatorActiveRelCond
	switch kind {
	case model.TranslatorJobsHistoric:
		relCond = translatorAnyRelCond
		q.WhereIn(model.JobFieldStatus, model.HistoricJobStatuses()).OrderBy(model.JobFieldDue, true)
	case model.TranslatorJobsNew, "":
		q.WhereIn(model.JobFieldStatus, model.ActiveJobStatuses()).OrderBy(model.JobFieldDue, false)
	default:
		return nil, fmt.Errorf("unknown translator jobs kind %q", kind)
	}

	opts, err := jobQueryOptions(q, database.WithCondition(database.WhereRawCond(relCond, userID)))
	if err != nil {
		return nil, err
	}
	return r.fetch(ctx, opts, q.Relations)
}

// HasConflictingAssignment reports whether the user holds an active
// assignment on another booking due at the same time as job.
func (r *JobRepo) HasConflictingAssignment(ctx context.Context, userID int64, job *model.Job) (bool, error) {
	if job == nil {
		return false, nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, conflictingAssignmentStmt, userID, job.ID, job.Due).Scan(&exists); err != nil {
		return false, fmt.Errorf("check conflicting assignment: %w", err)
	}
	return exists, nil
}

func (r *JobRepo) fetch(
	ctx context.Context,
	opts *database.ListQueryOptions,
	rels []model.JobRelation,
) ([]*model.Job, error) {
	query, args := database.BuildListQuery(opts)
	r.logger.DebugContext(ctx, "listing jobs", "conditions", len(opts.Conditions), "relations", len(rels))

	jobs, err := collectRows(ctx, r.DB, query, args, scanJob)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	if jobs == nil {
		jobs = []*model.Job{}
	}
	if err := r.relations.Load(ctx, jobs, rels); err != nil {
		return nil, fmt.Errorf("load job relations: %w", err)
	}
	return jobs, nil
}
