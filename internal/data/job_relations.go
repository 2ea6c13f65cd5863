package data

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dtapi/booking-api/internal/data/database"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// relationParents lists the relations implied by a nested relation.
var relationParents = map[model.JobRelation][]model.JobRelation{
	model.RelUserMeta:              {model.RelUser},
	model.RelUserAverage:           {model.RelUser},
	model.RelFeedbackUser:          {model.RelFeedback},
	model.RelTranslatorUser:        {model.RelTranslatorJobRel},
	model.RelTranslatorUserAverage: {model.RelTranslatorJobRel, model.RelTranslatorUser},
}

type relationSet map[model.JobRelation]bool

func newRelationSet(rels []model.JobRelation) (relationSet, error) {
	set := relationSet{}
	for _, rel := range rels {
		switch rel {
		case model.RelUser, model.RelUserMeta, model.RelUserAverage,
			model.RelLanguage, model.RelFeedback, model.RelFeedbackUser,
			model.RelTranslatorJobRel, model.RelTranslatorUser, model.RelTranslatorUserAverage,
			model.RelDistance:
		default:
			return nil, fmt.Errorf("%w: %q cannot be eager loaded", ErrUnknownRelation, rel)
		}
		set[rel] = true
		for _, parent := range relationParents[rel] {
			set[parent] = true
		}
	}
	return set, nil
}

// RelationLoader eager loads job relations in batches, one query per relation level.
type RelationLoader struct {
	db dbtx
}

// NewRelationLoader creates a loader reading from db.
func NewRelationLoader(db *sql.DB) *RelationLoader {
	return &RelationLoader{db: db}
}

// Load populates the requested relations on jobs. Independent relation
// groups are fetched concurrently; each group writes distinct job fields.
func (l *RelationLoader) Load(ctx context.Context, jobs []*model.Job, rels []model.JobRelation) error {
	if len(jobs) == 0 || len(rels) == 0 {
		return nil
	}
	set, err := newRelationSet(rels)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	if set[model.RelUser] {
		g.Go(func() error { return l.loadOwners(gctx, jobs, set) })
	}
	if set[model.RelLanguage] {
		g.Go(func() error { return l.loadLanguages(gctx, jobs) })
	}
	if set[model.RelFeedback] {
		g.Go(func() error { return l.loadFeedback(gctx, jobs, set[model.RelFeedbackUser]) })
	}
	if set[model.RelTranslatorJobRel] {
		g.Go(func() error { return l.loadTranslatorRels(gctx, jobs, set) })
	}
	if set[model.RelDistance] {
		g.Go(func() error { return l.loadDistances(gctx, jobs) })
	}
	return g.Wait()
}

func jobIDs(jobs []*model.Job) []int64 {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	return uniqueIDs(ids)
}

func (l *RelationLoader) loadOwners(ctx context.Context, jobs []*model.Job, set relationSet) error {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.UserID
	}
	users, err := l.usersByID(ctx, uniqueIDs(ids), userDetails{meta: set[model.RelUserMeta], average: set[model.RelUserAverage]})
	if err != nil {
		return fmt.Errorf("owners: %w", err)
	}
	for _, j := range jobs {
		j.User = users[j.UserID]
	}
	return nil
}

func (l *RelationLoader) loadLanguages(ctx context.Context, jobs []*model.Job) error {
	ids := make([]int64, len(jobs))
	for i, j := range jobs {
		ids[i] = j.FromLanguageID
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("languages",
		database.WithColumns("id", "language"),
		database.WithCondition(database.WhereCond("id", database.In, ids)),
	))
	langs, err := collectRows(ctx, l.db, query, args, func(row rowScanner) (*model.Language, error) {
		var lang model.Language
		return &lang, row.Scan(&lang.ID, &lang.Language)
	})
	if err != nil {
		return fmt.Errorf("languages: %w", err)
	}

	byID := make(map[int64]*model.Language, len(langs))
	for _, lang := range langs {
		byID[lang.ID] = lang
	}
	for _, j := range jobs {
		j.Language = byID[j.FromLanguageID]
	}
	return nil
}

func (l *RelationLoader) loadFeedback(ctx context.Context, jobs []*model.Job, withUser bool) error {
	query, args := database.BuildListQuery(database.NewListQueryOptions("feedback",
		database.WithColumns("id", "job_id", "user_id", "rating", "comment", "created_at"),
		database.WithCondition(database.WhereCond("job_id", database.In, jobIDs(jobs))),
		database.WithOrderBy("id", "ASC"),
	))
	rows, err := collectRows(ctx, l.db, query, args, func(row rowScanner) (*model.Feedback, error) {
		var (
			f       model.Feedback
			comment sql.NullString
		)
		if err := row.Scan(&f.ID, &f.JobID, &f.UserID, &f.Rating, &comment, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Comment = comment.String
		return &f, nil
	})
	if err != nil {
		return fmt.Errorf("feedback: %w", err)
	}

	if withUser && len(rows) > 0 {
		ids := make([]int64, len(rows))
		for i, f := range rows {
			ids[i] = f.UserID
		}
		users, userErr := l.usersByID(ctx, uniqueIDs(ids), userDetails{})
		if userErr != nil {
			return fmt.Errorf("feedback users: %w", userErr)
		}
		for _, f := range rows {
			f.User = users[f.UserID]
		}
	}

	byJob := make(map[int64][]*model.Feedback, len(jobs))
	for _, f := range rows {
		byJob[f.JobID] = append(byJob[f.JobID], f)
	}
	for _, j := range jobs {
		j.Feedback = nonNil(byJob[j.ID])
	}
	return nil
}

func (l *RelationLoader) loadTranslatorRels(ctx context.Context, jobs []*model.Job, set relationSet) error {
	query, args := database.BuildListQuery(database.NewListQueryOptions("translator_job_rel",
		database.WithColumns("id", "job_id", "user_id", "cancel_at", "completed_at", "created_at"),
		database.WithCondition(database.WhereCond("job_id", database.In, jobIDs(jobs))),
		database.WithOrderBy("id", "ASC"),
	))
	rels, err := collectRows(ctx, l.db, query, args, func(row rowScanner) (*model.TranslatorJobRel, error) {
		var (
			rel                   model.TranslatorJobRel
			cancelAt, completedAt sql.NullTime
		)
		if err := row.Scan(&rel.ID, &rel.JobID, &rel.UserID, &cancelAt, &completedAt, &rel.CreatedAt); err != nil {
			return nil, err
		}
		rel.CancelAt = timePtr(cancelAt)
		rel.CompletedAt = timePtr(completedAt)
		return &rel, nil
	})
	if err != nil {
		return fmt.Errorf("translator relations: %w", err)
	}

	if set[model.RelTranslatorUser] && len(rels) > 0 {
		ids := make([]int64, len(rels))
		for i, rel := range rels {
			ids[i] = rel.UserID
		}
		users, userErr := l.usersByID(ctx, uniqueIDs(ids), userDetails{average: set[model.RelTranslatorUserAverage]})
		if userErr != nil {
			return fmt.Errorf("translator users: %w", userErr)
		}
		for _, rel := range rels {
			rel.User = users[rel.UserID]
		}
	}

	byJob := make(map[int64][]*model.TranslatorJobRel, len(jobs))
	for _, rel := range rels {
		byJob[rel.JobID] = append(byJob[rel.JobID], rel)
	}
	for _, j := range jobs {
		j.TranslatorJobRel = nonNil(byJob[j.ID])
	}
	return nil
}

func (l *RelationLoader) loadDistances(ctx context.Context, jobs []*model.Job) error {
	query, args := database.BuildListQuery(database.NewListQueryOptions("distances",
		database.WithColumns("id", "job_id", "distance", "time"),
		database.WithCondition(database.WhereCond("job_id", database.In, jobIDs(jobs))),
	))
	rows, err := collectRows(ctx, l.db, query, args, func(row rowScanner) (*model.Distance, error) {
		var (
			d              model.Distance
			distance, took sql.NullString
		)
		if err := row.Scan(&d.ID, &d.JobID, &distance, &took); err != nil {
			return nil, err
		}
		d.Distance = distance.String
		d.Time = took.String
		return &d, nil
	})
	if err != nil {
		return fmt.Errorf("distances: %w", err)
	}

	byJob := make(map[int64]*model.Distance, len(rows))
	for _, d := range rows {
		if _, ok := byJob[d.JobID]; !ok {
			byJob[d.JobID] = d
		}
	}
	for _, j := range jobs {
		j.Distance = byJob[j.ID]
	}
	return nil
}

type userDetails struct {
	meta    bool
	average bool
}

func (l *RelationLoader) usersByID(ctx context.Context, ids []int64, details userDetails) (map[int64]*model.User, error) {
	out := make(map[int64]*model.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	users, err := listUsers(ctx, l.db, database.WhereCond("id", database.In, ids))
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	if details.meta {
		if err := attachUserMeta(ctx, l.db, out); err != nil {
			return nil, err
		}
	}
	if details.average {
		if err := attachUserAverages(ctx, l.db, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
