// Package devseed loads a small, repeatable booking dataset for local development.
package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtapi/booking-api/internal/data/pgxutil"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// Roles are the configured admin identifiers; seeded admin users take these types.
type Roles = domainauth.Roles

// Options controls a seeding run.
type Options struct {
	Roles Roles
	// Now anchors due dates. Defaults to time.Now.
	Now func() time.Time
}

type userSeed struct {
	Name         string
	Email        string
	UserType     domainauth.UserType
	ConsumerType string
	CustomerType string
	Average      *float64
}

type jobSeed struct {
	CustomerEmail   string
	TranslatorEmail string
	Language        string
	Status          model.JobStatus
	JobType         string
	Immediate       string
	DueIn           time.Duration
	Physical        bool
	Flagged         bool
	FeedbackRating  int
}

// Result reports what a run inserted.
type Result struct {
	Users int
	Jobs  int
}

// Run inserts the development dataset in a single transaction. Users and languages are
// upserted by their unique keys; jobs are only created for customers that have none.
func Run(ctx context.Context, db *sql.DB, opts Options, logger *slog.Logger) (Result, error) {
	if db == nil {
		return Result{}, errors.New("devseed: database is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	var res Result
	err := pgxutil.WithSQLTx(ctx, db, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		langIDs, err := seedLanguages(ctx, tx, defaultLanguages())
		if err != nil {
			return err
		}
		userIDs, err := seedUsers(ctx, tx, defaultUsers(opts.Roles))
		if err != nil {
			return err
		}
		res.Users = len(userIDs)

		n, err := seedJobs(ctx, tx, jobSeedParams{
			jobs:   defaultJobs(),
			users:  userIDs,
			langs:  langIDs,
			now:    now().UTC(),
			logger: logger,
		})
		if err != nil {
			return err
		}
		res.Jobs = n
		return nil
	}})
	if err != nil {
		return Result{}, fmt.Errorf("devseed: %w", err)
	}
	logger.InfoContext(ctx, "development data seeded", "users", res.Users, "jobs", res.Jobs)
	return res, nil
}

func defaultLanguages() []string {
	return []string{"Swedish", "English", "Arabic", "Persian"}
}

func defaultUsers(roles Roles) []userSeed {
	avg := 4.5
	users := []userSeed{
		{Name: "Dev Customer", Email: "customer@dev.local", UserType: domainauth.UserTypeCustomer, ConsumerType: "paid", CustomerType: "company"},
		{Name: "RWS Customer", Email: "rws@dev.local", UserType: domainauth.UserTypeCustomer, ConsumerType: domainauth.ConsumerTypeRWS, CustomerType: "government"},
		{Name: "Dev Translator", Email: "translator@dev.local", UserType: domainauth.UserTypeTranslator, Average: &avg},
	}
	if roles.Admin != "" {
		users = append(users, userSeed{Name: "Dev Admin", Email: "admin@dev.local", UserType: roles.Admin})
	}
	if roles.SuperAdmin != "" {
		users = append(users, userSeed{Name: "Dev Superadmin", Email: "superadmin@dev.local", UserType: roles.SuperAdmin})
	}
	return users
}

func defaultJobs() []jobSeed {
	return []jobSeed{
		{CustomerEmail: "customer@dev.local", Language: "Swedish", Status: model.JobStatusPending, JobType: model.JobTypePaid, Immediate: model.Yes, DueIn: 2 * time.Hour},
		{CustomerEmail: "customer@dev.local", Language: "English", Status: model.JobStatusPending, JobType: model.JobTypePaid, Immediate: model.No, DueIn: 48 * time.Hour, Physical: true},
		{CustomerEmail: "customer@dev.local", TranslatorEmail: "translator@dev.local", Language: "Arabic", Status: model.JobStatusAssigned, JobType: model.JobTypePaid, Immediate: model.No, DueIn: 72 * time.Hour},
		{CustomerEmail: "customer@dev.local", TranslatorEmail: "translator@dev.local", Language: "Swedish", Status: model.JobStatusCompleted, JobType: model.JobTypePaid, Immediate: model.No, DueIn: -72 * time.Hour, FeedbackRating: 2},
		{CustomerEmail: "customer@dev.local", Language: "Persian", Status: model.JobStatusTimedOut, JobType: model.JobTypeUnpaid, Immediate: model.No, DueIn: -24 * time.Hour, Flagged: true},
		{CustomerEmail: "rws@dev.local", Language: "English", Status: model.JobStatusPending, JobType: model.JobTypeRWS, Immediate: model.No, DueIn: 24 * time.Hour},
	}
}

func seedLanguages(ctx context.Context, tx *sql.Tx, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO languages (language) VALUES ($1)
			ON CONFLICT (language) DO UPDATE SET language = EXCLUDED.language
			RETURNING id`, name).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsert language %s: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

func seedUsers(ctx context.Context, tx *sql.Tx, users []userSeed) (map[string]int64, error) {
	ids := make(map[string]int64, len(users))
	for _, u := range users {
		var id int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO users (name, email, user_type) VALUES ($1, $2, $3)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, user_type = EXCLUDED.user_type
			RETURNING id`, u.Name, u.Email, string(u.UserType)).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
		ids[u.Email] = id

		if u.ConsumerType != "" || u.CustomerType != "" {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO user_meta (user_id, consumer_type, customer_type) VALUES ($1, $2, $3)
				ON CONFLICT (user_id) DO UPDATE
				SET consumer_type = EXCLUDED.consumer_type, customer_type = EXCLUDED.customer_type`,
				id, u.ConsumerType, u.CustomerType); err != nil {
				return nil, fmt.Errorf("upsert user meta %s: %w", u.Email, err)
			}
		}
		if u.Average != nil {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO user_averages (user_id, average) VALUES ($1, $2)
				ON CONFLICT (user_id) DO UPDATE SET average = EXCLUDED.average`,
				id, *u.Average); err != nil {
				return nil, fmt.Errorf("upsert user average %s: %w", u.Email, err)
			}
		}
	}
	return ids, nil
}

type jobSeedParams struct {
	jobs   []jobSeed
	users  map[string]int64
	langs  map[string]int64
	now    time.Time
	logger *slog.Logger
}

func seedJobs(ctx context.Context, tx *sql.Tx, p jobSeedParams) (int, error) {
	seeded := map[int64]bool{}
	created := 0
	for _, js := range p.jobs {
		customerID, ok := p.users[js.CustomerEmail]
		if !ok {
			return created, fmt.Errorf("job seed references unknown customer %s", js.CustomerEmail)
		}
		langID, ok := p.langs[js.Language]
		if !ok {
			return created, fmt.Errorf("job seed references unknown language %s", js.Language)
		}

		has, known := seeded[customerID]
		if !known {
			var count int
			if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM jobs WHERE user_id = $1`, customerID).Scan(&count); err != nil {
				return created, fmt.Errorf("count jobs for %s: %w", js.CustomerEmail, err)
			}
			has = count > 0
			seeded[customerID] = has
			if has {
				p.logger.InfoContext(ctx, "customer already has jobs; skipping", "email", js.CustomerEmail)
			}
		}
		if has {
			continue
		}

		if err := insertJob(ctx, tx, p, js, customerID, langID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func insertJob(ctx context.Context, tx *sql.Tx, p jobSeedParams, js jobSeed, customerID, langID int64) error {
	due := p.now.Add(js.DueIn)
	var jobID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO jobs (user_id, from_language_id, status, job_type, immediate, due,
			customer_physical_type, flagged)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		customerID, langID, string(js.Status), js.JobType, js.Immediate, due,
		yesNo(js.Physical), yesNo(js.Flagged),
	).Scan(&jobID)
	if err != nil {
		return fmt.Errorf("insert job for %s: %w", js.CustomerEmail, err)
	}

	if js.TranslatorEmail != "" {
		translatorID, ok := p.users[js.TranslatorEmail]
		if !ok {
			return fmt.Errorf("job seed references unknown translator %s", js.TranslatorEmail)
		}
		var completedAt *time.Time
		if js.Status == model.JobStatusCompleted {
			completedAt = &due
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO translator_job_rel (job_id, user_id, completed_at) VALUES ($1, $2, $3)`,
			jobID, translatorID, completedAt); err != nil {
			return fmt.Errorf("link translator to job %d: %w", jobID, err)
		}
	}

	if js.FeedbackRating > 0 {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO feedback (job_id, user_id, rating) VALUES ($1, $2, $3)`,
			jobID, customerID, js.FeedbackRating); err != nil {
			return fmt.Errorf("insert feedback for job %d: %w", jobID, err)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return model.Yes
	}
	return model.No
}
