package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dtapi/booking-api/internal/bootstrap"
	"github.com/dtapi/booking-api/internal/data"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/migrate"
	"github.com/dtapi/booking-api/internal/service"
	"github.com/dtapi/booking-api/internal/util"
)

type jobsOptions struct {
	UserID  int64
	Timeout time.Duration
}

func parseJobsFlags(args []string) (jobsOptions, error) {
	fs := flag.NewFlagSet("jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := jobsOptions{Timeout: defaultCommandTimeout}
	fs.Int64Var(&opts.UserID, "user-id", 0, "Id of the customer or translator to list bookings for")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for the listing")

	if err := fs.Parse(args); err != nil {
		return jobsOptions{}, err
	}
	if opts.UserID <= 0 {
		return jobsOptions{}, errors.New("--user-id must be a positive integer")
	}
	if opts.Timeout <= 0 {
		return jobsOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runUserJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseJobsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		svc := service.NewJobListingService(service.JobListingServiceOptions{
			Repos: service.JobListingRepos{
				Jobs:           data.NewJobRepo(db, data.RepoConfig{Logger: cmdCtx.Logger}),
				Users:          data.NewUserRepo(db),
				TranslatorJobs: data.NewTranslatorJobRepo(db),
			},
			Config: service.JobListingConfig{
				Roles:    bootstrap.RolesFromConfig(cmdCtx.Config.Users),
				PageSize: cmdCtx.Config.Jobs.PageSize,
			},
			Logger: cmdCtx.Logger,
		})

		result, err := svc.GetJobsByUser(ctx, opts.UserID)
		if err != nil {
			return fmt.Errorf("list jobs for user %d: %w", opts.UserID, err)
		}
		return printUserJobs(cmdCtx.Out, result, time.Now())
	})
}

func printUserJobs(w io.Writer, result *model.UserJobs, now time.Time) error {
	if result == nil || result.User == nil {
		return writeln(w, "No user found.")
	}
	if err := writef(w, "User %d <%s> (%s)\n", result.User.ID, result.User.Email, result.UserType); err != nil {
		return err
	}
	if result.UserType == "" {
		return writeln(w, "User is neither a customer nor a translator; no bookings listed.")
	}

	sections := []struct {
		title string
		jobs  []*model.Job
	}{
		{title: "Emergency jobs", jobs: result.EmergencyJobs},
		{title: "Normal jobs", jobs: result.NormalJobs},
	}
	for _, sec := range sections {
		if err := writef(w, "\n%s (%d)\n", sec.title, len(sec.jobs)); err != nil {
			return err
		}
		if len(sec.jobs) == 0 {
			continue
		}
		if err := printJobTable(w, sec.jobs, now); err != nil {
			return err
		}
	}
	return nil
}

func printJobTable(w io.Writer, jobs []*model.Job, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := writeln(tw, "ID\tSTATUS\tTYPE\tLANGUAGE\tDUE\tCHECK"); err != nil {
		return err
	}
	for _, job := range jobs {
		lang := "-"
		if job.Language != nil {
			lang = job.Language.Language
		}
		check := "-"
		if job.UserCheck != nil {
			check = strconv.FormatBool(*job.UserCheck)
		}
		if err := writef(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			job.ID, job.Status, job.JobType, lang, util.FormatDueIn(job.Due, now), check); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func printPendingMigrations(ctx context.Context, w io.Writer, db *sql.DB) error {
	pending, err := migrate.Pending(ctx, db)
	if err != nil {
		return fmt.Errorf("list pending migrations: %w", err)
	}
	if len(pending) == 0 {
		return writeln(w, "Schema is up to date.")
	}
	if err := writef(w, "Pending migrations (%d):\n", len(pending)); err != nil {
		return err
	}
	for _, v := range pending {
		if err := writef(w, "  %s\n", v); err != nil {
			return err
		}
	}
	return nil
}
