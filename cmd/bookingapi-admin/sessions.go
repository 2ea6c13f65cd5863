package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/dtapi/booking-api/internal/bootstrap"
	"github.com/dtapi/booking-api/internal/data"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	httpx "github.com/dtapi/booking-api/internal/http"
)

const defaultSessionTTL = 8 * time.Hour

type issueSessionOptions struct {
	UserID  int64
	TTL     time.Duration
	Timeout time.Duration
}

func parseIssueSessionFlags(args []string) (issueSessionOptions, error) {
	fs := flag.NewFlagSet("issue-session", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := issueSessionOptions{TTL: defaultSessionTTL, Timeout: defaultCommandTimeout}
	fs.Int64Var(&opts.UserID, "user-id", 0, "Id of the user the session belongs to")
	fs.DurationVar(&opts.TTL, "ttl", defaultSessionTTL, "Lifetime of the issued session")
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for Postgres and Redis")

	if err := fs.Parse(args); err != nil {
		return issueSessionOptions{}, err
	}
	if opts.UserID <= 0 {
		return issueSessionOptions{}, errors.New("--user-id must be a positive integer")
	}
	if opts.TTL <= 0 {
		return issueSessionOptions{}, errors.New("--ttl must be greater than zero")
	}
	if opts.Timeout <= 0 {
		return issueSessionOptions{}, errors.New("--timeout must be greater than zero")
	}
	return opts, nil
}

func runIssueSession(cmdCtx *commandContext, args []string) error {
	opts, err := parseIssueSessionFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := commandScope(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	dbCfg := bootstrap.DatabaseConfig{
		DBConfig:    cmdCtx.Config.Postgres,
		RedisConfig: cmdCtx.Config.Redis,
		Logger:      cmdCtx.Logger,
	}
	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	client, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := client.Close(); cerr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", cerr)
		}
	}()

	user, err := data.NewUserRepo(db).GetByID(ctx, opts.UserID)
	if err != nil {
		return fmt.Errorf("load user %d: %w", opts.UserID, err)
	}

	sess := newSession(user, uuid.NewString(), time.Now().Add(opts.TTL))
	store := bootstrap.NewSessionStore(client, cmdCtx.Config.Auth)
	if err := store.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	cmdCtx.Logger.InfoContext(ctx, "session issued", "user_id", sess.UserID, "expires_at", sess.ExpiresAt)

	return printSession(cmdCtx, sess)
}

func newSession(user *model.User, id string, expiresAt time.Time) domainauth.Session {
	sess := domainauth.Session{
		ID:        id,
		UserID:    user.ID,
		Email:     user.Email,
		UserType:  user.UserType,
		ExpiresAt: expiresAt.UTC(),
	}
	if user.Meta != nil {
		sess.ConsumerType = user.Meta.ConsumerType
	}
	return sess
}

func printSession(cmdCtx *commandContext, sess domainauth.Session) error {
	if err := writef(cmdCtx.Out, "Session: %s\n", sess.ID); err != nil {
		return err
	}
	if err := writef(cmdCtx.Out, "Expires: %s\n", sess.ExpiresAt.Format(time.RFC3339)); err != nil {
		return err
	}
	return writef(cmdCtx.Out, "Cookie:  %s=%s\n", httpx.SessionCookieName, sess.ID)
}
