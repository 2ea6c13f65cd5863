package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dtapi/booking-api/internal/data/database"
	"github.com/dtapi/booking-api/internal/domain/model"
)

var userSelectColumns = []string{"id", "name", "email", "user_type", "created_at"}

// UserRepo provides read access to platform users.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u    model.User
		name sql.NullString
	)
	if err := row.Scan(&u.ID, &name, &u.Email, &u.UserType, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Name = name.String
	return &u, nil
}

func listUsers(ctx context.Context, db dbtx, conds ...database.Condition) ([]*model.User, error) {
	query, args := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns(userSelectColumns...),
		database.WithConditions(conds...),
		database.WithOrderBy("id", "ASC"),
	))
	users, err := collectRows(ctx, db, query, args, scanUser)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func attachUserMeta(ctx context.Context, db dbtx, users map[int64]*model.User) error {
	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)
	query, args := database.BuildListQuery(database.NewListQueryOptions("user_meta",
		database.WithColumns("user_id", "consumer_type", "customer_type"),
		database.WithCondition(database.WhereCond("user_id", database.In, ids)),
	))
	metas, err := collectRows(ctx, db, query, args, func(row rowScanner) (*model.UserMeta, error) {
		var (
			m                          model.UserMeta
			consumerType, customerType sql.NullString
		)
		if err := row.Scan(&m.UserID, &consumerType, &customerType); err != nil {
			return nil, err
		}
		m.ConsumerType = consumerType.String
		m.CustomerType = customerType.String
		return &m, nil
	})
	if err != nil {
		return fmt.Errorf("user meta: %w", err)
	}
	for _, m := range metas {
		if u, ok := users[m.UserID]; ok {
			u.Meta = m
		}
	}
	return nil
}

func attachUserAverages(ctx context.Context, db dbtx, users map[int64]*model.User) error {
	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	slices.Sort(ids)
	query, args := database.BuildListQuery(database.NewListQueryOptions("user_averages",
		database.WithColumns("user_id", "average"),
		database.WithCondition(database.WhereCond("user_id", database.In, ids)),
	))
	type avgRow struct {
		userID  int64
		average sql.NullFloat64
	}
	rows, err := collectRows(ctx, db, query, args, func(row rowScanner) (avgRow, error) {
		var r avgRow
		err := row.Scan(&r.userID, &r.average)
		return r, err
	})
	if err != nil {
		return fmt.Errorf("user averages: %w", err)
	}
	for _, r := range rows {
		if u, ok := users[r.userID]; ok {
			u.Average = floatPtr(r.average)
		}
	}
	return nil
}

// GetByID retrieves a user with its meta row.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	users, err := listUsers(ctx, r.DB, database.WhereCond("id", database.Equal, id))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w (id=%d)", model.ErrUserNotFound, id)
	}
	u := users[0]
	if err := attachUserMeta(ctx, r.DB, map[int64]*model.User{u.ID: u}); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user by exact email address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, errors.New("email is required")
	}
	users, err := listUsers(ctx, r.DB, database.WhereCond("email", database.Equal, email))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w (email=%s)", model.ErrUserNotFound, email)
	}
	return users[0], nil
}

// ListIDsByEmails returns the ids of users whose email is in emails.
// Unknown emails are skipped.
func (r *UserRepo) ListIDsByEmails(ctx context.Context, emails []string) ([]int64, error) {
	if len(emails) == 0 {
		return []int64{}, nil
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns("id"),
		database.WithCondition(database.WhereCond("email", database.In, emails)),
		database.WithOrderBy("id", "ASC"),
	))
	ids, err := collectRows(ctx, r.DB, query, args, func(row rowScanner) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("list user ids by email: %w", err)
	}
	return nonNil(ids), nil
}
