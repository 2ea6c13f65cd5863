package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dtapi/booking-api/internal/data/database"
)

// TranslatorJobRepo provides access to translator assignments.
type TranslatorJobRepo struct {
	DB *sql.DB
}

// NewTranslatorJobRepo creates a new TranslatorJobRepo.
func NewTranslatorJobRepo(db *sql.DB) *TranslatorJobRepo {
	return &TranslatorJobRepo{DB: db}
}

// ActiveJobIDsByTranslators returns the distinct ids of bookings the given
// translators hold a non-cancelled assignment on.
func (r *TranslatorJobRepo) ActiveJobIDsByTranslators(ctx context.Context, userIDs []int64) ([]int64, error) {
	userIDs = uniqueIDs(userIDs)
	if len(userIDs) == 0 {
		return []int64{}, nil
	}

	query, args := database.BuildListQuery(database.NewListQueryOptions("translator_job_rel",
		database.WithColumns("job_id"),
		database.WithCondition(database.WhereCond("user_id", database.In, userIDs)),
		database.WithCondition(database.WhereRawCond("cancel_at IS NULL")),
		database.WithOrderBy("job_id", "ASC"),
	))
	ids, err := collectRows(ctx, r.DB, query, args, func(row rowScanner) (int64, error) {
		var id int64
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("list active translator jobs: %w", err)
	}
	return uniqueIDs(ids), nil
}
