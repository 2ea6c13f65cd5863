package core

import (
	"context"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// JobRepository defines the interface for booking reads.
type JobRepository interface {
	// List returns every job matching the query with its requested relations loaded.
	List(ctx context.Context, q *model.JobQuery) ([]*model.Job, error)
	// Count returns the number of jobs matching the query.
	Count(ctx context.Context, q *model.JobQuery) (int, error)
	// Paginate returns one page of the jobs matching the query.
	Paginate(ctx context.Context, q *model.JobQuery, page model.PageRequest) (*model.JobPage, error)
	// ListForTranslator returns the new or historic bookings of a translator.
	ListForTranslator(ctx context.Context, userID int64, kind model.TranslatorJobsKind) ([]*model.Job, error)
	// HasConflictingAssignment reports whether taking job would double-book the user.
	HasConflictingAssignment(ctx context.Context, userID int64, job *model.Job) (bool, error)
}

// UserRepository defines the interface for user lookups.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListIDsByEmails(ctx context.Context, emails []string) ([]int64, error)
}

// TranslatorJobRepository defines the interface for translator assignment lookups.
type TranslatorJobRepository interface {
	ActiveJobIDsByTranslators(ctx context.Context, userIDs []int64) ([]int64, error)
}
