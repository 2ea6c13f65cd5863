package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/data"
	"github.com/dtapi/booking-api/internal/devseed"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/service"
	"github.com/dtapi/booking-api/internal/testutil"
)

var integrationRoles = domainauth.Roles{Admin: "admin", SuperAdmin: "superadmin"}

func seededListing(t *testing.T) (*service.JobListingService, *data.UserRepo) {
	t.Helper()
	db := testutil.SetupAutoDB(t)

	_, err := devseed.Run(context.Background(), db, devseed.Options{Roles: integrationRoles}, nil)
	require.NoError(t, err)

	users := data.NewUserRepo(db)
	svc := service.NewJobListingService(service.JobListingServiceOptions{
		Repos: service.JobListingRepos{
			Jobs:           data.NewJobRepo(db, data.RepoConfig{}),
			Users:          users,
			TranslatorJobs: data.NewTranslatorJobRepo(db),
		},
		Config: service.JobListingConfig{Roles: integrationRoles},
	})
	return svc, users
}

func userID(t *testing.T, users *data.UserRepo, email string) int64 {
	t.Helper()
	u, err := users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	return u.ID
}

func TestIntegration_CustomerOverview(t *testing.T) {
	svc, users := seededListing(t)
	ctx := context.Background()

	res, err := svc.GetJobsByUser(ctx, userID(t, users, "customer@dev.local"))
	require.NoError(t, err)

	assert.Equal(t, domainauth.UserTypeCustomer, res.UserType)
	require.Len(t, res.EmergencyJobs, 1)
	assert.Equal(t, model.Yes, res.EmergencyJobs[0].Immediate)
	require.Len(t, res.NormalJobs, 2)
	assert.True(t, res.NormalJobs[0].Due.Before(res.NormalJobs[1].Due))
	for _, job := range res.NormalJobs {
		require.NotNil(t, job.UserCheck)
		assert.False(t, *job.UserCheck)
		require.NotNil(t, job.Language)
	}
}

func TestIntegration_TranslatorJobs(t *testing.T) {
	svc, users := seededListing(t)
	ctx := context.Background()
	translator := userID(t, users, "translator@dev.local")

	fresh, err := svc.GetTranslatorJobs(ctx, translator, model.TranslatorJobsNew)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, model.JobStatusAssigned, fresh[0].Status)

	historic, err := svc.GetTranslatorJobs(ctx, translator, model.TranslatorJobsHistoric)
	require.NoError(t, err)
	require.Len(t, historic, 1)
	assert.Equal(t, model.JobStatusCompleted, historic[0].Status)
	require.Len(t, historic[0].Feedback, 1)
	assert.Equal(t, 2, historic[0].Feedback[0].Rating)
}

func TestIntegration_AdminListingScopesByConsumerType(t *testing.T) {
	svc, _ := seededListing(t)
	ctx := context.Background()

	res, err := svc.GetAllJobs(ctx, domainauth.Session{UserType: "superadmin"}, &model.JobFilter{})
	require.NoError(t, err)
	require.NotNil(t, res.Listing)
	require.Len(t, res.Listing.Jobs, 1)
	assert.Equal(t, model.JobTypeUnpaid, res.Listing.Jobs[0].JobType)

	res, err = svc.GetAllJobs(ctx, domainauth.Session{UserType: "superadmin", ConsumerType: domainauth.ConsumerTypeRWS}, &model.JobFilter{})
	require.NoError(t, err)
	require.Len(t, res.Listing.Jobs, 1)
	assert.Equal(t, model.JobTypeRWS, res.Listing.Jobs[0].JobType)
	require.NotNil(t, res.Listing.Jobs[0].User)
	assert.Equal(t, "rws@dev.local", res.Listing.Jobs[0].User.Email)
}
