package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/mocks"
)

var testRoles = domainauth.Roles{Admin: "admin", SuperAdmin: "superadmin"}

type listingFixture struct {
	jobs  *mocks.MockJobRepository
	users *mocks.MockUserRepository
	tj    *mocks.MockTranslatorJobRepository
	svc   *JobListingService
}

func newListingFixture(t *testing.T) *listingFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &listingFixture{
		jobs:  mocks.NewMockJobRepository(ctrl),
		users: mocks.NewMockUserRepository(ctrl),
		tj:    mocks.NewMockTranslatorJobRepository(ctrl),
	}
	f.svc = NewJobListingService(JobListingServiceOptions{
		Repos: JobListingRepos{
			Jobs:           f.jobs,
			Users:          f.users,
			TranslatorJobs: f.tj,
		},
		Config: JobListingConfig{Roles: testRoles},
	})
	return f
}

// captureList records the query passed to List and returns jobs.
func (f *listingFixture) captureList(into **model.JobQuery, jobs ...*model.Job) {
	f.jobs.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *model.JobQuery) ([]*model.Job, error) {
			*into = q
			return jobs, nil
		})
}

func ptr[T any](v T) *T { return &v }

func superAdminSession(consumerType string) domainauth.Session {
	return domainauth.Session{ID: "s-1", UserID: 1, UserType: "superadmin", ConsumerType: consumerType}
}

func adminSession() domainauth.Session {
	return domainauth.Session{ID: "s-2", UserID: 2, UserType: "admin", ConsumerType: "paid"}
}

func TestNewJobListingService_RequiresRepos(t *testing.T) {
	ctrl := gomock.NewController(t)
	assert.Panics(t, func() { NewJobListingService(JobListingServiceOptions{}) })
	assert.Panics(t, func() {
		NewJobListingService(JobListingServiceOptions{Repos: JobListingRepos{Jobs: mocks.NewMockJobRepository(ctrl)}})
	})

	svc := NewJobListingService(JobListingServiceOptions{Repos: JobListingRepos{
		Jobs:           mocks.NewMockJobRepository(ctrl),
		Users:          mocks.NewMockUserRepository(ctrl),
		TranslatorJobs: mocks.NewMockTranslatorJobRepository(ctrl),
	}})
	assert.Equal(t, DefaultJobPageSize, svc.pageSize)
}

func TestGetAllJobs_ForbiddenForNonAdmin(t *testing.T) {
	f := newListingFixture(t)

	for _, userType := range []domainauth.UserType{domainauth.UserTypeCustomer, domainauth.UserTypeTranslator, ""} {
		_, err := f.svc.GetAllJobs(context.Background(), domainauth.Session{UserType: userType}, &model.JobFilter{})
		require.ErrorIs(t, err, model.ErrForbidden, "user type %q", userType)
	}
}

func TestGetAllJobs_UserIDReturnsOverview(t *testing.T) {
	f := newListingFixture(t)
	customer := &model.User{ID: 5, UserType: domainauth.UserTypeCustomer}
	f.users.EXPECT().GetByID(gomock.Any(), int64(5)).Return(customer, nil)

	var q *model.JobQuery
	f.captureList(&q)

	// Non-admins may look up a user overview.
	res, err := f.svc.GetAllJobs(context.Background(), domainauth.Session{UserType: "customer"}, &model.JobFilter{UserID: ptr(int64(5))})
	require.NoError(t, err)
	require.NotNil(t, res.UserJobs)
	assert.Nil(t, res.Listing)
	assert.Equal(t, domainauth.UserTypeCustomer, res.UserJobs.UserType)
	assert.Same(t, customer, res.UserJobs.User)
	assert.Empty(t, res.UserJobs.EmergencyJobs)
	assert.Empty(t, res.UserJobs.NormalJobs)
}

func TestGetJobsByUser_Customer(t *testing.T) {
	f := newListingFixture(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	jobs := []*model.Job{
		{ID: 1, Immediate: model.Yes, Due: base},
		{ID: 2, Immediate: model.No, Due: base.Add(2 * time.Hour)},
		{ID: 3, Immediate: model.No, Due: base.Add(time.Hour)},
		{ID: 4, Immediate: model.No, Due: base.Add(time.Hour)},
	}
	f.users.EXPECT().GetByID(gomock.Any(), int64(5)).
		Return(&model.User{ID: 5, UserType: domainauth.UserTypeCustomer}, nil)

	var q *model.JobQuery
	f.captureList(&q, jobs...)

	res, err := f.svc.GetJobsByUser(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, []model.Predicate{
		model.Cond(model.JobFieldUserID, model.OpEq, int64(5)),
		model.Cond(model.JobFieldStatus, model.OpIn, model.ActiveJobStatuses()),
	}, q.Predicates)
	assert.Equal(t, []model.Ordering{{Field: model.JobFieldDue}}, q.Orders)
	assert.Equal(t, []model.JobRelation{
		model.RelUserMeta, model.RelUserAverage, model.RelTranslatorUserAverage, model.RelLanguage, model.RelFeedback,
	}, q.Relations)

	require.Len(t, res.EmergencyJobs, 1)
	assert.Equal(t, int64(1), res.EmergencyJobs[0].ID)
	assert.Nil(t, res.EmergencyJobs[0].UserCheck)

	var ids []int64
	for _, j := range res.NormalJobs {
		ids = append(ids, j.ID)
		require.NotNil(t, j.UserCheck)
		assert.False(t, *j.UserCheck)
	}
	// Equal due times keep their original order.
	assert.Equal(t, []int64{3, 4, 2}, ids)
}

func TestGetJobsByUser_TranslatorChecksConflicts(t *testing.T) {
	f := newListingFixture(t)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	jobs := []*model.Job{
		{ID: 10, Immediate: model.No, Due: base.Add(time.Hour)},
		{ID: 11, Immediate: model.No, Due: base},
		{ID: 12, Immediate: model.Yes, Due: base},
	}
	f.users.EXPECT().GetByID(gomock.Any(), int64(9)).
		Return(&model.User{ID: 9, UserType: domainauth.UserTypeTranslator}, nil)
	f.jobs.EXPECT().ListForTranslator(gomock.Any(), int64(9), model.TranslatorJobsNew).Return(jobs, nil)
	f.jobs.EXPECT().HasConflictingAssignment(gomock.Any(), int64(9), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, job *model.Job) (bool, error) {
			return job.ID == 10, nil
		}).Times(2)

	res, err := f.svc.GetJobsByUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, domainauth.UserTypeTranslator, res.UserType)
	require.Len(t, res.EmergencyJobs, 1)
	require.Len(t, res.NormalJobs, 2)
	assert.Equal(t, int64(11), res.NormalJobs[0].ID)
	assert.False(t, *res.NormalJobs[0].UserCheck)
	assert.Equal(t, int64(10), res.NormalJobs[1].ID)
	assert.True(t, *res.NormalJobs[1].UserCheck)
}

func TestGetJobsByUser_ConflictCheckError(t *testing.T) {
	f := newListingFixture(t)
	f.users.EXPECT().GetByID(gomock.Any(), int64(9)).
		Return(&model.User{ID: 9, UserType: domainauth.UserTypeTranslator}, nil)
	f.jobs.EXPECT().ListForTranslator(gomock.Any(), int64(9), model.TranslatorJobsNew).
		Return([]*model.Job{{ID: 1, Immediate: model.No}}, nil)
	f.jobs.EXPECT().HasConflictingAssignment(gomock.Any(), int64(9), gomock.Any()).Return(false, assert.AnError)

	_, err := f.svc.GetJobsByUser(context.Background(), 9)
	require.ErrorIs(t, err, assert.AnError)
}

func TestGetJobsByUser_OtherTypeAndMissingUser(t *testing.T) {
	f := newListingFixture(t)

	admin := &model.User{ID: 3, UserType: "admin"}
	f.users.EXPECT().GetByID(gomock.Any(), int64(3)).Return(admin, nil)
	res, err := f.svc.GetJobsByUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, domainauth.UserType(""), res.UserType)
	assert.Empty(t, res.NormalJobs)
	assert.Empty(t, res.EmergencyJobs)

	f.users.EXPECT().GetByID(gomock.Any(), int64(404)).Return(nil, model.ErrUserNotFound)
	_, err = f.svc.GetJobsByUser(context.Background(), 404)
	require.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestGetJobByUserID(t *testing.T) {
	t.Run("customer", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByID(gomock.Any(), int64(5)).
			Return(&model.User{ID: 5, UserType: domainauth.UserTypeCustomer}, nil)
		var q *model.JobQuery
		f.captureList(&q, &model.Job{ID: 1})

		jobs, err := f.svc.GetJobByUserID(context.Background(), 5)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
		assert.True(t, q.HasPredicate(model.JobFieldUserID, model.OpEq))
	})

	t.Run("translator", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByID(gomock.Any(), int64(9)).
			Return(&model.User{ID: 9, UserType: domainauth.UserTypeTranslator}, nil)
		f.jobs.EXPECT().ListForTranslator(gomock.Any(), int64(9), model.TranslatorJobsNew).
			Return([]*model.Job{{ID: 2}}, nil)

		jobs, err := f.svc.GetJobByUserID(context.Background(), 9)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("type mismatch", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&model.User{ID: 3, UserType: "admin"}, nil)

		_, err := f.svc.GetJobByUserID(context.Background(), 3)
		require.ErrorIs(t, err, model.ErrUserTypeMismatch)
		assert.Contains(t, err.Error(), "user type didn't match with the system")
	})
}

func TestGetTranslatorJobs_Historic(t *testing.T) {
	f := newListingFixture(t)
	f.jobs.EXPECT().ListForTranslator(gomock.Any(), int64(9), model.TranslatorJobsHistoric).Return(nil, errors.New("db down"))

	_, err := f.svc.GetTranslatorJobs(context.Background(), 9, model.TranslatorJobsHistoric)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list translator jobs")
}

func TestGetFilteredJobs_SuperAdminAllFilters(t *testing.T) {
	f := newListingFixture(t)
	expired := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC)

	filter := &model.JobFilter{
		Lang:             []int64{1, 2},
		Status:           []string{"pending"},
		ExpiredAt:        &expired,
		CustomerEmails:   []string{"c@example.com"},
		TranslatorEmails: []string{"t@example.com"},
		FilterTimeType:   model.FilterTimeTypeDue,
		From:             &from,
		To:               &to,
		JobTypes:         []string{"rws"},
		Physical:         ptr("yes"),
		Phone:            ptr("no"),
		Flagged:          ptr("yes"),
		Distance:         model.DistanceEmpty,
		Salary:           model.Yes,
		ConsumerType:     "ngo",
		BookingType:      model.BookingTypePhone,
	}

	f.users.EXPECT().ListIDsByEmails(gomock.Any(), []string{"c@example.com"}).Return([]int64{11}, nil)
	f.users.EXPECT().ListIDsByEmails(gomock.Any(), []string{"t@example.com"}).Return([]int64{21}, nil)
	f.tj.EXPECT().ActiveJobIDsByTranslators(gomock.Any(), []int64{21}).Return([]int64{100, 101}, nil)

	var q *model.JobQuery
	f.captureList(&q, &model.Job{ID: 100})

	listing, err := f.svc.GetFilteredJobs(context.Background(), superAdminSession(domainauth.ConsumerTypeRWS), filter)
	require.NoError(t, err)
	require.Len(t, listing.Jobs, 1)
	assert.Nil(t, listing.Count)
	assert.Nil(t, listing.Page)

	assert.Equal(t, []model.Predicate{
		model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeRWS),
		model.Cond(model.JobFieldFromLanguageID, model.OpIn, []int64{1, 2}),
		model.Cond(model.JobFieldStatus, model.OpIn, []string{"pending"}),
		model.Cond(model.JobFieldExpiredAt, model.OpGte, expired),
		model.Cond(model.JobFieldUserID, model.OpIn, []int64{11}),
		model.Cond(model.JobFieldID, model.OpIn, []int64{100, 101}),
		model.Cond(model.JobFieldDue, model.OpGte, from),
		model.Cond(model.JobFieldDue, model.OpLte, to),
		model.Cond(model.JobFieldJobType, model.OpIn, []string{"rws"}),
		model.Cond(model.JobFieldCustomerPhysicalType, model.OpEq, "yes"),
		model.Cond(model.JobFieldIgnorePhysical, model.OpEq, false),
		model.Cond(model.JobFieldCustomerPhoneType, model.OpEq, "no"),
		model.Cond(model.JobFieldIgnorePhysicalPhone, model.OpEq, false),
		model.Cond(model.JobFieldFlagged, model.OpEq, "yes"),
		model.Cond(model.JobFieldIgnoreFlagged, model.OpEq, false),
		{Op: model.OpDoesntHave, Relation: model.RelDistance},
		{Op: model.OpDoesntHave, Relation: model.RelUserSalaries},
		{Op: model.OpHas, Relation: model.RelUserMeta, Nested: []model.Predicate{
			model.Cond("consumer_type", model.OpEq, "ngo"),
		}},
		model.Cond(model.JobFieldCustomerPhoneType, model.OpEq, model.Yes),
	}, q.Predicates)
	assert.Equal(t, []model.Ordering{
		{Field: model.JobFieldDue, Desc: true},
		{Field: model.JobFieldCreatedAt, Desc: true},
	}, q.Orders)
	assert.Equal(t, filteredJobRelations, q.Relations)
}

func TestGetFilteredJobs_SuperAdminIDSupersedesFilters(t *testing.T) {
	f := newListingFixture(t)
	filter := &model.JobFilter{
		IDs:            []int64{7, 8},
		IDList:         true,
		Lang:           []int64{1},
		CustomerEmails: []string{"c@example.com"},
		Count:          "true",
	}

	var q *model.JobQuery
	f.captureList(&q)

	listing, err := f.svc.GetFilteredJobs(context.Background(), superAdminSession("paid"), filter)
	require.NoError(t, err)
	assert.Nil(t, listing.Count)
	assert.Equal(t, []model.Predicate{
		model.Cond(model.JobFieldID, model.OpIn, []int64{7, 8}),
		model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
	}, q.Predicates)
}

func TestGetFilteredJobs_FeedbackCount(t *testing.T) {
	for _, sess := range []domainauth.Session{superAdminSession("paid"), adminSession()} {
		t.Run(string(sess.UserType), func(t *testing.T) {
			f := newListingFixture(t)
			f.jobs.EXPECT().Count(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, q *model.JobQuery) (int, error) {
					assert.Equal(t, []model.Predicate{
						model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
						model.Cond(model.JobFieldIgnoreFeedback, model.OpEq, false),
						{Op: model.OpHas, Relation: model.RelFeedback, Nested: []model.Predicate{
							model.Cond("rating", model.OpLte, 3),
						}},
					}, q.Predicates)
					return 4, nil
				})

			listing, err := f.svc.GetFilteredJobs(context.Background(), sess,
				&model.JobFilter{Feedback: "1", Count: "1", Lang: []int64{3}})
			require.NoError(t, err)
			require.NotNil(t, listing.Count)
			assert.Equal(t, 4, *listing.Count)
			assert.Nil(t, listing.Jobs)
		})
	}
}

func TestGetFilteredJobs_SuperAdminCountIgnoresLaterFilters(t *testing.T) {
	f := newListingFixture(t)
	f.jobs.EXPECT().Count(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q *model.JobQuery) (int, error) {
			assert.Equal(t, []model.Predicate{
				model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
				model.Cond(model.JobFieldStatus, model.OpIn, []string{"completed"}),
			}, q.Predicates)
			return 12, nil
		})

	listing, err := f.svc.GetFilteredJobs(context.Background(), superAdminSession("ngo"), &model.JobFilter{
		Status:       []string{"completed"},
		Count:        "true",
		ConsumerType: "paid",
		BookingType:  model.BookingTypePhys,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, *listing.Count)
}

func TestGetFilteredJobs_EmailLookupsNeverWiden(t *testing.T) {
	f := newListingFixture(t)
	f.users.EXPECT().ListIDsByEmails(gomock.Any(), []string{"nobody@example.com"}).Return([]int64{}, nil).Times(2)

	var q *model.JobQuery
	f.captureList(&q)

	_, err := f.svc.GetFilteredJobs(context.Background(), superAdminSession("paid"), &model.JobFilter{
		CustomerEmails:   []string{"nobody@example.com"},
		TranslatorEmails: []string{"nobody@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, []model.Predicate{
		model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
		model.Cond(model.JobFieldUserID, model.OpIn, []int64{}),
		model.Cond(model.JobFieldID, model.OpIn, []int64{}),
	}, q.Predicates)
}

func TestGetFilteredJobs_AdminFilters(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("known customer email", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "c@example.com").Return(&model.User{ID: 31}, nil)
		var q *model.JobQuery
		f.captureList(&q)

		_, err := f.svc.GetFilteredJobs(context.Background(), adminSession(), &model.JobFilter{
			Lang:           []int64{4},
			Status:         []string{"assigned"},
			JobTypes:       []string{"unpaid"},
			CustomerEmails: []string{"c@example.com"},
			FilterTimeType: model.FilterTimeTypeCreated,
			From:           &from,
			// Super-admin only filters are ignored for admins.
			Flagged:  ptr("yes"),
			Distance: model.DistanceEmpty,
		})
		require.NoError(t, err)
		assert.Equal(t, []model.Predicate{
			model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
			model.Cond(model.JobFieldFromLanguageID, model.OpIn, []int64{4}),
			model.Cond(model.JobFieldStatus, model.OpIn, []string{"assigned"}),
			model.Cond(model.JobFieldJobType, model.OpIn, []string{"unpaid"}),
			model.Cond(model.JobFieldUserID, model.OpEq, int64(31)),
			model.Cond(model.JobFieldCreatedAt, model.OpGte, from),
		}, q.Predicates)
		assert.Equal(t, []model.Ordering{
			{Field: model.JobFieldCreatedAt, Desc: true},
			{Field: model.JobFieldCreatedAt, Desc: true},
		}, q.Orders)
	})

	t.Run("unknown customer email is ignored", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "x@example.com").Return(nil, model.ErrUserNotFound)
		f.jobs.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, nil)

		listing, err := f.svc.GetFilteredJobs(context.Background(), adminSession(), &model.JobFilter{
			CustomerEmails: []string{"x@example.com"},
			Count:          "true",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, *listing.Count)
	})

	t.Run("lookup failure", func(t *testing.T) {
		f := newListingFixture(t)
		f.users.EXPECT().GetByEmail(gomock.Any(), "x@example.com").Return(nil, assert.AnError)

		_, err := f.svc.GetFilteredJobs(context.Background(), adminSession(), &model.JobFilter{
			CustomerEmails: []string{"x@example.com"},
		})
		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestGetFilteredJobs_Paginates(t *testing.T) {
	f := newListingFixture(t)
	page := &model.JobPage{Jobs: []*model.Job{{ID: 1}}, Total: 16, PerPage: 15, CurrentPage: 2, LastPage: 2}
	f.jobs.EXPECT().Paginate(gomock.Any(), gomock.Any(), model.PageRequest{Page: 2, PerPage: 15}).Return(page, nil)

	res, err := f.svc.GetAllJobs(context.Background(), adminSession(), &model.JobFilter{Page: ptr(2)})
	require.NoError(t, err)
	require.NotNil(t, res.Listing)
	assert.Same(t, page, res.Listing.Page)
}

func TestGetFilteredJobs_SingleIDUsesEquality(t *testing.T) {
	f := newListingFixture(t)
	var q *model.JobQuery
	f.captureList(&q)

	_, err := f.svc.GetFilteredJobs(context.Background(), adminSession(), &model.JobFilter{IDs: []int64{42}, Lang: []int64{1}})
	require.NoError(t, err)
	assert.Equal(t, []model.Predicate{
		model.Cond(model.JobFieldID, model.OpEq, int64(42)),
		model.Cond(model.JobFieldJobType, model.OpEq, model.JobTypeUnpaid),
		model.Cond(model.JobFieldFromLanguageID, model.OpIn, []int64{1}),
	}, q.Predicates)
}
