package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// JobListingService is the subset of service.JobListingService the job
// handlers use.
type JobListingService interface {
	GetAllJobs(ctx context.Context, sess domainauth.Session, filter *model.JobFilter) (*model.AllJobsResult, error)
	GetJobByUserID(ctx context.Context, userID int64) ([]*model.Job, error)
	GetTranslatorJobs(ctx context.Context, userID int64, kind model.TranslatorJobsKind) ([]*model.Job, error)
}

// JobHandlers serves the booking listing endpoints.
type JobHandlers struct {
	Svc JobListingService
}

type countResponse struct {
	Count int `json:"count"`
}

// List handles GET /api/jobs.
func (h *JobHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	filter, err := ParseJobFilter(r.URL.Query())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	res, err := h.Svc.GetAllJobs(r.Context(), *sess, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch {
	case res.UserJobs != nil:
		WriteJSON(w, http.StatusOK, res.UserJobs)
	case res.Listing == nil:
		WriteJSON(w, http.StatusOK, []*model.Job{})
	case res.Listing.Count != nil:
		WriteJSON(w, http.StatusOK, countResponse{Count: *res.Listing.Count})
	case res.Listing.Page != nil:
		page := *res.Listing.Page
		page.Jobs = nonNilJobs(page.Jobs)
		WriteJSON(w, http.StatusOK, page)
	default:
		WriteJSON(w, http.StatusOK, nonNilJobs(res.Listing.Jobs))
	}
}

// UserJobs handles GET /api/users/{id}/jobs.
func (h *JobHandlers) UserJobs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_id", Err: err})
		return
	}

	jobs, err := h.Svc.GetJobByUserID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNilJobs(jobs))
}

// TranslatorJobs handles GET /api/translators/{id}/jobs?kind=new|historic.
func (h *JobHandlers) TranslatorJobs(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_id", Err: err})
		return
	}

	kind := model.TranslatorJobsKind(r.URL.Query().Get("kind"))
	switch kind {
	case "":
		kind = model.TranslatorJobsNew
	case model.TranslatorJobsNew, model.TranslatorJobsHistoric:
	default:
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_kind",
			Err:     fmt.Errorf("kind must be one of: %s, %s", model.TranslatorJobsNew, model.TranslatorJobsHistoric),
		})
		return
	}

	jobs, err := h.Svc.GetTranslatorJobs(r.Context(), id, kind)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, nonNilJobs(jobs))
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id must be a positive integer, got %q", raw)
	}
	return id, nil
}

func nonNilJobs(jobs []*model.Job) []*model.Job {
	if jobs == nil {
		return []*model.Job{}
	}
	return jobs
}
