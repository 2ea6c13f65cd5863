package httpx

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/http/validation"
)

// ParseJobFilter builds a JobFilter from the query string of GET /api/jobs.
// List parameters accept key[]=a&key[]=b, repeated keys and comma separated
// values. Empty values are treated as absent.
func ParseJobFilter(q url.Values) (*model.JobFilter, error) {
	p := filterParser{q: q}
	f := &model.JobFilter{
		UserID: p.int64Ptr("user_id"),

		Feedback: p.scalar("feedback"),
		Count:    p.scalar("count"),

		Status:   p.list("status"),
		JobTypes: p.list("job_type"),

		ExpiredAt:    p.timePtr("expired_at", false),
		WillExpireAt: p.timePtr("will_expire_at", false),

		CustomerEmails:   p.list("customer_email"),
		TranslatorEmails: p.list("translator_email"),

		FilterTimeType: p.scalar("filter_timetype"),
		From:           p.timePtr("from", false),
		To:             p.timePtr("to", true),

		Physical: p.strPtr("physical"),
		Phone:    p.strPtr("phone"),
		Flagged:  p.strPtr("flagged"),

		Distance:     p.scalar("distance"),
		Salary:       p.scalar("salary"),
		ConsumerType: p.scalar("consumer_type"),
		BookingType:  p.scalar("booking_type"),

		Page: p.intPtr("page"),
	}
	f.IDs, f.IDList = p.int64List("id")
	f.Lang, _ = p.int64List("lang")

	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidFilter, err)
	}
	if err := validation.Struct(f); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrInvalidFilter, err)
	}
	return f, nil
}

type filterParser struct {
	q    url.Values
	errs []error
}

func (p *filterParser) fail(key string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
}

func (p *filterParser) scalar(key string) string {
	if v := strings.TrimSpace(p.q.Get(key)); v != "" {
		return v
	}
	return strings.TrimSpace(p.q.Get(key + "[]"))
}

func (p *filterParser) strPtr(key string) *string {
	v := p.scalar(key)
	if v == "" {
		return nil
	}
	return &v
}

// listWithShape collects all values of key and key[], splitting comma lists. asList
// reports whether the client sent more than a single scalar.
func (p *filterParser) listWithShape(key string) (vals []string, asList bool) {
	bracketed := p.q[key+"[]"]
	raw := append(append([]string(nil), p.q[key]...), bracketed...)
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				vals = append(vals, s)
			}
		}
	}
	return vals, len(bracketed) > 0 || len(vals) > 1
}

func (p *filterParser) list(key string) []string {
	vals, _ := p.listWithShape(key)
	return vals
}

func (p *filterParser) int64List(key string) ([]int64, bool) {
	vals, asList := p.listWithShape(key)
	if len(vals) == 0 {
		return nil, false
	}
	out := make([]int64, 0, len(vals))
	for _, v := range vals {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, fmt.Errorf("%q is not an integer", v))
			continue
		}
		out = append(out, n)
	}
	return out, asList
}

func (p *filterParser) int64Ptr(key string) *int64 {
	v := p.scalar(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		p.fail(key, fmt.Errorf("%q is not an integer", v))
		return nil
	}
	return &n
}

func (p *filterParser) intPtr(key string) *int {
	v := p.int64Ptr(key)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func (p *filterParser) timePtr(key string, endOfDay bool) *time.Time {
	v := p.scalar(key)
	if v == "" {
		return nil
	}
	t, err := model.ParseFilterTime(v, endOfDay)
	if err != nil {
		p.fail(key, err)
		return nil
	}
	return &t
}
