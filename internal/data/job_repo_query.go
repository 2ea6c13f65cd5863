package data

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dtapi/booking-api/internal/data/database"
	"github.com/dtapi/booking-api/internal/domain/model"
)

const jobsTable = "jobs"

// jobFilterColumns whitelists the job columns predicates and orderings may reference.
var jobFilterColumns = map[string]struct{}{
	model.JobFieldID:                   {},
	model.JobFieldUserID:               {},
	model.JobFieldFromLanguageID:       {},
	model.JobFieldStatus:               {},
	model.JobFieldJobType:              {},
	model.JobFieldDue:                  {},
	model.JobFieldExpiredAt:            {},
	model.JobFieldWillExpireAt:         {},
	model.JobFieldCreatedAt:            {},
	model.JobFieldCustomerPhysicalType: {},
	model.JobFieldCustomerPhoneType:    {},
	model.JobFieldFlagged:              {},
	model.JobFieldIgnoreFeedback:       {},
	model.JobFieldIgnorePhysical:       {},
	model.JobFieldIgnorePhysicalPhone:  {},
	model.JobFieldIgnoreFlagged:        {},
}

// relationSubquery describes how an existence predicate on a relation is
// expressed as a correlated subquery against jobs.
type relationSubquery struct {
	table   string
	alias   string
	join    string
	columns map[string]struct{}
}

var relationSubqueries = map[model.JobRelation]relationSubquery{
	model.RelFeedback: {
		table:   "feedback",
		alias:   "f",
		join:    "f.job_id = jobs.id",
		columns: map[string]struct{}{"rating": {}, "user_id": {}},
	},
	model.RelDistance: {
		table:   "distances",
		alias:   "d",
		join:    "d.job_id = jobs.id",
		columns: map[string]struct{}{"distance": {}},
	},
	model.RelUserSalaries: {
		table:   "user_salaries",
		alias:   "us",
		join:    "us.user_id = jobs.user_id",
		columns: map[string]struct{}{"salary": {}},
	},
	model.RelUserMeta: {
		table:   "user_meta",
		alias:   "um",
		join:    "um.user_id = jobs.user_id",
		columns: map[string]struct{}{"consumer_type": {}, "customer_type": {}},
	},
	model.RelTranslatorJobRel: {
		table:   "translator_job_rel",
		alias:   "tj",
		join:    "tj.job_id = jobs.id",
		columns: map[string]struct{}{"user_id": {}},
	},
}

// jobQueryOptions translates a domain job query into query builder options.
func jobQueryOptions(q *model.JobQuery, extra ...database.ListQueryOption) (*database.ListQueryOptions, error) {
	if q == nil {
		return nil, ErrQueryRequired
	}

	opts := []database.ListQueryOption{database.WithColumns(jobSelectColumns...)}
	for _, p := range q.Predicates {
		cond, err := predicateCondition(p)
		if err != nil {
			return nil, err
		}
		opts = append(opts, database.WithCondition(cond))
	}
	for _, o := range q.Orders {
		if _, ok := jobFilterColumns[o.Field]; !ok {
			return nil, fmt.Errorf("%w: order by %q", ErrUnknownJobField, o.Field)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		opts = append(opts, database.WithOrderBy(o.Field, dir))
	}
	opts = append(opts, extra...)

	return database.NewListQueryOptions(jobsTable, opts...), nil
}

func predicateCondition(p model.Predicate) (database.Condition, error) {
	switch p.Op {
	case model.OpNone:
		return database.WhereRawCond("FALSE"), nil
	case model.OpHas, model.OpDoesntHave:
		return relationCondition(p)
	case model.OpEq, model.OpGte, model.OpLte, model.OpIn:
	default:
		return database.Condition{}, fmt.Errorf("%w: %q", ErrUnsupportedOp, p.Op)
	}

	if _, ok := jobFilterColumns[p.Field]; !ok {
		return database.Condition{}, fmt.Errorf("%w: %q", ErrUnknownJobField, p.Field)
	}

	if p.Op == model.OpIn {
		// An empty set matches nothing rather than being dropped.
		if sliceLen(p.Value) == 0 {
			return database.WhereRawCond("FALSE"), nil
		}
		return database.WhereCond(p.Field, database.In, p.Value), nil
	}
	return database.WhereCond(p.Field, comparison(p.Op), p.Value), nil
}

func relationCondition(p model.Predicate) (database.Condition, error) {
	sub, ok := relationSubqueries[p.Relation]
	if !ok {
		return database.Condition{}, fmt.Errorf("%w: %q", ErrUnknownRelation, p.Relation)
	}

	var (
		sb     strings.Builder
		params []any
	)
	sb.WriteString("SELECT 1 FROM ")
	sb.WriteString(sub.table)
	sb.WriteString(" ")
	sb.WriteString(sub.alias)
	sb.WriteString(" WHERE ")
	sb.WriteString(sub.join)

	for _, n := range p.Nested {
		if _, ok := sub.columns[n.Field]; !ok {
			return database.Condition{}, fmt.Errorf("%w: %s.%s", ErrUnknownJobField, sub.table, n.Field)
		}
		col := sub.alias + "." + n.Field
		switch n.Op {
		case model.OpEq, model.OpGte, model.OpLte:
			params = append(params, n.Value)
			fmt.Fprintf(&sb, " AND %s %s $%d", col, comparison(n.Op), len(params))
		case model.OpIn:
			rv := reflect.ValueOf(n.Value)
			if rv.Kind() != reflect.Slice || rv.Len() == 0 {
				sb.WriteString(" AND FALSE")
				continue
			}
			placeholders := make([]string, rv.Len())
			for i := range rv.Len() {
				params = append(params, rv.Index(i).Interface())
				placeholders[i] = "$" + strconv.Itoa(len(params))
			}
			fmt.Fprintf(&sb, " AND %s IN (%s)", col, strings.Join(placeholders, ", "))
		default:
			return database.Condition{}, fmt.Errorf("%w: nested %q", ErrUnsupportedOp, n.Op)
		}
	}

	keyword := "EXISTS"
	if p.Op == model.OpDoesntHave {
		keyword = "NOT EXISTS"
	}
	return database.WhereRawCond(keyword+" ("+sb.String()+")", params...), nil
}

func comparison(op model.PredicateOp) database.ConditionType {
	switch op {
	case model.OpGte:
		return database.GreaterThanOrEqual
	case model.OpLte:
		return database.LessThanOrEqual
	default:
		return database.Equal
	}
}

func sliceLen(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return 0
	}
	return rv.Len()
}
