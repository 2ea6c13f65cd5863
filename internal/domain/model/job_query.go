package model

// Job columns that listing predicates may reference.
const (
	JobFieldID                   = "id"
	JobFieldUserID               = "user_id"
	JobFieldFromLanguageID       = "from_language_id"
	JobFieldStatus               = "status"
	JobFieldJobType              = "job_type"
	JobFieldDue                  = "due"
	JobFieldExpiredAt            = "expired_at"
	JobFieldWillExpireAt         = "will_expire_at"
	JobFieldCreatedAt            = "created_at"
	JobFieldCustomerPhysicalType = "customer_physical_type"
	JobFieldCustomerPhoneType    = "customer_phone_type"
	JobFieldFlagged              = "flagged"
	JobFieldIgnoreFeedback       = "ignore_feedback"
	JobFieldIgnorePhysical       = "ignore_physical"
	JobFieldIgnorePhysicalPhone  = "ignore_physical_phone"
	JobFieldIgnoreFlagged        = "ignore_flagged"
)

// JobRelation names a relation of a job that can be eager loaded or used in
// an existence predicate. Dotted names are nested relations.
type JobRelation string

const (
	RelUser                  JobRelation = "user"
	RelUserMeta              JobRelation = "user.meta"
	RelUserAverage           JobRelation = "user.average"
	RelUserSalaries          JobRelation = "user.salaries"
	RelLanguage              JobRelation = "language"
	RelFeedback              JobRelation = "feedback"
	RelFeedbackUser          JobRelation = "feedback.user"
	RelTranslatorJobRel      JobRelation = "translator_job_rel"
	RelTranslatorUser        JobRelation = "translator_job_rel.user"
	RelTranslatorUserAverage JobRelation = "translator_job_rel.user.average"
	RelDistance              JobRelation = "distance"
)

// PredicateOp is the comparison a Predicate applies.
type PredicateOp string

const (
	OpEq         PredicateOp = "="
	OpGte        PredicateOp = ">="
	OpLte        PredicateOp = "<="
	OpIn         PredicateOp = "IN"
	OpHas        PredicateOp = "HAS"
	OpDoesntHave PredicateOp = "DOESNT_HAVE"
	// OpNone matches no rows. Used when a lookup filter resolves to nothing.
	OpNone PredicateOp = "NONE"
)

// Predicate is one condition attached to a job query. Relation and Nested are
// only meaningful for OpHas and OpDoesntHave, where Nested constrains the
// related rows.
type Predicate struct {
	Field    string
	Op       PredicateOp
	Value    any
	Relation JobRelation
	Nested   []Predicate
}

// Cond builds a column predicate, typically for use as a nested constraint.
func Cond(field string, op PredicateOp, value any) Predicate {
	return Predicate{Field: field, Op: op, Value: value}
}

// Ordering is one ORDER BY term.
type Ordering struct {
	Field string
	Desc  bool
}

// JobQuery accumulates the predicates, orderings and eager loads of a job
// listing. The zero value is an unfiltered query.
type JobQuery struct {
	Predicates []Predicate
	Orders     []Ordering
	Relations  []JobRelation
}

// NewJobQuery returns an empty job query.
func NewJobQuery() *JobQuery {
	return &JobQuery{}
}

// Where adds an equality predicate.
func (q *JobQuery) Where(field string, value any) *JobQuery {
	return q.WhereOp(field, OpEq, value)
}

// WhereOp adds a comparison predicate.
func (q *JobQuery) WhereOp(field string, op PredicateOp, value any) *JobQuery {
	q.Predicates = append(q.Predicates, Cond(field, op, value))
	return q
}

// WhereIn adds a set membership predicate. values must be a slice.
func (q *JobQuery) WhereIn(field string, values any) *JobQuery {
	return q.WhereOp(field, OpIn, values)
}

// WhereHas requires at least one related row matching every nested predicate.
func (q *JobQuery) WhereHas(rel JobRelation, nested ...Predicate) *JobQuery {
	q.Predicates = append(q.Predicates, Predicate{Op: OpHas, Relation: rel, Nested: nested})
	return q
}

// WhereDoesntHave requires that no related row exists.
func (q *JobQuery) WhereDoesntHave(rel JobRelation) *JobQuery {
	q.Predicates = append(q.Predicates, Predicate{Op: OpDoesntHave, Relation: rel})
	return q
}

// WhereNone makes the query match nothing.
func (q *JobQuery) WhereNone() *JobQuery {
	q.Predicates = append(q.Predicates, Predicate{Op: OpNone})
	return q
}

// OrderBy appends an ordering term.
func (q *JobQuery) OrderBy(field string, desc bool) *JobQuery {
	q.Orders = append(q.Orders, Ordering{Field: field, Desc: desc})
	return q
}

// With requests eager loading of relations.
func (q *JobQuery) With(rels ...JobRelation) *JobQuery {
	q.Relations = append(q.Relations, rels...)
	return q
}

// HasPredicate reports whether any top-level predicate targets field with op.
func (q *JobQuery) HasPredicate(field string, op PredicateOp) bool {
	for _, p := range q.Predicates {
		if p.Field == field && p.Op == op {
			return true
		}
	}
	return false
}

// TranslatorJobsKind selects which of a translator's bookings to list.
type TranslatorJobsKind string

const (
	TranslatorJobsNew      TranslatorJobsKind = "new"
	TranslatorJobsHistoric TranslatorJobsKind = "historic"
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// Offset returns the row offset of the page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}
