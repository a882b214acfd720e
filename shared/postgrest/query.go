package postgrest

import (
	"fmt"
	"net/url"
	"strings"
)

// Query builds a PostgREST request URL. Parameters keep insertion order so
// generated URLs are deterministic and testable.
type Query struct {
	resource string
	params   []param
}

type param struct {
	key   string
	value string
}

// NewQuery starts a query against a named resource (table or view).
func NewQuery(resource string) *Query {
	return &Query{resource: resource}
}

func (q *Query) Resource() string { return q.resource }

// Order adds an order parameter, e.g. Order("date_scraped", false) for
// descending scrape date.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	return q.add("order", column+"."+dir)
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	return q.add("limit", fmt.Sprintf("%d", n))
}

// Eq adds an exact-equality predicate on a column.
func (q *Query) Eq(column, value string) *Query {
	return q.add(column, "eq."+value)
}

// IsNull adds a null predicate on a column.
func (q *Query) IsNull(column string) *Query {
	return q.add(column, "is.null")
}

// NotEq adds a negated equality predicate on a column.
func (q *Query) NotEq(column, value string) *Query {
	return q.add(column, "not.eq."+value)
}

// In adds a membership predicate over a list of values.
func (q *Query) In(column string, values []string) *Query {
	return q.add(column, "in.("+strings.Join(values, ",")+")")
}

// Or adds a disjunction of raw predicates, e.g.
// Or("excluded.is.null", "excluded.eq.false").
func (q *Query) Or(predicates ...string) *Query {
	return q.add("or", "("+strings.Join(predicates, ",")+")")
}

// IlikeContains formats a case-insensitive substring predicate for use
// inside Or.
func IlikeContains(column, term string) string {
	return column + ".ilike.*" + term + "*"
}

// QueryString renders the encoded query string including the leading "?",
// or an empty string when no parameters were added.
func (q *Query) QueryString() string {
	if len(q.params) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.params))
	for _, p := range q.params {
		parts = append(parts, url.QueryEscape(p.key)+"="+url.QueryEscape(p.value))
	}
	return "?" + strings.Join(parts, "&")
}

func (q *Query) add(key, value string) *Query {
	q.params = append(q.params, param{key: key, value: value})
	return q
}
