package postgrest

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryString(t *testing.T) {
	tests := []struct {
		name  string
		query *Query
		want  string
	}{
		{
			name:  "no parameters",
			query: NewQuery("job_board_main"),
			want:  "",
		},
		{
			name:  "order descending with limit",
			query: NewQuery("job_board_main").Order("date_scraped", false).Limit(500),
			want:  "?order=date_scraped.desc&limit=500",
		},
		{
			name:  "order ascending",
			query: NewQuery("job_board_main").Order("title", true),
			want:  "?order=title.asc",
		},
		{
			name:  "equality and null predicates",
			query: NewQuery("job_user_metadata").Eq("job_id", "abc-123").IsNull("exclusion_reason"),
			want:  "?job_id=eq.abc-123&exclusion_reason=is.null",
		},
		{
			name:  "negated equality",
			query: NewQuery("job_board_main").NotEq("reviewed", "true"),
			want:  "?reviewed=not.eq.true",
		},
		{
			name:  "membership",
			query: NewQuery("job_board_export").In("id", []string{"a", "b", "c"}),
			want:  "?id=in.%28a%2Cb%2Cc%29",
		},
		{
			name:  "disjunction",
			query: NewQuery("job_board_main").Or("excluded.is.null", "excluded.eq.false"),
			want:  "?or=%28excluded.is.null%2Cexcluded.eq.false%29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.QueryString())
		})
	}
}

func TestQueryString_ParameterOrderIsStable(t *testing.T) {
	build := func() string {
		return NewQuery("job_board_main").
			Order("date_scraped", false).
			Limit(500).
			Or("excluded.is.null", "excluded.eq.false").
			IsNull("exclusion_reason").
			QueryString()
	}

	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}

func TestIlikeContains(t *testing.T) {
	assert.Equal(t, "title.ilike.*engineer*", IlikeContains("title", "engineer"))
}

func TestQueryString_DecodesBackToPredicates(t *testing.T) {
	q := NewQuery("job_board_main").
		Or("status.is.null", "status.eq.").
		NotEq("reviewed", "true")

	values, err := url.ParseQuery(q.QueryString()[1:])
	require.NoError(t, err)

	assert.Equal(t, "(status.is.null,status.eq.)", values.Get("or"))
	assert.Equal(t, "not.eq.true", values.Get("reviewed"))
}
