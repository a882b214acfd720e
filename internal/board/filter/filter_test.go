package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenseeker0/jobscraps-frontend/internal/board/model"
)

func job(id, title, company, location string) model.Job {
	return model.Job{ID: id, Title: title, Company: company, Location: location}
}

func TestApply_Search(t *testing.T) {
	full := []model.Job{
		job("j-1", "Senior Go Engineer", "Initech", "Denver, CO"),
		job("j-2", "Data Analyst", "Globex", "Remote"),
		job("j-3", "Engineering Manager", "Initech", "Boulder, CO"),
	}

	tests := []struct {
		name    string
		search  string
		wantIDs []string
	}{
		{
			name:    "empty search returns everything",
			search:  "",
			wantIDs: []string{"j-1", "j-2", "j-3"},
		},
		{
			name:    "matches title case-insensitively",
			search:  "ENGINEER",
			wantIDs: []string{"j-1", "j-3"},
		},
		{
			name:    "matches company",
			search:  "globex",
			wantIDs: []string{"j-2"},
		},
		{
			name:    "matches location substring",
			search:  "boulder",
			wantIDs: []string{"j-3"},
		},
		{
			name:    "exact id match",
			search:  "j-2",
			wantIDs: []string{"j-2"},
		},
		{
			name:    "whitespace-only search is no filter",
			search:  "   ",
			wantIDs: []string{"j-1", "j-2", "j-3"},
		},
		{
			name:    "no matches",
			search:  "cobol",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(full, Params{Search: tt.search})

			ids := make([]string, 0, len(res.Visible))
			for _, j := range res.Visible {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, len(tt.wantIDs), res.Matched)
			assert.False(t, res.Truncated)
		})
	}
}

func TestApply_StatusFacet(t *testing.T) {
	applied := job("j-1", "Backend Engineer", "Initech", "Remote")
	applied.Status = "applied"

	// Status never set, never reviewed
	fresh := job("j-2", "Frontend Engineer", "Globex", "Remote")

	// Legacy rows carry the literal "unreviewed" status
	legacy := job("j-3", "Platform Engineer", "Initech", "Remote")
	legacy.Status = "unreviewed"

	// Reviewed without a status is no longer unreviewed
	seen := job("j-4", "SRE", "Hooli", "Remote")
	seen.Reviewed = true

	full := []model.Job{applied, fresh, legacy, seen}

	tests := []struct {
		name    string
		status  string
		wantIDs []string
	}{
		{
			name:    "exact status match",
			status:  "applied",
			wantIDs: []string{"j-1"},
		},
		{
			name:    "unreviewed matches unset and legacy literal, not reviewed",
			status:  "unreviewed",
			wantIDs: []string{"j-2", "j-3"},
		},
		{
			name:    "no facet returns everything",
			status:  "",
			wantIDs: []string{"j-1", "j-2", "j-3", "j-4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Apply(full, Params{Status: tt.status})

			ids := make([]string, 0, len(res.Visible))
			for _, j := range res.Visible {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestApply_ExcludedNeverVisible(t *testing.T) {
	excluded := job("j-1", "Go Engineer", "Initech", "Remote")
	excluded.Excluded = true
	excluded.Status = "applied"

	full := []model.Job{
		excluded,
		job("j-2", "Go Engineer", "Globex", "Remote"),
	}

	// Whatever combination of filters would match it, an excluded job
	// stays out of the visible set.
	params := []Params{
		{},
		{Search: "go engineer"},
		{Search: "j-1"},
		{Status: "applied"},
		{Search: "initech", Status: "applied"},
	}

	for i, p := range params {
		t.Run(fmt.Sprintf("params_%d", i), func(t *testing.T) {
			res := Apply(full, p)
			for _, j := range res.Visible {
				assert.NotEqual(t, "j-1", j.ID)
			}
		})
	}
}

func TestApply_DisplayCap(t *testing.T) {
	full := make([]model.Job, 10)
	for i := range full {
		full[i] = job(fmt.Sprintf("j-%d", i), "Engineer", "Initech", "Remote")
	}

	t.Run("empty filters truncate to cap", func(t *testing.T) {
		res := Apply(full, Params{DisplayCap: 3})

		require.Len(t, res.Visible, 3)
		assert.True(t, res.Truncated)
		assert.Equal(t, 10, res.Matched)

		// Re-deriving with identical inputs reproduces the same slice
		again := Apply(full, Params{DisplayCap: 3})
		assert.Equal(t, res.Visible, again.Visible)
	})

	t.Run("active filter ignores the cap", func(t *testing.T) {
		res := Apply(full, Params{Search: "engineer", DisplayCap: 3})

		assert.Len(t, res.Visible, 10)
		assert.False(t, res.Truncated)
	})

	t.Run("zero cap disables truncation", func(t *testing.T) {
		res := Apply(full, Params{})

		assert.Len(t, res.Visible, 10)
		assert.False(t, res.Truncated)
	})
}

func TestNeedsServerFilter(t *testing.T) {
	tests := []struct {
		name      string
		fullLen   int
		threshold int
		params    Params
		want      bool
	}{
		{
			name:      "small dataset filters locally",
			fullLen:   100,
			threshold: 1000,
			params:    Params{Search: "go"},
			want:      false,
		},
		{
			name:      "large dataset with search delegates",
			fullLen:   1500,
			threshold: 1000,
			params:    Params{Search: "go"},
			want:      true,
		},
		{
			name:      "large dataset with status facet delegates",
			fullLen:   1500,
			threshold: 1000,
			params:    Params{Status: "applied"},
			want:      true,
		},
		{
			name:      "large dataset without filters stays local",
			fullLen:   1500,
			threshold: 1000,
			params:    Params{},
			want:      false,
		},
		{
			name:      "at the threshold stays local",
			fullLen:   1000,
			threshold: 1000,
			params:    Params{Search: "go"},
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsServerFilter(tt.fullLen, tt.threshold, tt.params))
		})
	}
}

func TestRelocate(t *testing.T) {
	visible := []model.Job{
		job("j-1", "A", "X", ""),
		job("j-2", "B", "Y", ""),
		job("j-3", "C", "Z", ""),
	}

	assert.Equal(t, 1, Relocate(visible, "j-2"))
	assert.Equal(t, -1, Relocate(visible, "j-9"))
	assert.Equal(t, -1, Relocate(visible, ""))
	assert.Equal(t, -1, Relocate(nil, "j-1"))
}
