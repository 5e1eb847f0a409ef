package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInterests(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"only separators", " , ,,", nil},
		{"trims and lowercases", "  AI , Security ", []string{"ai", "security"}},
		{"dedupes", "math, Math,MATH", []string{"math"}},
		{"keeps inner spaces", "machine learning, Rock Climbing", []string{"machine learning", "rock climbing"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInterests(tt.raw)
			assert.Len(t, got, len(tt.want))
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
		})
	}
}

func TestScore(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		requester Interests
		candidate Interests
		want      int
	}{
		{
			name:      "academic overlap counts double",
			requester: Parse("AI, Security", ""),
			candidate: Parse("ai, security, music", ""),
			want:      4,
		},
		{
			name:      "non-academic overlap counts once",
			requester: Parse("", "chess, hiking"),
			candidate: Parse("", "Hiking"),
			want:      1,
		},
		{
			name:      "categories do not cross",
			requester: Parse("music", ""),
			candidate: Parse("", "music"),
			want:      0,
		},
		{
			name:      "mixed",
			requester: Parse("math, physics", "chess"),
			candidate: Parse("physics, math", "chess, golf"),
			want:      5,
		},
		{
			name:      "no interests",
			requester: Parse("", ""),
			candidate: Parse("", ""),
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.requester, tt.candidate))
			assert.Equal(t, tt.want, Score(tt.candidate, tt.requester), "score is symmetric")
		})
	}
}

type candidate struct {
	name        string
	academic    string
	nonAcademic string
}

func TestRank_SortsDescendingAndKeepsTieOrder(t *testing.T) {
	t.Parallel()
	requester := Parse("ai, math", "chess")
	candidates := []candidate{
		{"zero-a", "history", ""},
		{"one", "", "chess"},
		{"four", "ai, math", ""},
		{"zero-b", "", ""},
		{"two", "math", ""},
		{"one-b", "", "Chess"},
	}

	ranked := Rank(requester, candidates, func(c candidate) Interests {
		return Parse(c.academic, c.nonAcademic)
	})

	names := make([]string, len(ranked))
	scores := make([]int, len(ranked))
	for i, r := range ranked {
		names[i] = r.Item.name
		scores[i] = r.Score
	}
	assert.Equal(t, []string{"four", "two", "one", "one-b", "zero-a", "zero-b"}, names)
	assert.Equal(t, []int{4, 2, 1, 1, 0, 0}, scores)
}

func TestRank_Empty(t *testing.T) {
	t.Parallel()
	ranked := Rank(Parse("ai", ""), []candidate{}, func(c candidate) Interests {
		return Parse(c.academic, c.nonAcademic)
	})
	assert.Empty(t, ranked)
}
