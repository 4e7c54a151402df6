package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/passlaunch/internal/launcher"
)

func labels(ranked []Ranked) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Item.Label)
	}
	return out
}

func items(names ...string) []launcher.Item {
	out := make([]launcher.Item, 0, len(names))
	for _, n := range names {
		out = append(out, EntryItem(n))
	}
	return out
}

func TestRank_EmptyQueryKeepsOrder(t *testing.T) {
	t.Parallel()

	in := items("zeta", "alpha", "email/work")
	got := Rank(in, "  ", launcher.MatchFuzzy, launcher.SortScoreDesc)
	assert.Equal(t, []string{"zeta", "alpha", "email/work"}, labels(got))
	for _, r := range got {
		assert.Zero(t, r.Score)
	}
}

func TestRank_FuzzyFiltersAndSorts(t *testing.T) {
	t.Parallel()

	in := items("social/twitter", "email/work", "work/vpn", "bank")
	got := Rank(in, "work", launcher.MatchFuzzy, launcher.SortScoreDesc)

	require.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"email/work", "work/vpn"}, labels(got))
	assert.GreaterOrEqual(t, got[0].Score, got[1].Score)
	for _, r := range got {
		assert.Len(t, r.Positions, 4)
	}
}

func TestRank_FuzzyNonContiguous(t *testing.T) {
	t.Parallel()

	got := Rank(items("email/personal", "bank"), "emps", launcher.MatchFuzzy, launcher.SortScoreDesc)
	assert.Equal(t, []string{"email/personal"}, labels(got))
}

func TestRank_CaseInsensitive(t *testing.T) {
	t.Parallel()

	got := Rank(items("GitHub/Personal"), "github", launcher.MatchFuzzy, launcher.SortNone)
	assert.Equal(t, []string{"GitHub/Personal"}, labels(got))
}

func TestRank_SortNoneKeepsOrder(t *testing.T) {
	t.Parallel()

	in := items("xx work yy", "work")
	got := Rank(in, "work", launcher.MatchFuzzy, launcher.SortNone)
	assert.Equal(t, []string{"xx work yy", "work"}, labels(got))
}

func TestRank_Prefix(t *testing.T) {
	t.Parallel()

	got := Rank(items("email/work", "work/email"), "Email", launcher.MatchPrefix, launcher.SortNone)
	assert.Equal(t, []string{"email/work"}, labels(got))
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plain", highlight("plain", nil))
	assert.Contains(t, highlight("abc", []int{1}), "a")
}
