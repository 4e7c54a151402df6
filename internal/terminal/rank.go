package terminal

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/systmms/passlaunch/internal/launcher"
)

// Ranked is an item that survived filtering.
type Ranked struct {
	Item      launcher.Item
	Score     int
	Positions []int
}

var initScheme sync.Once

// fuzzyMatch scores label against a lowercased pattern with fzf's v2
// algorithm. Matching is case-insensitive.
func fuzzyMatch(label string, pattern []rune, slab *util.Slab) (Ranked, bool) {
	initScheme.Do(func() { algo.Init("path") })

	chars := util.ToChars([]byte(label))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, pattern, true, slab)
	if result.Start < 0 {
		return Ranked{}, false
	}

	r := Ranked{Score: result.Score}
	if positions != nil {
		r.Positions = append([]int(nil), (*positions)...)
		sort.Ints(r.Positions)
	}
	return r, true
}

// Rank filters items against query the way the plugin asked for and
// orders them. An empty query keeps every item in its original order.
func Rank(items []launcher.Item, query string, match launcher.Match, order launcher.Sort) []Ranked {
	query = strings.TrimSpace(query)
	out := make([]Ranked, 0, len(items))

	if query == "" {
		for _, item := range items {
			out = append(out, Ranked{Item: item})
		}
		return out
	}

	lower := strings.ToLower(query)
	pattern := []rune(lower)
	slab := util.MakeSlab(100*1024, 2048)

	for _, item := range items {
		switch match {
		case launcher.MatchPrefix:
			if strings.HasPrefix(strings.ToLower(item.Label), lower) {
				out = append(out, Ranked{Item: item, Score: len(lower)})
			}
		default:
			if r, ok := fuzzyMatch(item.Label, pattern, slab); ok {
				r.Item = item
				out = append(out, r)
			}
		}
	}

	if order == launcher.SortScoreDesc {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}
