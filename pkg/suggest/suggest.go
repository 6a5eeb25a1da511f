// Package suggest ranks "did you mean" candidates for names that were not
// found, such as rule names and template files.
package suggest

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultLimit is the number of suggestions returned by callers that do not
// choose their own
const DefaultLimit = 3

type candidate struct {
	name     string
	distance int
}

// Closest returns up to limit candidates similar to target, best first.
// A candidate qualifies when target's characters appear in it in order
// (case-insensitive), or when its edit distance to target is small relative
// to target's length. Exact matches are not suggested.
func Closest(target string, candidates []string, limit int) []string {
	if target == "" || len(candidates) == 0 || limit <= 0 {
		return nil
	}

	lowered := strings.ToLower(target)
	maxEdits := len(lowered)/3 + 1

	seen := make(map[string]bool, len(candidates))
	var found []candidate

	for _, rank := range fuzzy.RankFindFold(target, candidates) {
		if rank.Target == target || seen[rank.Target] {
			continue
		}
		seen[rank.Target] = true
		found = append(found, candidate{name: rank.Target, distance: rank.Distance})
	}

	for _, name := range candidates {
		if name == target || seen[name] {
			continue
		}
		d := fuzzy.LevenshteinDistance(lowered, strings.ToLower(name))
		if d <= maxEdits {
			seen[name] = true
			found = append(found, candidate{name: name, distance: d})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].distance != found[j].distance {
			return found[i].distance < found[j].distance
		}
		return found[i].name < found[j].name
	})

	if len(found) > limit {
		found = found[:limit]
	}
	out := make([]string, 0, len(found))
	for _, c := range found {
		out = append(out, c.name)
	}
	return out
}
