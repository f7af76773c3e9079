package insights

import (
	"sort"

	"casa/internal/core"
)

// TagCount is one row of the tag usage table.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagUsage counts how many records carry each tag name across every taggable
// collection of the snapshot. Names are matched literally: no case folding
// and no trimming, so "Warranty" and "warranty" are distinct keys.
//
// The Tags collection itself is not scanned; tag definitions are not tagged
// records.
func TagUsage(s core.Snapshot) map[string]int {
	counts := make(map[string]int)
	countTags(counts, s.Properties)
	countTags(counts, s.Spaces)
	countTags(counts, s.Tasks)
	countTags(counts, s.Projects)
	countTags(counts, s.Inventory)
	countTags(counts, s.Categories)
	countTags(counts, s.Contacts)
	countTags(counts, s.Documents)
	countTags(counts, s.Households)
	countTags(counts, s.Policies)
	countTags(counts, s.Utilities)
	return counts
}

func countTags[T core.Entity](counts map[string]int, items []T) {
	for _, it := range items {
		for _, name := range it.TagNames() {
			counts[name]++
		}
	}
}

// SortedTagUsage orders a usage map by count descending, then name.
func SortedTagUsage(counts map[string]int) []TagCount {
	out := make([]TagCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, TagCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
