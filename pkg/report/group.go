package report

import "sort"

// Group is a set of transitions sharing a category and an index key.
type Group struct {
	Category    Category
	Key         string
	Transitions []string
}

// Sentinel returns the index key used for records that have no ISTD name.
func Sentinel(c Category) string {
	return "[" + c.String() + "]"
}

// Index returns the records keyed by ISTD name. Records without an ISTD are
// keyed by the sentinel of their category.
func (r Report) Index() map[string][]Record {
	idx := make(map[string][]Record)
	for _, rec := range r.Sorted() {
		key := rec.ISTD
		if key == "" {
			key = Sentinel(rec.Category)
		}
		idx[key] = append(idx[key], rec)
	}
	return idx
}

// Groups returns the records grouped by category and index key, ordered by
// category and then key. Transitions within a group are sorted.
func (r Report) Groups() []Group {
	type gk struct {
		c   Category
		key string
	}
	members := make(map[gk][]string)
	for key, recs := range r.Index() {
		for _, rec := range recs {
			k := gk{rec.Category, key}
			members[k] = append(members[k], rec.Transition)
		}
	}

	groups := make([]Group, 0, len(members))
	for k, ts := range members {
		sort.Strings(ts)
		groups = append(groups, Group{Category: k.c, Key: k.key, Transitions: ts})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Category != groups[j].Category {
			return groups[i].Category < groups[j].Category
		}
		return groups[i].Key < groups[j].Key
	})
	return groups
}
