package stats

import "sort"

// NameCount is one entry of a ranked top-N list.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// counter is a frequency counter that remembers first-encounter order, so
// top-N ties rank in the order the names were first seen.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) Add(name string) {
	if name == "" {
		return
	}
	if _, seen := c.counts[name]; !seen {
		c.order = append(c.order, name)
	}
	c.counts[name]++
}

func (c *counter) Empty() bool {
	return len(c.counts) == 0
}

// Top returns the limit most frequent names, count descending. The sort is
// stable over encounter order, which is the tie-break.
func (c *counter) Top(limit int) []NameCount {
	ranked := make([]NameCount, 0, len(c.order))
	for _, name := range c.order {
		ranked = append(ranked, NameCount{Name: name, Count: c.counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
