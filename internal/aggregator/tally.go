package aggregator

import (
	"sort"

	"shenanigigs/statistics/internal/models"
)

// counter keeps labels in first-seen order so ties rank deterministically.
type counter struct {
	index   map[string]int
	entries []models.TallyEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.entries[i].Count++
		return
	}
	c.index[label] = len(c.entries)
	c.entries = append(c.entries, models.TallyEntry{Label: label, Count: 1})
}

func (c *counter) tally() models.Tally {
	entries := make([]models.TallyEntry, len(c.entries))
	copy(entries, c.entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	total := 0
	for _, e := range entries {
		total += e.Count
	}
	return models.Tally{Entries: entries, Count: total}
}
