package stats

import (
	"sort"
	"strings"

	"github.com/verte-zerg/readlog/internal/model"
)

// TopAuthors returns the n most read authors. Authors are matched ignoring
// case and surrounding space; the first spelling seen is reported.
func TopAuthors(books []model.Book, n int) model.Counts {
	if n <= 0 || len(books) == 0 {
		return nil
	}
	index := map[string]int{}
	var items model.Counts
	for _, b := range books {
		name := strings.TrimSpace(b.Author)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			items[i].Count++
			continue
		}
		index[key] = len(items)
		items = append(items, model.Count{Key: name, Count: 1})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Key < items[j].Key
		}
		return items[i].Count > items[j].Count
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
