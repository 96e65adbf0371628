package datasource_test

import (
	"github.com/go-drift/datasource/pkg/datasource"
)

// sectioned is a leaf data source with a fixed number of items per section.
type sectioned struct {
	*datasource.DataSource
	items []int
}

func newSectioned(opts datasource.Options, items ...int) *sectioned {
	s := &sectioned{DataSource: datasource.New(opts), items: items}
	s.Bind(s)
	return s
}

func (s *sectioned) NumberOfSections() int { return len(s.items) }

func (s *sectioned) NumberOfItems(section int) int {
	if section < 0 || section >= len(s.items) {
		return 0
	}
	return s.items[section]
}

// capture returns a load handler that stores each loader it is given.
func capture(loaders *[]*datasource.Loader) datasource.LoadHandler {
	return func(l *datasource.Loader) {
		*loaders = append(*loaders, l)
	}
}

func headerTypes(ms []datasource.SupplementaryMetrics) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ViewType
	}
	return out
}
