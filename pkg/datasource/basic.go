package datasource

import "slices"

// Basic is a single-section data source backed by a slice of items.
// Replacing the items computes the inserted, removed and moved index paths
// against the previous slice so the host can animate the change.
type Basic[T any] struct {
	*DataSource

	items []T
	key   func(T) any
}

// NewBasic creates a Basic data source identifying items by value.
func NewBasic[T comparable](opts Options) *Basic[T] {
	return newBasic(opts, func(item T) any { return item })
}

// NewKeyedBasic creates a Basic data source identifying items by key.
func NewKeyedBasic[T any, K comparable](opts Options, key func(T) K) *Basic[T] {
	return newBasic(opts, func(item T) any { return key(item) })
}

func newBasic[T any](opts Options, key func(T) any) *Basic[T] {
	b := &Basic[T]{
		DataSource: newDataSource(opts),
		key:        key,
	}
	b.Bind(b)
	return b
}

// NumberOfItems returns the item count of section 0.
func (b *Basic[T]) NumberOfItems(section int) int {
	if section != 0 {
		return 0
	}
	return len(b.items)
}

// Items returns a copy of the items.
func (b *Basic[T]) Items() []T {
	return slices.Clone(b.items)
}

// Item returns the item at path.
func (b *Basic[T]) Item(path IndexPath) (T, bool) {
	if path.Section != 0 || path.Item < 0 || path.Item >= len(b.items) {
		var zero T
		return zero, false
	}
	return b.items[path.Item], true
}

// IndexPathsFor returns the paths of every item with the same key as item.
func (b *Basic[T]) IndexPathsFor(item T) []IndexPath {
	k := b.key(item)
	var out []IndexPath
	for i, it := range b.items {
		if b.key(it) == k {
			out = append(out, Path(0, i))
		}
	}
	return out
}

// SetItems replaces the items. When animated, the differences with the old
// items are reported as removals, insertions and moves in one update;
// otherwise the data is reported reloaded. A loaded data source whose items
// become empty moves to StateNoContent, and back to StateLoaded when items
// return.
func (b *Basic[T]) SetItems(items []T, animated bool) {
	b.loop.AssertCurrent("datasource.Basic.SetItems")
	items = slices.Clone(items)
	if !animated {
		b.PerformUpdate(func() {
			b.replace(items, b.NotifyDataReloaded)
		}, nil)
		return
	}

	b.PerformUpdate(func() {
		removed, inserted, moved := diffItems(b.items, items, b.key)
		b.replace(items, func() {
			if len(removed) > 0 {
				b.NotifyItemsRemoved(removed)
			}
			if len(inserted) > 0 {
				b.NotifyItemsInserted(inserted)
			}
			for _, mv := range moved {
				b.NotifyItemMoved(mv[0], mv[1])
			}
		})
	}, nil)
}

// RemoveItems removes the items at indexes.
func (b *Basic[T]) RemoveItems(indexes []int) {
	b.loop.AssertCurrent("datasource.Basic.RemoveItems")
	drop := make(map[int]bool, len(indexes))
	var paths []IndexPath
	for _, i := range indexes {
		if i < 0 || i >= len(b.items) || drop[i] {
			continue
		}
		drop[i] = true
		paths = append(paths, Path(0, i))
	}
	if len(paths) == 0 {
		return
	}
	slices.SortFunc(paths, func(x, y IndexPath) int { return x.Item - y.Item })

	kept := make([]T, 0, len(b.items)-len(paths))
	for i, it := range b.items {
		if !drop[i] {
			kept = append(kept, it)
		}
	}
	b.PerformUpdate(func() {
		b.replace(kept, func() { b.NotifyItemsRemoved(paths) })
	}, nil)
}

// replace swaps in items and reports the change. Gaining items leaves
// StateNoContent before notifying so the change is not deferred behind the
// empty placeholder; losing all items enters it only after notifying.
func (b *Basic[T]) replace(items []T, notify func()) {
	b.items = items
	if len(items) > 0 {
		b.updateLoadingStateFromItems()
	}
	notify()
	if len(items) == 0 {
		b.updateLoadingStateFromItems()
	}
}

func (b *Basic[T]) updateLoadingStateFromItems() {
	switch b.state.State {
	case StateLoaded:
		if len(b.items) == 0 {
			b.setLoadingState(NoContent, "datasource.Basic.SetItems")
		}
	case StateNoContent:
		if len(b.items) > 0 {
			b.setLoadingState(Loaded, "datasource.Basic.SetItems")
		}
	}
}

// occurrence identifies an item by key and by how many earlier items share
// that key, so repeated keys pair up in order.
type occurrence struct {
	key any
	n   int
}

func occurrences[T any](items []T, key func(T) any) map[occurrence]int {
	seen := make(map[any]int, len(items))
	index := make(map[occurrence]int, len(items))
	for i, it := range items {
		k := key(it)
		index[occurrence{k, seen[k]}] = i
		seen[k]++
	}
	return index
}

// diffItems compares two item lists by key. The nth item with a given key in
// old matches the nth with that key in items, so the removals and insertions
// always account for the change in length. Moves are reported for matched
// items whose index changed, from old index to new index.
func diffItems[T any](old, items []T, key func(T) any) (removed, inserted []IndexPath, moved [][2]IndexPath) {
	oldIndex := occurrences(old, key)
	newIndex := occurrences(items, key)

	seen := make(map[any]int, len(old))
	for i, it := range old {
		k := key(it)
		if _, ok := newIndex[occurrence{k, seen[k]}]; !ok {
			removed = append(removed, Path(0, i))
		}
		seen[k]++
	}
	clear(seen)
	for i, it := range items {
		k := key(it)
		j, ok := oldIndex[occurrence{k, seen[k]}]
		seen[k]++
		switch {
		case !ok:
			inserted = append(inserted, Path(0, i))
		case j != i:
			moved = append(moved, [2]IndexPath{Path(0, j), Path(0, i)})
		}
	}
	return removed, inserted, moved
}
