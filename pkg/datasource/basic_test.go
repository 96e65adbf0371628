package datasource_test

import (
	"slices"
	"testing"

	"github.com/go-drift/datasource/pkg/datasource"
	"github.com/go-drift/datasource/pkg/dstest"
)

type post struct {
	ID    int
	Title string
}

// loadedBasic returns a Basic attached to the harness host, loaded with items.
func loadedBasic(t *testing.T, h *dstest.Harness, opts datasource.Options, items ...string) *datasource.Basic[string] {
	t.Helper()
	opts.Loop = h.Loop
	b := datasource.NewBasic[string](opts)
	b.LoadHandler = func(l *datasource.Loader) {
		l.UpdateWithContent(func() { b.SetItems(items, false) })
	}
	h.Do(func() {
		b.SetHost(h.Host)
		b.LoadContent(nil)
	})
	if got := b.LoadingState(); !got.Is(datasource.StateLoaded) {
		t.Fatalf("setup state = %v", got)
	}
	h.Host.Reset()
	return b
}

func TestBasicSetItemsReloads(t *testing.T) {
	h := dstest.NewHarness(t)
	b := loadedBasic(t, h, datasource.Options{}, "a", "b")

	h.Do(func() { b.SetItems([]string{"x"}, false) })

	if got := h.Host.Log(); !slices.Equal(got, []string{"reload-data"}) {
		t.Errorf("log = %v", got)
	}
	if got := b.Items(); !slices.Equal(got, []string{"x"}) {
		t.Errorf("items = %v", got)
	}
	if b.NumberOfItems(0) != 1 || b.NumberOfItems(1) != 0 {
		t.Errorf("NumberOfItems = %d, %d", b.NumberOfItems(0), b.NumberOfItems(1))
	}
}

func TestBasicSetItemsAnimatedDiff(t *testing.T) {
	h := dstest.NewHarness(t)
	b := loadedBasic(t, h, datasource.Options{}, "a", "b", "c")

	h.Do(func() { b.SetItems([]string{"c", "a", "d"}, true) })

	want := []string{
		"remove-items [{0 1}]",
		"insert-items [{0 2}]",
		"move-item {0 2}->{0 0}",
		"move-item {0 0}->{0 1}",
	}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	if got := h.Host.Count(dstest.OpBatchBegin); got != 1 {
		t.Errorf("batches = %d, want 1", got)
	}
}

func TestBasicAnimatedDiffRepeatedItems(t *testing.T) {
	tests := []struct {
		name     string
		from, to []string
		want     []string
	}{
		{"drop a duplicate", []string{"a", "a"}, []string{"a"}, []string{"remove-items [{0 1}]"}},
		{"add a duplicate", []string{"a"}, []string{"a", "a"}, []string{"insert-items [{0 1}]"}},
		{"reorder around duplicates", []string{"a", "b", "a"}, []string{"b", "a", "a"}, []string{
			"move-item {0 1}->{0 0}",
			"move-item {0 0}->{0 1}",
		}},
		{"replace one of two", []string{"a", "a"}, []string{"a", "b"}, []string{
			"remove-items [{0 1}]",
			"insert-items [{0 1}]",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := dstest.NewHarness(t)
			b := loadedBasic(t, h, datasource.Options{}, tt.from...)

			h.Do(func() { b.SetItems(tt.to, true) })

			if got := h.Host.Log(); !slices.Equal(got, tt.want) {
				t.Errorf("log = %v, want %v", got, tt.want)
			}
			delta := 0
			for _, e := range h.Host.Events() {
				switch e.Op {
				case dstest.OpInsertItems:
					delta += len(e.Paths)
				case dstest.OpRemoveItems:
					delta -= len(e.Paths)
				}
			}
			if delta != len(tt.to)-len(tt.from) {
				t.Errorf("reported item delta %d, items went from %d to %d", delta, len(tt.from), len(tt.to))
			}
			if got := b.NumberOfItems(0); got != len(tt.to) {
				t.Errorf("NumberOfItems(0) = %d, want %d", got, len(tt.to))
			}
		})
	}
}

func TestBasicEmptyingShowsPlaceholder(t *testing.T) {
	h := dstest.NewHarness(t)
	b := loadedBasic(t, h, datasource.Options{
		EmptyContent: datasource.PlaceholderContent{Title: "No posts"},
	}, "a", "b")

	h.Do(func() { b.SetItems(nil, true) })

	if got := b.LoadingState(); !got.Is(datasource.StateNoContent) {
		t.Fatalf("state = %v, want no-content", got)
	}
	want := []string{"remove-items [{0 0} {0 1}]", "reload-sections [0]"}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}

	h.Host.Reset()
	h.Do(func() { b.SetItems([]string{"z"}, true) })

	if got := b.LoadingState(); !got.Is(datasource.StateLoaded) {
		t.Fatalf("state = %v, want loaded", got)
	}
	want = []string{"reload-sections [0]", "insert-items [{0 0}]"}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	if b.PendingUpdates() != 0 {
		t.Errorf("pending = %d", b.PendingUpdates())
	}
}

func TestBasicSetItemsWhileLoadingIsDeferred(t *testing.T) {
	h := dstest.NewHarness(t)
	var loaders []*datasource.Loader
	b := datasource.NewBasic[string](datasource.Options{Loop: h.Loop, LoadHandler: capture(&loaders)})

	h.Do(func() {
		b.LoadContent(nil)
		b.SetItems([]string{"a"}, true)
		b.SetItems([]string{"a", "b"}, true)
	})
	if len(b.Items()) != 0 {
		t.Fatalf("items applied while loading: %v", b.Items())
	}

	loaders[0].Done()
	h.Pump()
	if got := b.Items(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("items = %v", got)
	}
}

func TestBasicRemoveItems(t *testing.T) {
	h := dstest.NewHarness(t)
	b := loadedBasic(t, h, datasource.Options{}, "a", "b", "c", "d")

	h.Do(func() { b.RemoveItems([]int{2, 0, 0, 9}) })

	if got := b.Items(); !slices.Equal(got, []string{"b", "d"}) {
		t.Errorf("items = %v", got)
	}
	if got := h.Host.Log(); !slices.Equal(got, []string{"remove-items [{0 0} {0 2}]"}) {
		t.Errorf("log = %v", got)
	}

	h.Host.Reset()
	h.Do(func() { b.RemoveItems([]int{7}) })
	if len(h.Host.Events()) != 0 {
		t.Errorf("out of range removal notified: %v", h.Host.Log())
	}
}

func TestBasicItemLookup(t *testing.T) {
	h := dstest.NewHarness(t)
	b := loadedBasic(t, h, datasource.Options{}, "a", "b", "a")

	if item, ok := b.Item(datasource.Path(0, 1)); !ok || item != "b" {
		t.Errorf("Item({0 1}) = %q, %v", item, ok)
	}
	if _, ok := b.Item(datasource.Path(1, 0)); ok {
		t.Error("Item({1 0}) should be absent")
	}
	want := []datasource.IndexPath{datasource.Path(0, 0), datasource.Path(0, 2)}
	if got := b.IndexPathsFor("a"); !slices.Equal(got, want) {
		t.Errorf("IndexPathsFor(a) = %v, want %v", got, want)
	}
}

func TestKeyedBasicDiffsByKey(t *testing.T) {
	h := dstest.NewHarness(t)
	b := datasource.NewKeyedBasic(datasource.Options{Loop: h.Loop}, func(p post) int { return p.ID })

	h.Do(func() {
		b.SetHost(h.Host)
		b.SetItems([]post{{1, "one"}, {2, "two"}}, false)
	})
	h.Host.Reset()

	h.Do(func() { b.SetItems([]post{{2, "two (edited)"}, {1, "one"}}, true) })

	want := []string{"move-item {0 1}->{0 0}", "move-item {0 0}->{0 1}"}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	if got := b.IndexPathsFor(post{ID: 2}); !slices.Equal(got, []datasource.IndexPath{datasource.Path(0, 0)}) {
		t.Errorf("IndexPathsFor(2) = %v", got)
	}
}
