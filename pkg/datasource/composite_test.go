package datasource_test

import (
	"slices"
	"testing"

	"github.com/go-drift/datasource/pkg/datasource"
	"github.com/go-drift/datasource/pkg/dstest"
)

func TestCompositeMapsSections(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{Loop: h.Loop}, 3, 5)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 7)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)

	if got := c.NumberOfSections(); got != 3 {
		t.Fatalf("NumberOfSections() = %d, want 3", got)
	}
	for section, want := range []int{3, 5, 7} {
		if got := c.NumberOfItems(section); got != want {
			t.Errorf("NumberOfItems(%d) = %d, want %d", section, got, want)
		}
	}
	if got := c.NumberOfItems(9); got != 0 {
		t.Errorf("NumberOfItems(9) = %d, want 0", got)
	}

	src, local := c.ChildForGlobalIndexPath(datasource.Path(2, 4))
	if src != datasource.Source(b) || local != datasource.Path(0, 4) {
		t.Errorf("ChildForGlobalIndexPath = %v %v, want b {0 4}", src, local)
	}
	if child, section, ok := c.LocalSection(1); !ok || child != datasource.Source(a) || section != 1 {
		t.Errorf("LocalSection(1) = %v %d %v", child, section, ok)
	}
	if a.ParentKind() != datasource.ParentComposite || a.Parent() != datasource.Source(c) {
		t.Errorf("child attachment = %s %v", a.ParentKind(), a.Parent())
	}
}

func TestCompositeTranslatesChildNotifications(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{Loop: h.Loop}, 3, 5)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 7)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)

	h.Do(func() {
		c.SetHost(h.Host)
		b.NotifyItemsInserted([]datasource.IndexPath{datasource.Path(0, 1)})
		a.NotifyItemMoved(datasource.Path(1, 0), datasource.Path(0, 2))
		b.NotifySectionsReloaded([]int{0})
		b.NotifySectionMoved(0, 0, datasource.DirectionLeft)
	})

	want := []string{
		"insert-items [{2 1}]",
		"move-item {1 0}->{0 2}",
		"reload-sections [2]",
		"move-section 2->2",
	}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	for _, e := range h.Host.Events() {
		if e.Source != c.DataSource {
			t.Errorf("%s reported by %p, want the composite", e.Op, e.Source)
		}
	}
}

func TestCompositeSectionInsertUpdatesMapping(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 4)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)

	h.Do(func() {
		c.SetHost(h.Host)
		a.items = append(a.items, 2)
		a.NotifySectionsInserted([]int{1}, datasource.DirectionNone)
	})

	if got := h.Host.Log(); !slices.Equal(got, []string{"insert-sections [1]"}) {
		t.Errorf("log = %v", got)
	}
	if got := c.NumberOfItems(2); got != 4 {
		t.Errorf("b moved to section 2 with %d items, want 4", got)
	}
	src, _ := c.ChildForGlobalIndexPath(datasource.Path(2, 0))
	if src != datasource.Source(b) {
		t.Error("section 2 should map to b after the insert")
	}
}

func TestNestedComposite(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{Loop: h.Loop}, 2)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 6)
	x := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	inner := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)
	outer := datasource.NewComposite(datasource.Options{Loop: h.Loop}, x, inner)

	src, local := outer.ChildForGlobalIndexPath(datasource.Path(2, 5))
	if src != datasource.Source(b) || local != datasource.Path(0, 5) {
		t.Errorf("ChildForGlobalIndexPath = %v %v, want b {0 5}", src, local)
	}

	h.Do(func() {
		outer.SetHost(h.Host)
		b.NotifyItemsRemoved([]datasource.IndexPath{datasource.Path(0, 3)})
	})
	if got := h.Host.Log(); !slices.Equal(got, []string{"remove-items [{2 3}]"}) {
		t.Errorf("log = %v", got)
	}
}

func TestCompositeAddRemove(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{Loop: h.Loop}, 1, 1)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a)

	h.Do(func() {
		c.SetHost(h.Host)
		c.Add(b)
		c.Add(b)
		c.Remove(a)
	})

	want := []string{"insert-sections [2]", "remove-sections [0 1]"}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	if a.ParentKind() != datasource.ParentNone || a.Parent() != nil {
		t.Errorf("removed child still attached: %s", a.ParentKind())
	}
	if got := c.Children(); len(got) != 1 || got[0] != datasource.Source(b) {
		t.Errorf("children = %v", got)
	}
	if got := c.NumberOfSections(); got != 1 {
		t.Errorf("NumberOfSections() = %d, want 1", got)
	}
}

func TestCompositeLoadsAllChildren(t *testing.T) {
	h := dstest.NewHarness(t)
	var aLoaders, bLoaders []*datasource.Loader
	a := newSectioned(datasource.Options{Loop: h.Loop, LoadHandler: capture(&aLoaders)}, 1)
	b := newSectioned(datasource.Options{Loop: h.Loop, LoadHandler: capture(&bLoaders)}, 1)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)

	h.Do(func() {
		c.SetHost(h.Host)
		c.LoadContent(nil)
	})
	if len(aLoaders) != 1 || len(bLoaders) != 1 {
		t.Fatalf("children loaded %d and %d times, want once each", len(aLoaders), len(bLoaders))
	}
	if !a.IsObscuredByPlaceholder() {
		t.Error("children of a loading composite are obscured")
	}

	aLoaders[0].Done()
	h.Pump()
	if got := c.LoadingState(); !got.Is(datasource.StateLoading) {
		t.Fatalf("composite finished before all children: %v", got)
	}

	bLoaders[0].UpdateWithNoContent(nil)
	h.Pump()
	if got := c.LoadingState(); !got.Is(datasource.StateLoaded) {
		t.Errorf("composite state = %v, want loaded", got)
	}
	if got := h.Host.Count(dstest.OpDidLoadContent); got != 1 {
		t.Errorf("host saw %d load completions, want 1", got)
	}
}

func TestCompositeAggregateState(t *testing.T) {
	type outcome func(l *datasource.Loader)
	var (
		loaded  outcome = func(l *datasource.Loader) { l.Done() }
		empty   outcome = func(l *datasource.Loader) { l.UpdateWithNoContent(nil) }
		failed  outcome = func(l *datasource.Loader) { l.DoneWithError(errOffline) }
		pending outcome = func(l *datasource.Loader) {}
	)
	tests := []struct {
		name     string
		children []outcome
		want     datasource.State
	}{
		{"all loaded", []outcome{loaded, loaded}, datasource.StateLoaded},
		{"some empty", []outcome{loaded, empty}, datasource.StateLoaded},
		{"all empty", []outcome{empty, empty}, datasource.StateNoContent},
		{"error without content", []outcome{empty, failed}, datasource.StateError},
		{"error beside content", []outcome{loaded, failed}, datasource.StateLoaded},
		{"one still loading", []outcome{loaded, pending}, datasource.StateLoading},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := dstest.NewHarness(t)
			var children []datasource.Source
			for _, fn := range tt.children {
				children = append(children, newSectioned(datasource.Options{
					Loop:        h.Loop,
					LoadHandler: datasource.LoadHandler(fn),
				}, 1))
			}
			c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, children...)

			h.Do(func() { c.LoadContent(nil) })

			if got := c.AggregateLoadingState(); !got.Is(tt.want) {
				t.Errorf("AggregateLoadingState() = %v, want %s", got, tt.want)
			}
			if got := c.LoadingState(); !got.Is(tt.want) {
				t.Errorf("LoadingState() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestEmptyCompositeHasNoContent(t *testing.T) {
	h := dstest.NewHarness(t)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop})

	h.Do(func() { c.LoadContent(nil) })

	if got := c.LoadingState(); !got.Is(datasource.StateNoContent) {
		t.Errorf("state = %v, want no-content", got)
	}
	if c.NumberOfSections() != 0 {
		t.Errorf("NumberOfSections() = %d", c.NumberOfSections())
	}
}

func TestCompositeSnapshotMergesChildMetrics(t *testing.T) {
	h := dstest.NewHarness(t)
	a := newSectioned(datasource.Options{
		Loop:           h.Loop,
		DefaultMetrics: datasource.SectionMetrics{RowHeight: 60},
	}, 1)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	c := datasource.NewComposite(datasource.Options{
		Loop:           h.Loop,
		DefaultMetrics: datasource.SectionMetrics{RowHeight: 44, NumberOfColumns: 1},
	}, a, b)
	c.AddHeader("search", datasource.SupplementaryMetrics{ViewType: "Search"})

	if m := c.SnapshotMetrics(0); m.RowHeight != 60 || m.NumberOfColumns != 1 {
		t.Errorf("section 0 = %+v", m)
	}
	if m := c.SnapshotMetrics(1); m.RowHeight != 44 {
		t.Errorf("section 1 RowHeight = %v, want 44", m.RowHeight)
	}
	if got := headerTypes(c.SnapshotMetrics(datasource.GlobalSection).Supplementary); !slices.Equal(got, []string{"Search"}) {
		t.Errorf("global headers = %v", got)
	}

	r := &dstest.Registrar{}
	c.RegisterReusableViews(r)
	if !r.Has(datasource.KindHeader, "Search") {
		t.Error("composite header not registered")
	}
}

func TestCompositeListsEachHeaderOnce(t *testing.T) {
	h := dstest.NewHarness(t)
	x := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	y := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	inner := datasource.NewComposite(datasource.Options{Loop: h.Loop}, x, y)
	outer := datasource.NewComposite(datasource.Options{Loop: h.Loop}, inner)
	outer.AddHeader("top", datasource.SupplementaryMetrics{ViewType: "Top"})
	inner.AddHeader("group", datasource.SupplementaryMetrics{ViewType: "Group"})
	x.AddHeader("own", datasource.SupplementaryMetrics{ViewType: "Own"})
	h.Do(func() { outer.SetHost(h.Host) })

	if got := headerTypes(x.SnapshotMetrics(0).Supplementary); !slices.Equal(got, []string{"Group", "Own"}) {
		t.Errorf("leaf section 0 = %v, want parent headers then its own", got)
	}

	tests := []struct {
		section int
		want    []string
	}{
		{datasource.GlobalSection, []string{"Top"}},
		{0, []string{"Group", "Own"}},
		{1, []string{}},
	}
	for _, tt := range tests {
		got := headerTypes(outer.SnapshotMetrics(tt.section).Supplementary)
		if !slices.Equal(got, tt.want) {
			t.Errorf("outer section %d headers = %v, want %v", tt.section, got, tt.want)
		}
	}

	r := &dstest.Registrar{}
	outer.RegisterReusableViews(r)
	for _, id := range []string{"Top", "Group", "Own"} {
		if !r.Has(datasource.KindHeader, id) {
			t.Errorf("header %s not registered", id)
		}
	}
}

func TestCompositeRelaysChildReload(t *testing.T) {
	h := dstest.NewHarness(t)
	var loaders []*datasource.Loader
	a := newSectioned(datasource.Options{Loop: h.Loop, LoadHandler: capture(&loaders)}, 1)
	b := newSectioned(datasource.Options{Loop: h.Loop}, 1)
	c := datasource.NewComposite(datasource.Options{Loop: h.Loop}, a, b)

	h.Do(func() {
		c.SetHost(h.Host)
		c.LoadContent(nil)
	})
	loaders[0].Done()
	h.Pump()
	if got := h.Host.Log(); !slices.Equal(got, []string{"will-load-content", "did-load-content"}) {
		t.Fatalf("composite load log = %v", got)
	}

	h.Host.Reset()
	h.Do(func() { a.SetNeedsLoadContent() })
	if len(loaders) != 2 {
		t.Fatalf("child loaded %d times, want 2", len(loaders))
	}
	loaders[1].DoneWithError(errOffline)
	h.Pump()

	want := []string{"will-load-content", "did-load-content err=offline"}
	if got := h.Host.Log(); !slices.Equal(got, want) {
		t.Errorf("log = %v, want %v", got, want)
	}
	for _, e := range h.Host.Events() {
		if e.Source != c.DataSource {
			t.Errorf("%s reported by %p, want the composite", e.Op, e.Source)
		}
	}
	if got := c.LoadingState(); !got.Is(datasource.StateLoaded) {
		t.Errorf("composite state = %v, want loaded", got)
	}
}
