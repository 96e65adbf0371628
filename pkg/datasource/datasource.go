package datasource

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-drift/datasource/pkg/errors"
	"github.com/go-drift/datasource/pkg/mainloop"
)

// Source is implemented by every data source. Types outside this package
// satisfy it by embedding *DataSource and calling [DataSource.Bind], then
// overriding the query methods they need.
//
//	type Feed struct {
//	    *datasource.DataSource
//	    posts []Post
//	}
//
//	func NewFeed(opts datasource.Options) *Feed {
//	    f := &Feed{DataSource: datasource.New(opts)}
//	    f.Bind(f)
//	    return f
//	}
//
//	func (f *Feed) NumberOfItems(section int) int { return len(f.posts) }
type Source interface {
	base() *DataSource

	NumberOfSections() int
	NumberOfItems(section int) int
	// ChildForGlobalIndexPath resolves the leaf data source owning path and
	// translates path into the leaf's coordinates.
	ChildForGlobalIndexPath(path IndexPath) (Source, IndexPath)
	SnapshotMetrics(section int) SectionMetrics
	RegisterReusableViews(r Registrar)
}

// Base returns the DataSource core of src.
func Base(src Source) *DataSource {
	return src.base()
}

// Options configures a data source.
type Options struct {
	// Loop is the UI loop. Nil means mainloop.Main().
	Loop *mainloop.Loop
	// Limiter bounds background fetches started with Loader.Go. Nil means
	// no limit.
	Limiter *mainloop.Limiter
	// LoadDebounce delays SetNeedsLoadContent. Zero runs the load on the
	// next loop drain.
	LoadDebounce time.Duration

	Title          string
	EmptyContent   PlaceholderContent
	ErrorContent   PlaceholderContent
	DefaultMetrics SectionMetrics
	LoadHandler    LoadHandler
}

// DataSource is the core of every data source: it owns the loading state
// machine, the pending update queue, header and section metrics, and the
// link to its container.
//
// Apart from WhenLoaded and SetNeedsLoadContent, methods must be called on
// the data source's UI loop; mutation and notification methods assert it.
type DataSource struct {
	// Title names the data source, e.g. for a segmented control.
	Title string
	// EmptyContent is shown when loading ends in StateNoContent.
	EmptyContent PlaceholderContent
	// ErrorContent is shown when loading ends in StateError.
	ErrorContent PlaceholderContent
	// DefaultMetrics is the base every section's metrics are applied onto.
	DefaultMetrics SectionMetrics
	// LoadHandler loads content when LoadContent is given no handler and
	// when SetNeedsLoadContent fires. Nil completes loads immediately.
	LoadHandler LoadHandler
	// PlaceholderFactory creates the placeholder view during registration.
	PlaceholderFactory ViewFactory

	self     Source
	loop     *mainloop.Loop
	limiter  *mainloop.Limiter
	debounce time.Duration

	// parentKind says what container is. parent is set only for
	// ParentComposite. Neither is owned: a container outlives the children
	// attached to it and detaches them before it goes away.
	parentKind ParentKind
	container  Container
	parent     Source

	state     LoadingState
	loader    *Loader
	pending   UpdateQueue
	waiters   waiters
	listeners []*stateListener

	headers         HeaderRegistry
	metrics         map[int]SectionMetrics
	placeholderView PlaceholderView

	schedMu   sync.Mutex
	scheduled *mainloop.Timer
}

type stateListener struct {
	fn func(prev, next LoadingState)
}

// New creates a leaf data source with one section.
func New(opts Options) *DataSource {
	d := newDataSource(opts)
	d.self = d
	return d
}

func newDataSource(opts Options) *DataSource {
	loop := opts.Loop
	if loop == nil {
		loop = mainloop.Main()
	}
	return &DataSource{
		Title:          opts.Title,
		EmptyContent:   opts.EmptyContent,
		ErrorContent:   opts.ErrorContent,
		DefaultMetrics: opts.DefaultMetrics.Clone(),
		LoadHandler:    opts.LoadHandler,
		loop:           loop,
		limiter:        opts.Limiter,
		debounce:       opts.LoadDebounce,
		state:          Initial,
	}
}

// Bind makes outer the receiver of overridable queries such as
// NumberOfSections. Types embedding *DataSource call it once after
// construction.
func (d *DataSource) Bind(outer Source) {
	if outer == nil {
		outer = d
	}
	d.self = outer
}

func (d *DataSource) base() *DataSource { return d }

// Loop returns the UI loop the data source runs on.
func (d *DataSource) Loop() *mainloop.Loop { return d.loop }

// Self returns the outermost implementation bound to this core.
func (d *DataSource) Self() Source { return d.self }

// NumberOfSections returns 1. Composite data sources override it.
func (d *DataSource) NumberOfSections() int { return 1 }

// NumberOfItems returns 0. Data sources holding items override it.
func (d *DataSource) NumberOfItems(section int) int { return 0 }

// ChildForGlobalIndexPath maps every path to itself on the receiver.
func (d *DataSource) ChildForGlobalIndexPath(path IndexPath) (Source, IndexPath) {
	return d.self, path
}

// SetHost attaches the data source to a rendering host, making it a root
// data source. A nil host detaches it.
func (d *DataSource) SetHost(host Container) {
	d.loop.AssertCurrent("datasource.SetHost")
	if host == nil {
		d.detach()
		return
	}
	d.parentKind = ParentHost
	d.container = host
	d.parent = nil
}

func (d *DataSource) attach(parent Source, container Container) {
	d.parentKind = ParentComposite
	d.container = container
	d.parent = parent
}

func (d *DataSource) detach() {
	d.parentKind = ParentNone
	d.container = nil
	d.parent = nil
}

// ParentKind reports what the data source is attached to.
func (d *DataSource) ParentKind() ParentKind { return d.parentKind }

// Parent returns the enclosing data source, or nil for a root data source.
func (d *DataSource) Parent() Source { return d.parent }

// IsRoot reports whether the data source is not nested in another data
// source.
func (d *DataSource) IsRoot() bool {
	return d.parentKind != ParentComposite
}

// LoadingState returns the current loading state.
func (d *DataSource) LoadingState() LoadingState { return d.state }

// OnStateChange registers fn to run after every loading state change and
// returns a function that unregisters it.
func (d *DataSource) OnStateChange(fn func(prev, next LoadingState)) func() {
	if fn == nil {
		return func() {}
	}
	l := &stateListener{fn: fn}
	d.listeners = append(d.listeners, l)
	return func() {
		if i := slices.Index(d.listeners, l); i >= 0 {
			d.listeners = slices.Delete(d.listeners, i, i+1)
		}
	}
}

// setLoadingState moves to next if the state machine allows it. Returns
// whether the state changed.
func (d *DataSource) setLoadingState(next LoadingState, op string) bool {
	prev := d.state
	if prev.State == next.State {
		d.state.Err = next.Err
		return false
	}
	if !CanTransition(prev.State, next.State) {
		errors.Report(&errors.Error{
			Op:     op,
			Kind:   errors.KindTransition,
			Source: d.Title,
			Err:    &errors.TransitionError{From: prev.State.String(), To: next.State.String()},
		})
		return false
	}
	d.state = next
	d.didChangeState(prev)
	return true
}

func (d *DataSource) didChangeState(prev LoadingState) {
	d.updatePlaceholder(notifiesVisibility(d.state.State))
	for _, l := range slices.Clone(d.listeners) {
		l.fn(prev, d.state)
	}
}

// LoadContent starts a load. It moves to Loading (first load) or Refreshing
// (reload), tells the container, supersedes any loader still in flight and
// calls handler with a fresh loader. A nil handler falls back to
// d.LoadHandler; with neither, the load completes as Loaded.
func (d *DataSource) LoadContent(handler LoadHandler) {
	d.loop.AssertCurrent("datasource.LoadContent")
	if handler == nil {
		handler = d.LoadHandler
	}

	d.beginLoading()

	var loader *Loader
	loader = newLoader(d.loop, d.limiter, func(state *LoadingState, update func()) {
		if state == nil || !loader.IsCurrent() {
			return
		}
		d.EndLoading(*state, update)
		if d.loader == loader {
			d.loader = nil
		}
		loader.invalidate()
	})
	if d.loader != nil {
		d.loader.invalidate()
	}
	d.loader = loader

	if handler == nil {
		loader.Done()
		return
	}
	d.runHandler(handler, loader)
}

func (d *DataSource) runHandler(handler LoadHandler, loader *Loader) {
	defer errors.RecoverWithCallback("datasource.LoadContent", func(r any) {
		loader.DoneWithError(fmt.Errorf("load handler panicked: %v", r))
	})
	handler(loader)
}

// CurrentLoader returns the loader of the load in flight, or nil.
func (d *DataSource) CurrentLoader() *Loader { return d.loader }

func (d *DataSource) beginLoading() {
	d.setLoadingState(nextLoadingState(d.state.State), "datasource.LoadContent")
	if d.container != nil {
		d.container.WillLoadContent(d)
	}
}

// relaysChildLoads reports whether a child's own load is passed on to the
// container. During d's own load the child loads are part of it.
func (d *DataSource) relaysChildLoads() bool {
	if d.container == nil {
		return false
	}
	return d.state.State != StateLoading && d.state.State != StateRefreshing
}

// EndLoading finishes a load in state. If the placeholder is showing, update
// is queued until the sections become visible; otherwise pending updates and
// then update run in one batch. WhenLoaded callbacks run next, then the
// container is told loading finished.
func (d *DataSource) EndLoading(state LoadingState, update func()) {
	d.loop.AssertCurrent("datasource.EndLoading")
	d.setLoadingState(state, "datasource.EndLoading")

	if d.ShouldDisplayPlaceholder() {
		d.pending.Enqueue(update)
	} else {
		d.performBatch(func() {
			d.pending.Execute()
			if update != nil {
				update()
			}
		}, nil)
	}

	var err error
	if d.state.State == StateError {
		err = d.state.Err
		errors.Report(&errors.Error{
			Op:     "datasource.EndLoading",
			Kind:   errors.KindLoad,
			Source: d.Title,
			Err:    err,
		})
	}
	d.waiters.fire(err)
	if d.container != nil {
		d.container.DidLoadContent(d, err)
	}
}

// WhenLoaded registers fn to run once, after the next load finishes whatever
// its outcome. fn receives the load error, if any. Safe to call from any
// goroutine; fn runs on the UI loop.
func (d *DataSource) WhenLoaded(fn func(err error)) {
	d.waiters.add(fn)
}

// ResetContent returns the data source to StateInitial and abandons the load
// in flight without completing it.
func (d *DataSource) ResetContent() {
	d.loop.AssertCurrent("datasource.ResetContent")
	if d.loader != nil {
		d.loader.invalidate()
		d.loader = nil
	}
	prev := d.state
	d.state = Initial
	if prev.State != StateInitial {
		d.didChangeState(prev)
	}
}

// SetNeedsLoadContent schedules LoadContent(nil) on the UI loop, replacing
// any request scheduled earlier that has not run yet. Safe to call from any
// goroutine.
func (d *DataSource) SetNeedsLoadContent() {
	d.schedMu.Lock()
	defer d.schedMu.Unlock()
	d.scheduled.Stop()
	d.scheduled = d.loop.After(d.debounce, func() {
		d.LoadContent(nil)
	})
}

// CancelNeedsLoadContent drops a request made with SetNeedsLoadContent that
// has not run yet.
func (d *DataSource) CancelNeedsLoadContent() {
	d.schedMu.Lock()
	defer d.schedMu.Unlock()
	d.scheduled.Stop()
	d.scheduled = nil
}

// PerformUpdate runs update as one batch through the container and then
// calls completion. While the data source is loading, the whole call is
// deferred until loading ends. Updates deferred earlier run first.
func (d *DataSource) PerformUpdate(update func(), completion func(bool)) {
	d.loop.AssertCurrent("datasource.PerformUpdate")
	if d.state.State == StateLoading {
		d.pending.Enqueue(func() {
			d.PerformUpdate(update, completion)
		})
		return
	}
	d.performBatch(func() {
		if !d.ShouldDisplayPlaceholder() {
			d.pending.Execute()
		}
		if update != nil {
			update()
		}
	}, completion)
}

func (d *DataSource) performBatch(update func(), completion func(bool)) {
	if d.container != nil {
		d.container.PerformBatchUpdate(d, update, completion)
		return
	}
	update()
	if completion != nil {
		completion(true)
	}
}

// PendingUpdates returns the number of deferred updates.
func (d *DataSource) PendingUpdates() int { return d.pending.Len() }

// ShouldDisplayPlaceholder reports whether a placeholder should hide the
// sections: while loading for the first time, or when loading ended empty or
// failed and matching placeholder content is configured.
func (d *DataSource) ShouldDisplayPlaceholder() bool {
	switch d.state.State {
	case StateLoading:
		return true
	case StateNoContent:
		return !d.EmptyContent.IsEmpty()
	case StateError:
		return !d.ErrorContent.IsEmpty()
	}
	return false
}

// IsObscuredByPlaceholder reports whether this data source or any data
// source enclosing it is showing a placeholder.
func (d *DataSource) IsObscuredByPlaceholder() bool {
	if d.ShouldDisplayPlaceholder() {
		return true
	}
	if d.parentKind == ParentComposite && d.parent != nil {
		return d.parent.base().IsObscuredByPlaceholder()
	}
	return false
}

// PlaceholderContent returns the content matching the current state.
func (d *DataSource) PlaceholderContent() PlaceholderContent {
	switch d.state.State {
	case StateNoContent:
		return d.EmptyContent
	case StateError:
		return d.ErrorContent
	}
	return PlaceholderContent{}
}

// BindPlaceholderView attaches the view the host dequeued for this data
// source's placeholder and brings it up to date.
func (d *DataSource) BindPlaceholderView(v PlaceholderView) {
	d.loop.AssertCurrent("datasource.BindPlaceholderView")
	d.placeholderView = v
	d.updatePlaceholder(false)
}

// PlaceholderView returns the bound placeholder view, if any.
func (d *DataSource) PlaceholderView() PlaceholderView { return d.placeholderView }

// updatePlaceholder brings the placeholder view in line with the loading
// state. With notifyVisibility set and placeholder content configured, the
// container reloads every section so the host re-evaluates whether the
// placeholder is present.
func (d *DataSource) updatePlaceholder(notifyVisibility bool) {
	if v := d.placeholderView; v != nil {
		if d.state.State == StateLoading {
			v.HidePlaceholder()
			v.ShowActivityIndicator(true)
		} else {
			v.ShowActivityIndicator(false)
			if d.ShouldDisplayPlaceholder() {
				v.ShowPlaceholder(d.PlaceholderContent())
			} else {
				v.HidePlaceholder()
			}
		}
	}

	if !notifyVisibility || (d.EmptyContent.IsEmpty() && d.ErrorContent.IsEmpty()) {
		return
	}
	if d.container == nil {
		return
	}
	if sections := Sections(0, d.self.NumberOfSections()); len(sections) > 0 {
		d.container.DidReloadSections(d, sections)
	}
}

// AddHeader registers a header under key. See [HeaderRegistry.Add].
func (d *DataSource) AddHeader(key string, header SupplementaryMetrics) {
	d.headers.Add(key, header)
}

// UpdateHeader replaces or adds the header under key.
func (d *DataSource) UpdateHeader(key string, header SupplementaryMetrics) {
	d.headers.Update(key, header)
}

// RemoveHeader removes the header under key.
func (d *DataSource) RemoveHeader(key string) bool {
	return d.headers.Remove(key)
}

// Header returns the header registered under key.
func (d *DataSource) Header(key string) (SupplementaryMetrics, bool) {
	return d.headers.Header(key)
}

// Headers returns the registered headers in order.
func (d *DataSource) Headers() []SupplementaryMetrics {
	return d.headers.Headers()
}

// SetMetrics overrides the metrics of section, which may be GlobalSection.
func (d *DataSource) SetMetrics(section int, m SectionMetrics) {
	if d.metrics == nil {
		d.metrics = make(map[int]SectionMetrics)
	}
	d.metrics[section] = m.Clone()
}

// Metrics returns the explicit override for section.
func (d *DataSource) Metrics(section int) (SectionMetrics, bool) {
	m, ok := d.metrics[section]
	if !ok {
		return SectionMetrics{}, false
	}
	return m.Clone(), true
}

// SnapshotMetrics returns the effective metrics of section: DefaultMetrics
// with the section's override applied. The global section of a root data
// source lists the registered headers. Section 0 of a nested data source
// starts with its parent's headers followed by its own, and section 0 always
// carries the placeholder flag. Composite and Segmented drop the inherited
// copy from their children's metrics, so each header is listed once.
func (d *DataSource) SnapshotMetrics(section int) SectionMetrics {
	root := d.IsRoot()

	var m SectionMetrics
	if section == GlobalSection {
		m = d.DefaultMetrics.Clone()
		m.Supplementary = nil
		if root {
			m.Supplementary = d.headers.Headers()
		}
	} else {
		m = d.DefaultMetrics.Clone()
	}
	if override, ok := d.metrics[section]; ok {
		m.Apply(override)
	}

	if section == 0 {
		var supplementary []SupplementaryMetrics
		if !root {
			if d.parent != nil {
				supplementary = append(supplementary, d.parent.base().headers.Headers()...)
			}
			supplementary = append(supplementary, d.headers.Headers()...)
		}
		m.Supplementary = append(supplementary, m.Supplementary...)
		m.HasPlaceholder = d.ShouldDisplayPlaceholder()
		if m.HasPlaceholder && m.PlaceholderHeight == 0 {
			m.PlaceholderHeight = d.PlaceholderContent().EstimatedHeight(m.PlaceholderWidth)
		}
	}
	return m
}

// childMetrics returns child's metrics for its local section without the
// headers child inherits from d, which d already lists in its own global
// section or section 0.
func (d *DataSource) childMetrics(child Source, section int) SectionMetrics {
	m := child.SnapshotMetrics(section)
	if section != 0 {
		return m
	}
	if n := d.headers.Len(); n > 0 && len(m.Supplementary) >= n {
		m.Supplementary = m.Supplementary[n:]
	}
	return m
}

// RegisterReusableViews registers a factory for every supplementary view of
// the global section and of each section, plus the placeholder view.
func (d *DataSource) RegisterReusableViews(r Registrar) {
	registerSection(r, d.self.SnapshotMetrics(GlobalSection))
	for section := range d.self.NumberOfSections() {
		registerSection(r, d.self.SnapshotMetrics(section))
	}
	r.RegisterSupplementaryView(KindPlaceholder, PlaceholderReuseIdentifier, d.PlaceholderFactory)
}

func registerSection(r Registrar, m SectionMetrics) {
	for _, s := range m.Supplementary {
		r.RegisterSupplementaryView(s.Kind, s.ReuseID(), s.Factory)
	}
}
