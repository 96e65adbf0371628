package datasource

import "slices"

// sectionMapping places one child's sections in the composite's global
// section space.
type sectionMapping struct {
	child Source
	start int
	count int
}

// Composite stacks the sections of its children one after another. It is
// the container of its children and translates their notifications into
// its own section space before passing them on.
type Composite struct {
	*DataSource

	mappings []*sectionMapping
	byCore   map[*DataSource]*sectionMapping
}

// NewComposite creates a composite of children, in order.
func NewComposite(opts Options, children ...Source) *Composite {
	c := &Composite{
		DataSource: newDataSource(opts),
		byCore:     make(map[*DataSource]*sectionMapping),
	}
	c.Bind(c)
	if c.LoadHandler == nil {
		c.LoadHandler = c.loadChildren
	}
	for _, child := range children {
		c.addChild(child)
	}
	return c
}

// Children returns the children in order.
func (c *Composite) Children() []Source {
	out := make([]Source, len(c.mappings))
	for i, m := range c.mappings {
		out[i] = m.child
	}
	return out
}

// Add appends child and reports its sections as inserted.
func (c *Composite) Add(child Source) {
	c.loop.AssertCurrent("datasource.Composite.Add")
	if _, ok := c.byCore[child.base()]; ok {
		return
	}
	m := c.addChild(child)
	if m.count > 0 {
		c.NotifySectionsInserted(Sections(m.start, m.count), DirectionNone)
	}
}

// Remove detaches child and reports its sections as removed.
func (c *Composite) Remove(child Source) {
	c.loop.AssertCurrent("datasource.Composite.Remove")
	m, ok := c.byCore[child.base()]
	if !ok {
		return
	}
	removed := Sections(m.start, m.count)
	i := slices.Index(c.mappings, m)
	c.mappings = slices.Delete(c.mappings, i, i+1)
	delete(c.byCore, child.base())
	child.base().detach()
	c.updateMappings()
	if len(removed) > 0 {
		c.NotifySectionsRemoved(removed, DirectionNone)
	}
}

func (c *Composite) addChild(child Source) *sectionMapping {
	m := &sectionMapping{child: child}
	c.mappings = append(c.mappings, m)
	c.byCore[child.base()] = m
	child.base().attach(c, c)
	c.updateMappings()
	return m
}

func (c *Composite) updateMappings() {
	start := 0
	for _, m := range c.mappings {
		m.start = start
		m.count = m.child.NumberOfSections()
		start += m.count
	}
}

// mappingForSection returns the mapping owning a global section.
func (c *Composite) mappingForSection(section int) *sectionMapping {
	for _, m := range c.mappings {
		if section >= m.start && section < m.start+m.count {
			return m
		}
	}
	return nil
}

// NumberOfSections returns the total of the children's sections.
func (c *Composite) NumberOfSections() int {
	n := 0
	for _, m := range c.mappings {
		n += m.child.NumberOfSections()
	}
	return n
}

// NumberOfItems returns the item count of the child section mapped to
// section.
func (c *Composite) NumberOfItems(section int) int {
	m := c.mappingForSection(section)
	if m == nil {
		return 0
	}
	return m.child.NumberOfItems(section - m.start)
}

// ChildForGlobalIndexPath resolves the leaf owning path, descending through
// nested composites.
func (c *Composite) ChildForGlobalIndexPath(path IndexPath) (Source, IndexPath) {
	m := c.mappingForSection(path.Section)
	if m == nil {
		return c, path
	}
	return m.child.ChildForGlobalIndexPath(IndexPath{Section: path.Section - m.start, Item: path.Item})
}

// LocalSection translates a global section into the owning child's section.
func (c *Composite) LocalSection(section int) (Source, int, bool) {
	m := c.mappingForSection(section)
	if m == nil {
		return nil, 0, false
	}
	return m.child, section - m.start, true
}

// SnapshotMetrics applies the owning child's metrics for the mapped section
// onto the composite's own metrics for section.
func (c *Composite) SnapshotMetrics(section int) SectionMetrics {
	metrics := c.DataSource.SnapshotMetrics(section)
	if section == GlobalSection {
		return metrics
	}
	if m := c.mappingForSection(section); m != nil {
		metrics.Apply(c.childMetrics(m.child, section-m.start))
	}
	return metrics
}

// RegisterReusableViews registers the composite's views and those of every
// child.
func (c *Composite) RegisterReusableViews(r Registrar) {
	c.DataSource.RegisterReusableViews(r)
	for _, m := range c.mappings {
		m.child.RegisterReusableViews(r)
	}
}

// AggregateLoadingState combines the children's states: any child loading
// makes the composite loading, then refreshing, then error. The composite
// has no content only if every child has none.
func (c *Composite) AggregateLoadingState() LoadingState {
	return aggregate(c.Children())
}

func aggregate(children []Source) LoadingState {
	if len(children) == 0 {
		return NoContent
	}
	var counts [StateError + 1]int
	var firstErr error
	for _, child := range children {
		st := child.base().state
		counts[st.State]++
		if st.State == StateError && firstErr == nil {
			firstErr = st.Err
		}
	}
	switch {
	case counts[StateLoading] > 0:
		return Loading
	case counts[StateRefreshing] > 0:
		return Refreshing
	case counts[StateError] > 0 && counts[StateLoaded] == 0:
		return Failed(firstErr)
	case counts[StateNoContent] == len(children):
		return NoContent
	case counts[StateLoaded] > 0:
		return Loaded
	}
	return Initial
}

// loadChildren loads every child and completes once all of them have.
func (c *Composite) loadChildren(l *Loader) {
	children := c.Children()
	if len(children) == 0 {
		l.UpdateWithNoContent(nil)
		return
	}
	remaining := len(children)
	for _, child := range children {
		core := child.base()
		core.WhenLoaded(func(error) {
			remaining--
			if remaining > 0 {
				return
			}
			l.Report(outcomeOf(aggregate(children)))
		})
		core.LoadContent(nil)
	}
}

func outcomeOf(st LoadingState) Outcome {
	switch st.State {
	case StateError:
		return Outcome{Err: st.Err}
	case StateNoContent:
		return Outcome{NoContent: true}
	}
	return Outcome{}
}

// Container implementation: children report in their own coordinates. A
// child loading outside a load of the composite is reported as the
// composite loading.

func (c *Composite) WillLoadContent(src *DataSource) {
	if c.byCore[src] != nil && c.relaysChildLoads() {
		c.container.WillLoadContent(c.DataSource)
	}
}

func (c *Composite) DidLoadContent(src *DataSource, err error) {
	if c.byCore[src] != nil && c.relaysChildLoads() {
		c.container.DidLoadContent(c.DataSource, err)
	}
}

func (c *Composite) DidInsertItems(src *DataSource, paths []IndexPath) {
	if m := c.byCore[src]; m != nil {
		c.NotifyItemsInserted(globalPaths(m, paths))
	}
}

func (c *Composite) DidRemoveItems(src *DataSource, paths []IndexPath) {
	if m := c.byCore[src]; m != nil {
		c.NotifyItemsRemoved(globalPaths(m, paths))
	}
}

func (c *Composite) DidReloadItems(src *DataSource, paths []IndexPath) {
	if m := c.byCore[src]; m != nil {
		c.NotifyItemsReloaded(globalPaths(m, paths))
	}
}

func (c *Composite) DidMoveItem(src *DataSource, from, to IndexPath) {
	if m := c.byCore[src]; m != nil {
		c.NotifyItemMoved(globalPath(m, from), globalPath(m, to))
	}
}

func (c *Composite) WillInsertSections(src *DataSource, sections []int, dir Direction) {
	if m := c.byCore[src]; m != nil {
		c.updateMappings()
		c.NotifySectionsInserted(globalSections(m, sections), dir)
	}
}

func (c *Composite) WillRemoveSections(src *DataSource, sections []int, dir Direction) {
	if m := c.byCore[src]; m != nil {
		c.updateMappings()
		c.NotifySectionsRemoved(globalSections(m, sections), dir)
	}
}

func (c *Composite) WillMoveSection(src *DataSource, from, to int, dir Direction) {
	if m := c.byCore[src]; m != nil {
		c.NotifySectionMoved(m.start+from, m.start+to, dir)
	}
}

func (c *Composite) DidReloadSections(src *DataSource, sections []int) {
	if m := c.byCore[src]; m != nil {
		c.NotifySectionsReloaded(globalSections(m, sections))
	}
}

func (c *Composite) DidReloadData(src *DataSource) {
	if c.byCore[src] != nil {
		c.updateMappings()
		c.NotifyDataReloaded()
	}
}

func (c *Composite) DidReloadGlobalSection(src *DataSource) {
	if m := c.byCore[src]; m != nil && m.count > 0 {
		c.NotifySectionsReloaded([]int{m.start})
	}
}

func (c *Composite) PerformBatchUpdate(src *DataSource, update func(), completion func(bool)) {
	c.performBatch(update, completion)
}

func globalPath(m *sectionMapping, p IndexPath) IndexPath {
	return IndexPath{Section: m.start + p.Section, Item: p.Item}
}

func globalPaths(m *sectionMapping, paths []IndexPath) []IndexPath {
	out := make([]IndexPath, len(paths))
	for i, p := range paths {
		out[i] = globalPath(m, p)
	}
	return out
}

func globalSections(m *sectionMapping, sections []int) []int {
	out := make([]int, len(sections))
	for i, s := range sections {
		out[i] = m.start + s
	}
	return out
}
