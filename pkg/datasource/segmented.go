package datasource

import "slices"

// Segmented shows one of several children at a time, like the pages behind
// a segmented control. Sections and notifications follow the selected child;
// notifications from the others are dropped.
type Segmented struct {
	*DataSource

	children []Source
	selected int
}

// NewSegmented creates a segmented data source selecting the first child.
func NewSegmented(opts Options, children ...Source) *Segmented {
	s := &Segmented{
		DataSource: newDataSource(opts),
		selected:   -1,
	}
	s.Bind(s)
	if s.LoadHandler == nil {
		s.LoadHandler = s.loadSelected
	}
	for _, child := range children {
		s.children = append(s.children, child)
		child.base().attach(s, s)
	}
	if len(s.children) > 0 {
		s.selected = 0
	}
	return s
}

// Children returns the children in order.
func (s *Segmented) Children() []Source {
	return slices.Clone(s.children)
}

// Selected returns the selected child, or nil when there are no children.
func (s *Segmented) Selected() Source {
	if s.selected < 0 {
		return nil
	}
	return s.children[s.selected]
}

// SelectedIndex returns the index of the selected child, or -1.
func (s *Segmented) SelectedIndex() int { return s.selected }

// Add appends child. The first child added becomes selected.
func (s *Segmented) Add(child Source) {
	s.loop.AssertCurrent("datasource.Segmented.Add")
	if slices.Contains(s.children, child) {
		return
	}
	s.children = append(s.children, child)
	child.base().attach(s, s)
	if s.selected < 0 {
		s.SetSelected(len(s.children)-1, false)
	}
}

// SetSelected switches to the child at index. The old child's sections are
// removed and the new child's inserted in one batch; when animated the
// direction hint points the way the selection moved. A child that has never
// loaded is asked to load.
func (s *Segmented) SetSelected(index int, animated bool) {
	s.loop.AssertCurrent("datasource.Segmented.SetSelected")
	if index < 0 || index >= len(s.children) || index == s.selected {
		return
	}

	dir := DirectionNone
	if animated {
		dir = DirectionLeft
		if index > s.selected {
			dir = DirectionRight
		}
	}

	oldCount := s.NumberOfSections()
	s.selected = index
	newCount := s.NumberOfSections()

	s.performBatch(func() {
		if oldCount > 0 {
			s.NotifySectionsRemoved(Sections(0, oldCount), dir)
		}
		if newCount > 0 {
			s.NotifySectionsInserted(Sections(0, newCount), dir)
		}
	}, nil)

	if child := s.children[index].base(); child.state.State == StateInitial {
		child.SetNeedsLoadContent()
	}
}

// SetSelectedSource selects child if it is one of the children.
func (s *Segmented) SetSelectedSource(child Source, animated bool) {
	if i := slices.Index(s.children, child); i >= 0 {
		s.SetSelected(i, animated)
	}
}

// NumberOfSections returns the selected child's section count.
func (s *Segmented) NumberOfSections() int {
	if sel := s.Selected(); sel != nil {
		return sel.NumberOfSections()
	}
	return 0
}

// NumberOfItems returns the selected child's item count for section.
func (s *Segmented) NumberOfItems(section int) int {
	if sel := s.Selected(); sel != nil {
		return sel.NumberOfItems(section)
	}
	return 0
}

// ChildForGlobalIndexPath resolves path within the selected child.
func (s *Segmented) ChildForGlobalIndexPath(path IndexPath) (Source, IndexPath) {
	if sel := s.Selected(); sel != nil {
		return sel.ChildForGlobalIndexPath(path)
	}
	return s, path
}

// SnapshotMetrics applies the selected child's metrics onto the segmented
// data source's own.
func (s *Segmented) SnapshotMetrics(section int) SectionMetrics {
	metrics := s.DataSource.SnapshotMetrics(section)
	if section == GlobalSection {
		return metrics
	}
	if sel := s.Selected(); sel != nil {
		metrics.Apply(s.childMetrics(sel, section))
	}
	return metrics
}

// RegisterReusableViews registers the views of every child, selected or not,
// so switching never meets an unregistered view.
func (s *Segmented) RegisterReusableViews(r Registrar) {
	s.DataSource.RegisterReusableViews(r)
	for _, child := range s.children {
		child.RegisterReusableViews(r)
	}
}

// loadSelected loads the selected child and completes with its outcome.
func (s *Segmented) loadSelected(l *Loader) {
	sel := s.Selected()
	if sel == nil {
		l.UpdateWithNoContent(nil)
		return
	}
	core := sel.base()
	core.WhenLoaded(func(err error) {
		l.Report(outcomeOf(core.state))
	})
	core.LoadContent(nil)
}

func (s *Segmented) forwards(src *DataSource) bool {
	sel := s.Selected()
	return sel != nil && sel.base() == src
}

// Container implementation.

func (s *Segmented) WillLoadContent(src *DataSource) {
	if s.forwards(src) && s.relaysChildLoads() {
		s.container.WillLoadContent(s.DataSource)
	}
}

func (s *Segmented) DidLoadContent(src *DataSource, err error) {
	if s.forwards(src) && s.relaysChildLoads() {
		s.container.DidLoadContent(s.DataSource, err)
	}
}

func (s *Segmented) DidInsertItems(src *DataSource, paths []IndexPath) {
	if s.forwards(src) {
		s.NotifyItemsInserted(paths)
	}
}

func (s *Segmented) DidRemoveItems(src *DataSource, paths []IndexPath) {
	if s.forwards(src) {
		s.NotifyItemsRemoved(paths)
	}
}

func (s *Segmented) DidReloadItems(src *DataSource, paths []IndexPath) {
	if s.forwards(src) {
		s.NotifyItemsReloaded(paths)
	}
}

func (s *Segmented) DidMoveItem(src *DataSource, from, to IndexPath) {
	if s.forwards(src) {
		s.NotifyItemMoved(from, to)
	}
}

func (s *Segmented) WillInsertSections(src *DataSource, sections []int, dir Direction) {
	if s.forwards(src) {
		s.NotifySectionsInserted(sections, dir)
	}
}

func (s *Segmented) WillRemoveSections(src *DataSource, sections []int, dir Direction) {
	if s.forwards(src) {
		s.NotifySectionsRemoved(sections, dir)
	}
}

func (s *Segmented) WillMoveSection(src *DataSource, from, to int, dir Direction) {
	if s.forwards(src) {
		s.NotifySectionMoved(from, to, dir)
	}
}

func (s *Segmented) DidReloadSections(src *DataSource, sections []int) {
	if s.forwards(src) {
		s.NotifySectionsReloaded(sections)
	}
}

func (s *Segmented) DidReloadData(src *DataSource) {
	if s.forwards(src) {
		s.NotifyDataReloaded()
	}
}

func (s *Segmented) DidReloadGlobalSection(src *DataSource) {
	if s.forwards(src) && s.NumberOfSections() > 0 {
		s.NotifySectionsReloaded([]int{0})
	}
}

func (s *Segmented) PerformBatchUpdate(src *DataSource, update func(), completion func(bool)) {
	if !s.forwards(src) {
		update()
		if completion != nil {
			completion(true)
		}
		return
	}
	s.performBatch(update, completion)
}
