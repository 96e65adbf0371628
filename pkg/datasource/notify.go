package datasource

// Change notifications. Each one asserts the UI loop and forwards to the
// container. While the placeholder hides the sections, structural changes are
// queued with the pending updates and replayed, in order, once the sections
// are visible again.

// NotifyItemsInserted reports items inserted at paths.
func (d *DataSource) NotifyItemsInserted(paths []IndexPath) {
	d.loop.AssertCurrent("datasource.NotifyItemsInserted")
	if d.deferred(func() { d.NotifyItemsInserted(paths) }) {
		return
	}
	if d.container != nil {
		d.container.DidInsertItems(d, paths)
	}
}

// NotifyItemsRemoved reports items removed from paths.
func (d *DataSource) NotifyItemsRemoved(paths []IndexPath) {
	d.loop.AssertCurrent("datasource.NotifyItemsRemoved")
	if d.deferred(func() { d.NotifyItemsRemoved(paths) }) {
		return
	}
	if d.container != nil {
		d.container.DidRemoveItems(d, paths)
	}
}

// NotifyItemsReloaded reports items at paths whose content changed.
func (d *DataSource) NotifyItemsReloaded(paths []IndexPath) {
	d.loop.AssertCurrent("datasource.NotifyItemsReloaded")
	if d.deferred(func() { d.NotifyItemsReloaded(paths) }) {
		return
	}
	if d.container != nil {
		d.container.DidReloadItems(d, paths)
	}
}

// NotifyItemMoved reports an item moved from one path to another.
func (d *DataSource) NotifyItemMoved(from, to IndexPath) {
	d.loop.AssertCurrent("datasource.NotifyItemMoved")
	if d.deferred(func() { d.NotifyItemMoved(from, to) }) {
		return
	}
	if d.container != nil {
		d.container.DidMoveItem(d, from, to)
	}
}

// NotifySectionsInserted reports sections about to be inserted.
func (d *DataSource) NotifySectionsInserted(sections []int, dir Direction) {
	d.loop.AssertCurrent("datasource.NotifySectionsInserted")
	if d.deferred(func() { d.NotifySectionsInserted(sections, dir) }) {
		return
	}
	if d.container != nil {
		d.container.WillInsertSections(d, sections, dir)
	}
}

// NotifySectionsRemoved reports sections about to be removed.
func (d *DataSource) NotifySectionsRemoved(sections []int, dir Direction) {
	d.loop.AssertCurrent("datasource.NotifySectionsRemoved")
	if d.deferred(func() { d.NotifySectionsRemoved(sections, dir) }) {
		return
	}
	if d.container != nil {
		d.container.WillRemoveSections(d, sections, dir)
	}
}

// NotifySectionMoved reports a section about to move.
func (d *DataSource) NotifySectionMoved(from, to int, dir Direction) {
	d.loop.AssertCurrent("datasource.NotifySectionMoved")
	if d.deferred(func() { d.NotifySectionMoved(from, to, dir) }) {
		return
	}
	if d.container != nil {
		d.container.WillMoveSection(d, from, to, dir)
	}
}

// NotifySectionsReloaded reports sections whose content changed.
func (d *DataSource) NotifySectionsReloaded(sections []int) {
	d.loop.AssertCurrent("datasource.NotifySectionsReloaded")
	if d.deferred(func() { d.NotifySectionsReloaded(sections) }) {
		return
	}
	if d.container != nil {
		d.container.DidReloadSections(d, sections)
	}
}

// NotifyDataReloaded reports that everything changed.
func (d *DataSource) NotifyDataReloaded() {
	d.loop.AssertCurrent("datasource.NotifyDataReloaded")
	if d.deferred(d.NotifyDataReloaded) {
		return
	}
	if d.container != nil {
		d.container.DidReloadData(d)
	}
}

// NotifyGlobalSectionReloaded reports a change to the global section, such
// as an added or removed header.
func (d *DataSource) NotifyGlobalSectionReloaded() {
	d.loop.AssertCurrent("datasource.NotifyGlobalSectionReloaded")
	if d.container != nil {
		d.container.DidReloadGlobalSection(d)
	}
}

func (d *DataSource) deferred(replay func()) bool {
	if !d.ShouldDisplayPlaceholder() {
		return false
	}
	d.pending.Enqueue(replay)
	return true
}
