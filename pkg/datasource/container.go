package datasource

// GlobalSection identifies the pseudo-section holding headers and state that
// apply to a whole data source rather than to one of its sections.
const GlobalSection = -1

// IndexPath locates an item within a data source.
type IndexPath struct {
	Section int
	Item    int
}

// Path returns the IndexPath for item in section.
func Path(section, item int) IndexPath {
	return IndexPath{Section: section, Item: item}
}

// Sections returns the section indexes [start, start+n).
func Sections(start, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = start + i
	}
	return out
}

// Direction is an animation hint for section insertions, removals and moves.
// Containers pass it through to the rendering layer unchanged.
type Direction uint8

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// Container receives change notifications from a data source. A composite
// data source is the container of its children; the rendering host is the
// container of the root data source.
//
// All methods are called on the UI loop.
type Container interface {
	WillLoadContent(src *DataSource)
	// DidLoadContent reports the end of a load. err is non-nil when the load
	// ended in StateError.
	DidLoadContent(src *DataSource, err error)

	DidInsertItems(src *DataSource, paths []IndexPath)
	DidRemoveItems(src *DataSource, paths []IndexPath)
	DidReloadItems(src *DataSource, paths []IndexPath)
	DidMoveItem(src *DataSource, from, to IndexPath)

	WillInsertSections(src *DataSource, sections []int, dir Direction)
	WillRemoveSections(src *DataSource, sections []int, dir Direction)
	WillMoveSection(src *DataSource, from, to int, dir Direction)
	DidReloadSections(src *DataSource, sections []int)
	DidReloadData(src *DataSource)
	DidReloadGlobalSection(src *DataSource)

	// PerformBatchUpdate runs update as one visual transaction and then calls
	// completion, if non-nil, with true on success.
	PerformBatchUpdate(src *DataSource, update func(), completion func(bool))
}

// ParentKind records what a data source is attached to.
type ParentKind uint8

const (
	// ParentNone means the data source is detached.
	ParentNone ParentKind = iota
	// ParentComposite means the data source is nested in another data source.
	ParentComposite
	// ParentHost means the data source is attached to a rendering host.
	ParentHost
)

func (k ParentKind) String() string {
	switch k {
	case ParentComposite:
		return "composite"
	case ParentHost:
		return "host"
	default:
		return "none"
	}
}
