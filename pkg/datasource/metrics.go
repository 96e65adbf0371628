package datasource

import "slices"

// Supplementary view kinds.
const (
	KindHeader      = "header"
	KindFooter      = "footer"
	KindPlaceholder = "placeholder"
)

// PlaceholderReuseIdentifier is the reuse identifier every data source
// registers for its placeholder view.
const PlaceholderReuseIdentifier = "datasource.placeholder"

// ViewFactory creates a view for the rendering layer. The concrete type is
// whatever the host's view system uses.
type ViewFactory func() any

// Registrar is the part of the rendering host that records view factories.
type Registrar interface {
	RegisterSupplementaryView(kind, reuseIdentifier string, factory ViewFactory)
}

// SupplementaryMetrics describes one supplementary view of a section.
type SupplementaryMetrics struct {
	// Kind is KindHeader, KindFooter or a host-defined kind.
	Kind string
	// ViewType names the view type the factory produces.
	ViewType string
	// ReuseIdentifier defaults to ViewType when empty.
	ReuseIdentifier string
	// Height is the preferred height; zero lets the layout decide.
	Height float64
	// Factory creates the view.
	Factory ViewFactory
}

// ReuseID returns the reuse identifier the view is registered under.
func (s SupplementaryMetrics) ReuseID() string {
	if s.ReuseIdentifier != "" {
		return s.ReuseIdentifier
	}
	return s.ViewType
}

// Insets are edge offsets in logical pixels.
type Insets struct {
	Top, Left, Bottom, Right float64
}

// SectionMetrics configures a section's supplementary views and layout hints.
// Zero-valued fields are unset and inherit from the metrics they are applied
// onto.
type SectionMetrics struct {
	// Supplementary lists header, footer and custom views in display order.
	Supplementary []SupplementaryMetrics
	// HasPlaceholder tells the layout to reserve space for a placeholder.
	HasPlaceholder bool
	// PlaceholderHeight is the space to reserve. When zero and a placeholder
	// is shown, it is estimated from the placeholder content.
	PlaceholderHeight float64
	// PlaceholderWidth is the width used to estimate PlaceholderHeight.
	PlaceholderWidth float64

	RowHeight          float64
	EstimatedRowHeight float64
	NumberOfColumns    int
	Padding            Insets
	SeparatorInsets    Insets
	BackgroundColor    uint32
	ShowsRowSeparator  *bool
}

// Clone returns a copy that shares no slices with m.
func (m SectionMetrics) Clone() SectionMetrics {
	m.Supplementary = slices.Clone(m.Supplementary)
	if m.ShowsRowSeparator != nil {
		v := *m.ShowsRowSeparator
		m.ShowsRowSeparator = &v
	}
	return m
}

// Apply merges other into m: every field set in other overrides m, and
// other's supplementary views are appended after m's.
func (m *SectionMetrics) Apply(other SectionMetrics) {
	m.Supplementary = append(m.Supplementary, other.Supplementary...)
	if other.HasPlaceholder {
		m.HasPlaceholder = true
	}
	if other.PlaceholderHeight != 0 {
		m.PlaceholderHeight = other.PlaceholderHeight
	}
	if other.PlaceholderWidth != 0 {
		m.PlaceholderWidth = other.PlaceholderWidth
	}
	if other.RowHeight != 0 {
		m.RowHeight = other.RowHeight
	}
	if other.EstimatedRowHeight != 0 {
		m.EstimatedRowHeight = other.EstimatedRowHeight
	}
	if other.NumberOfColumns != 0 {
		m.NumberOfColumns = other.NumberOfColumns
	}
	if other.Padding != (Insets{}) {
		m.Padding = other.Padding
	}
	if other.SeparatorInsets != (Insets{}) {
		m.SeparatorInsets = other.SeparatorInsets
	}
	if other.BackgroundColor != 0 {
		m.BackgroundColor = other.BackgroundColor
	}
	if other.ShowsRowSeparator != nil {
		v := *other.ShowsRowSeparator
		m.ShowsRowSeparator = &v
	}
}

// Headers returns the supplementary views of kind KindHeader.
func (m SectionMetrics) Headers() []SupplementaryMetrics {
	return m.ofKind(KindHeader)
}

// Footers returns the supplementary views of kind KindFooter.
func (m SectionMetrics) Footers() []SupplementaryMetrics {
	return m.ofKind(KindFooter)
}

func (m SectionMetrics) ofKind(kind string) []SupplementaryMetrics {
	var out []SupplementaryMetrics
	for _, s := range m.Supplementary {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// HeaderRegistry is an ordered set of headers, optionally addressable by key.
// Headers added without a key can only be reached by iteration.
type HeaderRegistry struct {
	keys    []string
	headers []SupplementaryMetrics
	index   map[string]int
}

// Add appends a header. A header already registered under key is replaced
// and moves to the end.
func (r *HeaderRegistry) Add(key string, header SupplementaryMetrics) {
	if header.Kind == "" {
		header.Kind = KindHeader
	}
	if key != "" {
		r.Remove(key)
	}
	r.keys = append(r.keys, key)
	r.headers = append(r.headers, header)
	if key != "" {
		if r.index == nil {
			r.index = make(map[string]int)
		}
		r.index[key] = len(r.headers) - 1
	}
}

// Update replaces the header registered under key in place, or adds it if
// the key is unknown.
func (r *HeaderRegistry) Update(key string, header SupplementaryMetrics) {
	if header.Kind == "" {
		header.Kind = KindHeader
	}
	if i, ok := r.index[key]; ok && key != "" {
		r.headers[i] = header
		return
	}
	r.Add(key, header)
}

// Remove deletes the header registered under key. Returns false if there
// was none.
func (r *HeaderRegistry) Remove(key string) bool {
	i, ok := r.index[key]
	if !ok || key == "" {
		return false
	}
	r.keys = slices.Delete(r.keys, i, i+1)
	r.headers = slices.Delete(r.headers, i, i+1)
	delete(r.index, key)
	for j := i; j < len(r.keys); j++ {
		if k := r.keys[j]; k != "" {
			r.index[k] = j
		}
	}
	return true
}

// Header returns the header registered under key.
func (r *HeaderRegistry) Header(key string) (SupplementaryMetrics, bool) {
	i, ok := r.index[key]
	if !ok || key == "" {
		return SupplementaryMetrics{}, false
	}
	return r.headers[i], true
}

// Headers returns all headers in registration order.
func (r *HeaderRegistry) Headers() []SupplementaryMetrics {
	return slices.Clone(r.headers)
}

// Len returns the number of registered headers.
func (r *HeaderRegistry) Len() int {
	return len(r.headers)
}
