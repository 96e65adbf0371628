package dstest

import (
	"sync"

	"github.com/go-drift/datasource/pkg/datasource"
)

// PlaceholderView records the calls a data source makes on its placeholder.
type PlaceholderView struct {
	mu sync.Mutex

	// Calls lists the calls in order: "indicator:on", "indicator:off",
	// "show:<title>" and "hide".
	Calls []string

	Indicator bool
	Visible   bool
	Content   datasource.PlaceholderContent
}

var _ datasource.PlaceholderView = (*PlaceholderView)(nil)

func (v *PlaceholderView) ShowActivityIndicator(show bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Indicator = show
	if show {
		v.Calls = append(v.Calls, "indicator:on")
	} else {
		v.Calls = append(v.Calls, "indicator:off")
	}
}

func (v *PlaceholderView) ShowPlaceholder(content datasource.PlaceholderContent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Visible = true
	v.Content = content
	v.Calls = append(v.Calls, "show:"+content.Title)
}

func (v *PlaceholderView) HidePlaceholder() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Visible = false
	v.Content = datasource.PlaceholderContent{}
	v.Calls = append(v.Calls, "hide")
}

// Registration is one supplementary view registration.
type Registration struct {
	Kind            string
	ReuseIdentifier string
	HasFactory      bool
}

// Registrar records supplementary view registrations.
type Registrar struct {
	Registrations []Registration
}

var _ datasource.Registrar = (*Registrar)(nil)

func (r *Registrar) RegisterSupplementaryView(kind, reuseIdentifier string, factory datasource.ViewFactory) {
	r.Registrations = append(r.Registrations, Registration{
		Kind:            kind,
		ReuseIdentifier: reuseIdentifier,
		HasFactory:      factory != nil,
	})
}

// Has reports whether kind was registered under reuseIdentifier.
func (r *Registrar) Has(kind, reuseIdentifier string) bool {
	for _, reg := range r.Registrations {
		if reg.Kind == kind && reg.ReuseIdentifier == reuseIdentifier {
			return true
		}
	}
	return false
}
