package datasource

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PlaceholderContent is the copy shown instead of a data source's sections
// when it has no content or failed to load.
type PlaceholderContent struct {
	Title   string
	Message string
	// Image names an asset shown above the title.
	Image string
}

// IsEmpty reports whether there is nothing to show.
func (c PlaceholderContent) IsEmpty() bool {
	return c.Title == "" && c.Message == "" && c.Image == ""
}

// PlaceholderView is the view that obscures a data source's sections. The
// host dequeues it for the placeholder supplementary kind and binds it with
// [DataSource.BindPlaceholderView].
type PlaceholderView interface {
	// ShowActivityIndicator toggles the loading spinner.
	ShowActivityIndicator(show bool)
	// ShowPlaceholder shows the titled panel for content.
	ShowPlaceholder(content PlaceholderContent)
	// HidePlaceholder hides the titled panel.
	HidePlaceholder()
}

const (
	placeholderPadding     = 20
	placeholderImageHeight = 96
	placeholderLineSpacing = 4
)

// EstimatedHeight estimates the height the placeholder panel needs at width,
// wrapping title and message with a fixed-width face. A width of zero or less
// assumes no wrapping.
func (c PlaceholderContent) EstimatedHeight(width float64) float64 {
	if c.IsEmpty() {
		return 0
	}
	face := basicfont.Face7x13
	lineHeight := float64(face.Metrics().Height.Ceil()) + placeholderLineSpacing

	inner := width - 2*placeholderPadding
	lines := wrappedLines(face, c.Title, inner) + wrappedLines(face, c.Message, inner)

	h := float64(lines)*lineHeight + 2*placeholderPadding
	if c.Image != "" {
		h += placeholderImageHeight
	}
	return h
}

// wrappedLines counts the lines text occupies when greedily word-wrapped to
// width.
func wrappedLines(face font.Face, text string, width float64) int {
	if text == "" {
		return 0
	}
	paragraphs := strings.Split(text, "\n")
	if width <= 0 {
		return len(paragraphs)
	}
	limit := fixed.I(int(width))
	lines := 0
	for _, p := range paragraphs {
		words := strings.Fields(p)
		lines++
		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if line != "" && font.MeasureString(face, candidate) > limit {
				lines++
				line = w
				continue
			}
			line = candidate
		}
	}
	return lines
}
