package dstest

import (
	"fmt"
	"sync"

	"github.com/go-drift/datasource/pkg/datasource"
)

// Operation names recorded by Host.
const (
	OpWillLoadContent     = "will-load-content"
	OpDidLoadContent      = "did-load-content"
	OpInsertItems         = "insert-items"
	OpRemoveItems         = "remove-items"
	OpReloadItems         = "reload-items"
	OpMoveItem            = "move-item"
	OpInsertSections      = "insert-sections"
	OpRemoveSections      = "remove-sections"
	OpMoveSection         = "move-section"
	OpReloadSections      = "reload-sections"
	OpReloadData          = "reload-data"
	OpReloadGlobalSection = "reload-global-section"
	OpBatchBegin          = "batch-begin"
	OpBatchEnd            = "batch-end"
)

// Event is one notification received by Host.
type Event struct {
	Op       string
	Source   *datasource.DataSource
	Paths    []datasource.IndexPath
	Sections []int
	From     datasource.IndexPath
	To       datasource.IndexPath
	Dir      datasource.Direction
	Err      error
}

func (e Event) String() string {
	switch e.Op {
	case OpInsertItems, OpRemoveItems, OpReloadItems:
		return fmt.Sprintf("%s %v", e.Op, e.Paths)
	case OpMoveItem:
		return fmt.Sprintf("%s %v->%v", e.Op, e.From, e.To)
	case OpInsertSections, OpRemoveSections, OpReloadSections:
		if e.Dir != datasource.DirectionNone {
			return fmt.Sprintf("%s %v %s", e.Op, e.Sections, e.Dir)
		}
		return fmt.Sprintf("%s %v", e.Op, e.Sections)
	case OpMoveSection:
		return fmt.Sprintf("%s %d->%d", e.Op, e.From.Section, e.To.Section)
	case OpDidLoadContent:
		if e.Err != nil {
			return fmt.Sprintf("%s err=%v", e.Op, e.Err)
		}
	}
	return e.Op
}

// Host is a recording [datasource.Container] standing in for the rendering
// layer. Batch updates run synchronously and always complete with true.
type Host struct {
	mu     sync.Mutex
	events []Event
}

var _ datasource.Container = (*Host)(nil)

// NewHost creates an empty recording host.
func NewHost() *Host {
	return &Host{}
}

func (h *Host) record(e Event) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (h *Host) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}

// Ops returns the recorded operation names in order.
func (h *Host) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	for i, e := range h.events {
		out[i] = e.Op
	}
	return out
}

// Log returns the recorded events formatted with Event.String, skipping
// batch markers.
func (h *Host) Log() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		if e.Op == OpBatchBegin || e.Op == OpBatchEnd {
			continue
		}
		out = append(out, e.String())
	}
	return out
}

// Count returns how many events of op were recorded.
func (h *Host) Count(op string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, e := range h.events {
		if e.Op == op {
			n++
		}
	}
	return n
}

// Reset forgets the recorded events.
func (h *Host) Reset() {
	h.mu.Lock()
	h.events = nil
	h.mu.Unlock()
}

func (h *Host) WillLoadContent(src *datasource.DataSource) {
	h.record(Event{Op: OpWillLoadContent, Source: src})
}

func (h *Host) DidLoadContent(src *datasource.DataSource, err error) {
	h.record(Event{Op: OpDidLoadContent, Source: src, Err: err})
}

func (h *Host) DidInsertItems(src *datasource.DataSource, paths []datasource.IndexPath) {
	h.record(Event{Op: OpInsertItems, Source: src, Paths: paths})
}

func (h *Host) DidRemoveItems(src *datasource.DataSource, paths []datasource.IndexPath) {
	h.record(Event{Op: OpRemoveItems, Source: src, Paths: paths})
}

func (h *Host) DidReloadItems(src *datasource.DataSource, paths []datasource.IndexPath) {
	h.record(Event{Op: OpReloadItems, Source: src, Paths: paths})
}

func (h *Host) DidMoveItem(src *datasource.DataSource, from, to datasource.IndexPath) {
	h.record(Event{Op: OpMoveItem, Source: src, From: from, To: to})
}

func (h *Host) WillInsertSections(src *datasource.DataSource, sections []int, dir datasource.Direction) {
	h.record(Event{Op: OpInsertSections, Source: src, Sections: sections, Dir: dir})
}

func (h *Host) WillRemoveSections(src *datasource.DataSource, sections []int, dir datasource.Direction) {
	h.record(Event{Op: OpRemoveSections, Source: src, Sections: sections, Dir: dir})
}

func (h *Host) WillMoveSection(src *datasource.DataSource, from, to int, dir datasource.Direction) {
	h.record(Event{
		Op:     OpMoveSection,
		Source: src,
		From:   datasource.IndexPath{Section: from},
		To:     datasource.IndexPath{Section: to},
		Dir:    dir,
	})
}

func (h *Host) DidReloadSections(src *datasource.DataSource, sections []int) {
	h.record(Event{Op: OpReloadSections, Source: src, Sections: sections})
}

func (h *Host) DidReloadData(src *datasource.DataSource) {
	h.record(Event{Op: OpReloadData, Source: src})
}

func (h *Host) DidReloadGlobalSection(src *datasource.DataSource) {
	h.record(Event{Op: OpReloadGlobalSection, Source: src})
}

func (h *Host) PerformBatchUpdate(src *datasource.DataSource, update func(), completion func(bool)) {
	h.record(Event{Op: OpBatchBegin, Source: src})
	if update != nil {
		update()
	}
	h.record(Event{Op: OpBatchEnd, Source: src})
	if completion != nil {
		completion(true)
	}
}
