package datasource

import (
	"fmt"
	"slices"
)

// State is the phase of a data source's content loading lifecycle.
type State uint8

const (
	// StateInitial means content has never been requested.
	StateInitial State = iota
	// StateLoading means the first load is in flight.
	StateLoading
	// StateRefreshing means a reload of already loaded content is in flight.
	StateRefreshing
	// StateLoaded means content is available.
	StateLoaded
	// StateNoContent means the load finished with nothing to show.
	StateNoContent
	// StateError means the load failed.
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateLoading:
		return "loading"
	case StateRefreshing:
		return "refreshing"
	case StateLoaded:
		return "loaded"
	case StateNoContent:
		return "no-content"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// LoadingState is a State together with the failure that caused StateError.
// Err is opaque to this package: it is carried to placeholders and containers
// but never inspected.
type LoadingState struct {
	State State
	Err   error
}

var (
	Initial    = LoadingState{State: StateInitial}
	Loading    = LoadingState{State: StateLoading}
	Refreshing = LoadingState{State: StateRefreshing}
	Loaded     = LoadingState{State: StateLoaded}
	NoContent  = LoadingState{State: StateNoContent}
)

// Failed returns the error state carrying err.
func Failed(err error) LoadingState {
	return LoadingState{State: StateError, Err: err}
}

// Is reports whether s is in state st.
func (s LoadingState) Is(st State) bool {
	return s.State == st
}

func (s LoadingState) String() string {
	if s.State == StateError && s.Err != nil {
		return fmt.Sprintf("error(%v)", s.Err)
	}
	return s.State.String()
}

// transitions lists the states reachable from each state. Moving to the
// current state is always a no-op and resetting to StateInitial bypasses the
// table entirely.
var transitions = map[State][]State{
	StateInitial:    {StateLoading},
	StateLoading:    {StateLoaded, StateNoContent, StateError},
	StateRefreshing: {StateLoaded, StateNoContent, StateError},
	StateLoaded:     {StateRefreshing, StateNoContent, StateError},
	StateNoContent:  {StateRefreshing, StateLoaded, StateError},
	StateError:      {StateLoading, StateRefreshing, StateNoContent, StateLoaded},
}

// CanTransition reports whether the loading state machine allows moving from
// one state to another.
func CanTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}

// nextLoadingState picks Loading for a first load and Refreshing for a reload.
func nextLoadingState(current State) LoadingState {
	if current == StateInitial || current == StateLoading {
		return Loading
	}
	return Refreshing
}

// notifiesVisibility reports whether entering st should tell the container
// that placeholder visibility may have changed.
func notifiesVisibility(st State) bool {
	switch st {
	case StateLoading, StateLoaded, StateNoContent, StateError:
		return true
	}
	return false
}
