package datasource

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateInitial, StateLoading, true},
		{StateInitial, StateLoaded, false},
		{StateInitial, StateRefreshing, false},
		{StateLoading, StateLoaded, true},
		{StateLoading, StateNoContent, true},
		{StateLoading, StateError, true},
		{StateLoading, StateRefreshing, false},
		{StateRefreshing, StateLoaded, true},
		{StateRefreshing, StateLoading, false},
		{StateLoaded, StateRefreshing, true},
		{StateLoaded, StateLoading, false},
		{StateLoaded, StateNoContent, true},
		{StateNoContent, StateLoaded, true},
		{StateNoContent, StateRefreshing, true},
		{StateError, StateLoading, true},
		{StateError, StateRefreshing, true},
		{StateError, StateInitial, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestNextLoadingState(t *testing.T) {
	tests := []struct {
		current State
		want    State
	}{
		{StateInitial, StateLoading},
		{StateLoading, StateLoading},
		{StateRefreshing, StateRefreshing},
		{StateLoaded, StateRefreshing},
		{StateNoContent, StateRefreshing},
		{StateError, StateRefreshing},
	}
	for _, tt := range tests {
		if got := nextLoadingState(tt.current); got.State != tt.want {
			t.Errorf("nextLoadingState(%s) = %s, want %s", tt.current, got.State, tt.want)
		}
	}
}

func TestLoadingStateString(t *testing.T) {
	tests := []struct {
		state LoadingState
		want  string
	}{
		{Initial, "initial"},
		{Refreshing, "refreshing"},
		{NoContent, "no-content"},
		{Failed(errors.New("offline")), "error(offline)"},
		{LoadingState{State: State(42)}, "State(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFailedCarriesError(t *testing.T) {
	err := errors.New("offline")
	st := Failed(err)
	if !st.Is(StateError) {
		t.Fatalf("expected error state, got %s", st.State)
	}
	if st.Err != err {
		t.Errorf("Err = %v, want %v", st.Err, err)
	}
}
