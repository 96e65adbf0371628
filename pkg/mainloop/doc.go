// Package mainloop provides the UI loop that owns all data source state.
//
// Data sources are not safe for concurrent mutation. Every mutation and
// notification entry point runs on a single Loop and asserts so with
// [Loop.AssertCurrent]. Background work (network, disk, computation) runs on
// ordinary goroutines and marshals its results back with [Loop.Dispatch]:
//
//	go func() {
//	    items, err := fetch(ctx)
//	    loop.Dispatch(func() {
//	        // back on the UI loop
//	    })
//	}()
//
// A host either runs the loop on its own goroutine with [Loop.Serve], or
// drives it from an existing frame callback by calling [Loop.Drain], the way
// drift's engine drains its dispatch queue once per frame. Tests use Drain
// directly for deterministic scheduling.
package mainloop
