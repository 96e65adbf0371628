// Package dstest provides recording fakes and a loop harness for testing
// data sources without a rendering host.
//
// # Quick Start
//
// Create a harness, attach a data source to its recording host and drive it
// on the harness loop:
//
//	func TestFeed(t *testing.T) {
//	    h := dstest.NewHarness(t)
//	    feed := NewFeed(datasource.Options{Loop: h.Loop})
//
//	    h.Do(func() {
//	        feed.SetHost(h.Host)
//	        feed.LoadContent(nil)
//	    })
//
//	    if got := feed.LoadingState(); !got.Is(datasource.StateLoaded) {
//	        t.Errorf("expected loaded, got %v", got)
//	    }
//	    if got := h.Host.Ops(); !slices.Contains(got, dstest.OpDidLoadContent) {
//	        t.Errorf("expected load notification, got %v", got)
//	    }
//	}
//
// # Background Loads
//
// Loads started with Loader.Go report from another goroutine. Await pumps the
// loop until a condition holds:
//
//	if err := h.Await(func() bool { return feed.LoadingState().Is(datasource.StateLoaded) }); err != nil {
//	    t.Fatal(err)
//	}
//
// # Errors
//
// The harness installs an [ErrorRecorder] as the global error handler for
// the duration of the test and restores the default handler afterwards.
package dstest
