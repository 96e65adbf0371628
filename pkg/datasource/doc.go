// Package datasource feeds sections and items to a scrolling list or grid.
//
// A data source owns its content and its loading lifecycle. Hosts attach the
// root data source with SetHost and receive fine-grained change notifications
// through the [Container] interface; composite data sources nest other data
// sources and translate their notifications into a single section space.
//
// # Loading
//
// LoadContent moves the data source to StateLoading (first load) or
// StateRefreshing (reload) and hands a fresh [Loader] to the load handler.
// The handler reports the outcome from any goroutine:
//
//	feed.LoadHandler = func(l *datasource.Loader) {
//	    l.Go(func(ctx context.Context) datasource.Outcome {
//	        posts, err := api.Posts(ctx)
//	        if err != nil {
//	            return datasource.Outcome{Err: err}
//	        }
//	        return datasource.Outcome{
//	            NoContent: len(posts) == 0,
//	            Update:    func() { feed.SetItems(posts, true) },
//	        }
//	    })
//	}
//
// Starting another load supersedes the loader; reports from a superseded
// loader are discarded.
//
// # Placeholders
//
// While loading for the first time, or after an empty or failed load with
// matching placeholder content, a placeholder hides the data source's
// sections. Changes made meanwhile are queued and replayed in order once the
// sections are visible again.
//
// # Threading
//
// Data sources run on a [mainloop.Loop]. Mutation and notification methods
// assert that they are called on it and panic otherwise.
package datasource
