// Package metadata resolves link previews for URL nodes.
//
// [Service.Fetch] looks a URL up in a bounded in-memory LRU (100 entries by
// default), then in an optional persistent cache, and finally
// fetches the page through a [Fetcher] and reads its OpenGraph tags with
// [Parse]. Failures never surface to callers: they receive the [Fallback]
// record built from the URL's host.
//
//	svc := metadata.NewService(metadata.NewDirectFetcher(nil),
//		metadata.WithStore(fileCache, 0))
//	og := svc.Fetch(ctx, "https://go.dev")
//	fmt.Println(og.Title)
//
// Editors that fetch as the user types combine a [Debouncer] with a
// [Guard] so that only the latest URL of a node is applied.
package metadata
