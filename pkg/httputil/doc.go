// Package httputil provides retry support for outbound HTTP calls.
//
// [Retry] re-runs an operation with exponential backoff while it fails with
// a [RetryableError]. Callers decide what is transient: the client in
// package integrations wraps network errors, 429 and 5xx responses, and
// returns everything else unwrapped so it fails fast.
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := http.Get(url)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    ...
//	})
package httputil
