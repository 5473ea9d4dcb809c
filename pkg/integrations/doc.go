// Package integrations holds moodboard's outbound connections.
//
// [Client] is the shared HTTP client used by the link-preview fetchers in
// package metadata. It applies default headers, caps response bodies at
// [DefaultMaxBody], maps status codes to errors and retries transient
// failures through [httputil.Retry]:
//
//   - 2xx: success
//   - 404: [ErrNotFound], not retried
//   - 429 and 5xx: [ErrNetwork] wrapped in [httputil.RetryableError]
//   - anything else: [ErrNetwork], not retried
//
// Every request reports to [observability.HTTP] hooks.
//
// Subpackage docsys reads records from external document-management
// systems for the document node adapter in package interchange.
package integrations
