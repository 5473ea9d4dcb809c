package integrations

import (
	"errors"
	"net/http"
	"time"
)

const httpTimeout = 10 * time.Second

// DefaultMaxBody bounds how much of a response is read. Link previews only
// need the document head, so a couple of megabytes is plenty.
const DefaultMaxBody = 2 << 20

// UserAgent identifies moodboard to the sites it fetches.
const UserAgent = "moodboard/1.0 (+https://github.com/matzehuels/moodboard)"

var (
	// ErrNotFound is returned when the remote resource doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewHTTPClient creates an HTTP client with the standard timeout for
// outbound requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
