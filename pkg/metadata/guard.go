package metadata

import (
	"sync"
	"time"
)

// Ticket identifies one preview request for a subject, usually a node id.
type Ticket struct {
	Subject string
	URL     string
	seq     uint64
}

// Guard drops stale results. A subject may start many fetches as its URL
// is edited; only the result of the most recent one should be applied.
type Guard struct {
	mu      sync.Mutex
	seq     uint64
	current map[string]Ticket
}

// NewGuard returns an empty guard.
func NewGuard() *Guard {
	return &Guard{current: make(map[string]Ticket)}
}

// Begin records a new request for subject, superseding earlier ones.
func (g *Guard) Begin(subject, url string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	t := Ticket{Subject: subject, URL: url, seq: g.seq}
	g.current[subject] = t
	return t
}

// Valid reports whether t is still the latest request for its subject.
func (g *Guard) Valid(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	cur, ok := g.current[t.Subject]
	return ok && cur == t
}

// Forget drops the subject, invalidating its outstanding tickets.
func (g *Guard) Forget(subject string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.current, subject)
}

// DefaultDebounce is the delay between the last URL edit and the fetch.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer runs a function once input for a key has been quiet for the
// configured delay.
type Debouncer struct {
	wait time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewDebouncer returns a debouncer. A wait of zero uses [DefaultDebounce].
func NewDebouncer(wait time.Duration) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, timers: make(map[string]*time.Timer)}
}

// Do schedules fn for key, cancelling any call still pending for it.
func (d *Debouncer) Do(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		if d.timers[key] != t {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// Cancel drops the pending call for key, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[key]; ok {
		t.Stop()
		delete(d.timers, key)
	}
}

// Stop cancels every pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
