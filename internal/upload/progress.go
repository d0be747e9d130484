package upload

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Progress is the state of one report upload as seen by the polling page.
type Progress struct {
	Sent    int64  `json:"sent"`
	Total   int64  `json:"total"`
	Percent int    `json:"percent"`
	Done    bool   `json:"done"`
	Failed  bool   `json:"failed"`
	Message string `json:"message,omitempty"`

	updated time.Time
}

// Tracker records upload progress by upload id. Entries are dropped ttl
// after their last update.
type Tracker struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*Progress
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*Progress),
	}
}

// New registers an empty upload and returns its id.
func (t *Tracker) New() string {
	id := uuid.NewString()
	t.mu.Lock()
	t.entries[id] = &Progress{updated: t.now()}
	t.mu.Unlock()
	return id
}

// Update stores the byte counts of a running upload. Unknown ids are
// registered on the fly so a form id from an expired page still reports.
func (t *Tracker) Update(id string, sent, total int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.entry(id)
	p.Sent, p.Total = sent, total
	if total > 0 {
		p.Percent = int(sent * 100 / total)
	}
}

// Finish marks the upload as terminated, with err == nil meaning success.
func (t *Tracker) Finish(id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p := t.entry(id)
	p.Done = true
	if err != nil {
		p.Failed = true
		p.Message = err.Error()
		return
	}
	p.Percent = 100
}

func (t *Tracker) entry(id string) *Progress {
	p, ok := t.entries[id]
	if !ok {
		p = &Progress{}
		t.entries[id] = p
	}
	p.updated = t.now()
	return p
}

func (t *Tracker) Get(id string) (Progress, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.entries[id]
	if !ok {
		return Progress{}, false
	}
	return *p, true
}

// Sweep removes stale entries and returns how many were removed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	removed := 0
	for id, p := range t.entries {
		if now.Sub(p.updated) > t.ttl {
			delete(t.entries, id)
			removed++
		}
	}
	return removed
}

// Start sweeps every interval until ctx is done.
func (t *Tracker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.Sweep()
			}
		}
	}()
}
