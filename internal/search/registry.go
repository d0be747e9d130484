package search

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type view struct {
	ctrl  *Controller
	owner string

	mu       sync.Mutex
	lastSeen time.Time
}

func (v *view) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *view) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

// Registry keeps the live search views of all visitors. A view belongs to
// the session that opened it and is forgotten after ttl without activity.
type Registry struct {
	ttl   time.Duration
	views sync.Map // view id -> *view
	now   func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{ttl: ttl, now: time.Now}
}

// Add stores ctrl for owner and returns the new view id.
func (r *Registry) Add(owner string, ctrl *Controller) string {
	id := uuid.NewString()
	r.views.Store(id, &view{ctrl: ctrl, owner: owner, lastSeen: r.now()})
	return id
}

// Get returns the controller of view id if it exists and belongs to owner.
func (r *Registry) Get(id, owner string) (*Controller, bool) {
	v, ok := r.views.Load(id)
	if !ok {
		return nil, false
	}
	vw := v.(*view)
	if vw.owner != owner {
		return nil, false
	}
	vw.touch(r.now())
	return vw.ctrl, true
}

func (r *Registry) Remove(id string) {
	r.views.Delete(id)
}

// Sweep drops idle views and returns how many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	removed := 0
	r.views.Range(func(k, v any) bool {
		if v.(*view).idleSince(now) > r.ttl {
			r.views.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

func (r *Registry) Len() int {
	n := 0
	r.views.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Start sweeps every interval until ctx is done.
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep()
			}
		}
	}()
}
