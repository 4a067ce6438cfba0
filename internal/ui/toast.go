package ui

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// DefaultToastDuration is how long a toast stays visible.
const DefaultToastDuration = 5 * time.Second

// ParseToastType maps unknown types to info.
func ParseToastType(s string) ToastType {
	switch ToastType(s) {
	case ToastSuccess, ToastError, ToastWarning:
		return ToastType(s)
	default:
		return ToastInfo
	}
}

type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Type      ToastType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToastState is a snapshot of the queue.
type ToastState struct {
	Visible *Toast  `json:"visible"`
	Pending []Toast `json:"pending"`
}

// ToastQueue shows toasts one at a time in arrival order. A visible toast is
// dismissed by timer or by hand, whichever comes first, and the next queued
// toast takes its place.
type ToastQueue struct {
	mu       sync.Mutex
	duration time.Duration
	pending  []Toast
	visible  *Toast
	timer    *time.Timer
	stopped  bool
}

func NewToastQueue(duration time.Duration) *ToastQueue {
	if duration <= 0 {
		duration = DefaultToastDuration
	}
	return &ToastQueue{duration: duration}
}

// Show enqueues a toast and displays it immediately if nothing is visible.
func (q *ToastQueue) Show(message string, typ ToastType) Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	t := Toast{
		ID:        uuid.New().String(),
		Message:   message,
		Type:      ParseToastType(string(typ)),
		CreatedAt: time.Now(),
	}
	q.pending = append(q.pending, t)
	if q.visible == nil {
		q.advance()
	}
	return t
}

// Dismiss removes toast id. An empty id dismisses the visible toast. It
// reports whether anything was removed.
func (q *ToastQueue) Dismiss(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.visible != nil && (id == "" || q.visible.ID == id) {
		q.hideVisible()
		q.advance()
		return true
	}
	for i, t := range q.pending {
		if t.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Visible returns the toast on screen.
func (q *ToastQueue) Visible() (Toast, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.visible == nil {
		return Toast{}, false
	}
	return *q.visible, true
}

// Pending returns the queued toasts waiting to be shown.
func (q *ToastQueue) Pending() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Toast{}, q.pending...)
}

func (q *ToastQueue) State() ToastState {
	q.mu.Lock()
	defer q.mu.Unlock()
	state := ToastState{Pending: append([]Toast{}, q.pending...)}
	if q.visible != nil {
		v := *q.visible
		state.Visible = &v
	}
	return state
}

// Stop cancels the pending auto-dismiss. Queued toasts stay queued.
func (q *ToastQueue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stopped = true
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
}

// advance promotes the next pending toast. Caller holds q.mu.
func (q *ToastQueue) advance() {
	if q.visible != nil || len(q.pending) == 0 {
		return
	}
	next := q.pending[0]
	q.pending = q.pending[1:]
	q.visible = &next

	if q.stopped {
		return
	}
	id := next.ID
	q.timer = time.AfterFunc(q.duration, func() {
		q.expire(id)
	})
}

// expire is the timer callback; a toast dismissed by hand in the meantime
// is left alone.
func (q *ToastQueue) expire(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.visible == nil || q.visible.ID != id {
		return
	}
	q.hideVisible()
	q.advance()
}

func (q *ToastQueue) hideVisible() {
	if q.timer != nil {
		q.timer.Stop()
		q.timer = nil
	}
	q.visible = nil
}
