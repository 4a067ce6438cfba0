package ui

import (
	"strings"
	"sync"
	"time"
)

// minLiveQuery is the shortest trimmed input that updates the live search.
const minLiveQuery = 3

// Live search input fields.
const (
	FieldKeywords = "keywords"
	FieldLocation = "location"
)

// LiveSearch debounces keystrokes from the search inputs and keeps the last
// settled query and location.
type LiveSearch struct {
	debouncer *Debouncer

	mu       sync.Mutex
	query    string
	location string
}

func NewLiveSearch(wait time.Duration) *LiveSearch {
	return &LiveSearch{debouncer: NewDebouncer(wait)}
}

// Input records a keystroke; the value settles after the debounce period.
// Values shorter than three characters are ignored once settled.
func (s *LiveSearch) Input(field, value string, settled func(query, location string)) {
	s.debouncer.Call(func() {
		value := strings.TrimSpace(value)
		if len(value) < minLiveQuery {
			return
		}
		s.mu.Lock()
		switch field {
		case FieldLocation:
			s.location = value
		default:
			s.query = value
		}
		query, location := s.query, s.location
		s.mu.Unlock()

		if settled != nil {
			settled(query, location)
		}
	})
}

// Params returns the settled query and location.
func (s *LiveSearch) Params() (query, location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query, s.location
}

func (s *LiveSearch) Stop() {
	s.debouncer.Stop()
}

// LiveSearchState is a snapshot of the live search.
type LiveSearchState struct {
	Query    string `json:"query"`
	Location string `json:"location"`
	Pending  bool   `json:"pending"`
}

func (s *LiveSearch) State() LiveSearchState {
	query, location := s.Params()
	return LiveSearchState{Query: query, Location: location, Pending: s.debouncer.Pending()}
}

// Chrome bundles the UI state of one session.
type Chrome struct {
	Modals *ModalManager
	Toasts *ToastQueue
	Nav    *MobileNav
	Search *LiveSearch
}

// State is the JSON view of a Chrome.
type State struct {
	Modal   ModalState      `json:"modal"`
	Toasts  ToastState      `json:"toasts"`
	NavOpen bool            `json:"navOpen"`
	Search  LiveSearchState `json:"search"`
}

func (c *Chrome) State() State {
	return State{
		Modal:   c.Modals.State(),
		Toasts:  c.Toasts.State(),
		NavOpen: c.Nav.IsOpen(),
		Search:  c.Search.State(),
	}
}

// Close stops every timer owned by the chrome.
func (c *Chrome) Close() {
	c.Toasts.Stop()
	c.Search.Stop()
}

// Options configures the chrome built for each session.
type Options struct {
	ToastDuration time.Duration
	Debounce      time.Duration
	Modals        []Modal
}

type registryEntry struct {
	chrome   *Chrome
	lastSeen time.Time
}

// Registry owns one Chrome per session id.
type Registry struct {
	mu       sync.Mutex
	opts     Options
	sessions map[string]*registryEntry
	now      func() time.Time
}

func NewRegistry(opts Options) *Registry {
	if opts.Modals == nil {
		opts.Modals = DefaultModals()
	}
	return &Registry{
		opts:     opts,
		sessions: make(map[string]*registryEntry),
		now:      time.Now,
	}
}

// Get returns the chrome of session id, creating it on first use.
func (r *Registry) Get(id string) *Chrome {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		entry = &registryEntry{chrome: &Chrome{
			Modals: NewModalManager(r.opts.Modals...),
			Toasts: NewToastQueue(r.opts.ToastDuration),
			Nav:    &MobileNav{},
			Search: NewLiveSearch(r.opts.Debounce),
		}}
		r.sessions[id] = entry
	}
	entry.lastSeen = r.now()
	return entry.chrome
}

// Prune drops chromes not used within idle and returns how many went.
func (r *Registry) Prune(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			entry.chrome.Close()
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Close stops the timers of every chrome and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, entry := range r.sessions {
		entry.chrome.Close()
		delete(r.sessions, id)
	}
}
