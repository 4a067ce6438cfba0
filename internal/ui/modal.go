// Package ui models the interactive page chrome of one session: the modal
// stack, toast notifications, the mobile navigation menu and debounced live
// search input. All types are safe for concurrent use.
package ui

import (
	"fmt"
	"sync"
)

// Keys understood by ModalManager.HandleKey.
const (
	KeyTab    = "Tab"
	KeyEscape = "Escape"
)

// Modal is a dialog and its focusable elements in tab order.
type Modal struct {
	ID         string   `json:"id"`
	Focusables []string `json:"focusables"`
}

// DefaultModals are the dialogs every page can open.
func DefaultModals() []Modal {
	return []Modal{
		{ID: "apply", Focusables: []string{
			"apply-first-name", "apply-last-name", "apply-email", "apply-phone",
			"apply-location", "apply-resume", "apply-cover-letter", "apply-portfolio",
			"apply-submit", "apply-close",
		}},
		{ID: "post", Focusables: []string{
			"job-title", "job-department", "job-type", "job-location",
			"save-draft", "post-submit", "post-close",
		}},
		{ID: "share", Focusables: []string{"share-link", "share-copy", "share-close"}},
	}
}

// ModalState is a snapshot of the manager.
type ModalState struct {
	Active       string `json:"active,omitempty"`
	Focused      string `json:"focused,omitempty"`
	BodyLocked   bool   `json:"bodyLocked"`
	Announcement string `json:"announcement,omitempty"`
}

// ModalManager keeps at most one modal active and traps focus inside it.
type ModalManager struct {
	mu           sync.Mutex
	modals       map[string]Modal
	active       string
	focus        int
	announcement string
}

func NewModalManager(modals ...Modal) *ModalManager {
	m := &ModalManager{modals: make(map[string]Modal, len(modals))}
	for _, modal := range modals {
		m.modals[modal.ID] = modal
	}
	return m
}

// Open activates id, closing whichever modal was active first, and focuses
// its first focusable element. Unknown ids are ignored.
func (m *ModalManager) Open(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.modals[id]; !ok {
		return false
	}
	m.closeActive()
	m.active = id
	m.focus = 0
	m.announcement = fmt.Sprintf("Opened %s modal", id)
	return true
}

// Close deactivates id if it is the active modal.
func (m *ModalManager) Close(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == "" || m.active != id {
		return false
	}
	m.closeActive()
	return true
}

// CloseActive closes whatever modal is active.
func (m *ModalManager) CloseActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeActive()
}

func (m *ModalManager) closeActive() bool {
	if m.active == "" {
		return false
	}
	m.active = ""
	m.focus = 0
	return true
}

// Active returns the active modal id.
func (m *ModalManager) Active() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active, m.active != ""
}

// Focused returns the focused element of the active modal, or "".
func (m *ModalManager) Focused() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused()
}

func (m *ModalManager) focused() string {
	if m.active == "" {
		return ""
	}
	items := m.modals[m.active].Focusables
	if len(items) == 0 {
		return ""
	}
	return items[m.focus]
}

// Focus moves focus to element if it belongs to the active modal.
func (m *ModalManager) Focus(element string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == "" {
		return false
	}
	for i, id := range m.modals[m.active].Focusables {
		if id == element {
			m.focus = i
			return true
		}
	}
	return false
}

// HandleKey applies a key press while a modal is active. Tab and Shift+Tab
// cycle focus and wrap at either end; Escape closes the modal. It reports
// whether the key was consumed.
func (m *ModalManager) HandleKey(key string, shift bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == "" {
		return false
	}

	switch key {
	case KeyEscape:
		return m.closeActive()
	case KeyTab:
		n := len(m.modals[m.active].Focusables)
		if n == 0 {
			return false
		}
		if shift {
			m.focus = (m.focus - 1 + n) % n
		} else {
			m.focus = (m.focus + 1) % n
		}
		return true
	default:
		return false
	}
}

// Announcement is the last message sent to screen readers.
func (m *ModalManager) Announcement() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.announcement
}

func (m *ModalManager) State() ModalState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return ModalState{
		Active:       m.active,
		Focused:      m.focused(),
		BodyLocked:   m.active != "",
		Announcement: m.announcement,
	}
}
