package ui

import "sync"

// MobileNav is the collapsible navigation menu.
type MobileNav struct {
	mu   sync.Mutex
	open bool
}

func (n *MobileNav) Close() {
	n.mu.Lock()
	n.open = false
	n.mu.Unlock()
}

// Toggle flips the menu and returns the new state.
func (n *MobileNav) Toggle() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.open = !n.open
	return n.open
}

// SelectLink is a click on a menu link; it always closes the menu.
func (n *MobileNav) SelectLink() {
	n.Close()
}

func (n *MobileNav) IsOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.open
}
