// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the stylist TUI.
//
// Toasts are non-blocking corner notifications that auto-dismiss, so a
// failed rename or a dropped connection never locks the UI behind a modal.
package components

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/stylist-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindInfo is an informational toast
	ToastKindInfo ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
)

// InfoToastDuration is the auto-dismiss duration for info toasts.
const InfoToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts,
// longer so there is time to read them.
const ErrorToastDuration = 8 * time.Second

var toastCounter int64

// Toast is a single notification.
type Toast struct {
	ID        int64
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast has outlived its duration.
func (t Toast) Expired(now time.Time) bool {
	return now.After(t.CreatedAt.Add(t.Duration))
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds active toasts. Safe for concurrent use.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	theme  *styles.Theme
}

// NewToastManager creates an empty toast manager.
func NewToastManager(theme *styles.Theme) *ToastManager {
	return &ToastManager{theme: theme}
}

// Error adds an error toast.
func (m *ToastManager) Error(message string) {
	m.add(Toast{
		ID:        atomic.AddInt64(&toastCounter, 1),
		Message:   message,
		Kind:      ToastKindError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	})
}

// Info adds an informational toast.
func (m *ToastManager) Info(message string) {
	m.add(Toast{
		ID:        atomic.AddInt64(&toastCounter, 1),
		Message:   message,
		Kind:      ToastKindInfo,
		CreatedAt: time.Now(),
		Duration:  InfoToastDuration,
	})
}

func (m *ToastManager) add(t Toast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append(m.toasts, t)
}

// Prune drops expired toasts and reports whether any remain.
func (m *ToastManager) Prune() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
	return len(m.toasts) > 0
}

// DismissAll clears every toast.
func (m *ToastManager) DismissAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// Active returns the current toasts, oldest first.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// View renders active toasts stacked vertically.
func (m *ToastManager) View() string {
	m.Prune()

	m.mu.Lock()
	defer m.mu.Unlock()

	out := ""
	for _, t := range m.toasts {
		style := m.theme.ToastInfo
		if t.Kind == ToastKindError {
			style = m.theme.ToastError
		}
		if out != "" {
			out += "\n"
		}
		out += style.Render(t.Message)
	}
	return out
}
