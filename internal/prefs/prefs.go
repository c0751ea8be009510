// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prefs persists user preferences as a JSON file and watches it
// for changes made by other processes.
package prefs

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/stylist-tui/internal/model"
	"github.com/jeranaias/stylist-tui/internal/util"
)

// Preferences is the persisted user preference set.
type Preferences struct {
	// Theme selects the UI color theme.
	Theme string `json:"theme,omitempty"`

	// Filters is the last-used outfit filter selection.
	Filters model.OutfitFilters `json:"filters"`

	// SidebarOpen remembers the chat list visibility.
	SidebarOpen bool `json:"sidebar_open"`

	// LastChatID reopens the most recent chat on startup.
	LastChatID string `json:"last_chat_id,omitempty"`
}

// defaultPreferences returns the preference set used when no file exists.
func defaultPreferences() Preferences {
	return Preferences{
		Theme:       "dark",
		Filters:     model.DefaultFilters(),
		SidebarOpen: true,
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the preferences file.
//
// Writes are atomic, so a concurrent reader in another process sees either
// the old or the new file. A Store can additionally Watch the file and
// fold in changes written by other processes, the closest a terminal app
// gets to the browser's cross-tab storage events.
type Store struct {
	mu    sync.Mutex
	path  string
	prefs Preferences

	watcher  *fsnotify.Watcher
	onChange func(Preferences)
	done     chan struct{}
}

// NewStore creates a store for the given file path and loads the current
// contents. A missing file yields defaults, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  path,
		prefs: defaultPreferences(),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the file into memory. Corrupt JSON resets to defaults; a
// broken preferences file should never block startup.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		s.prefs = defaultPreferences()
		return nil
	}
	s.prefs = p
	return nil
}

// Get returns the current preferences.
func (s *Store) Get() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs
}

// Set replaces the preferences and writes them to disk atomically.
func (s *Store) Set(p Preferences) error {
	s.mu.Lock()
	s.prefs = p
	s.mu.Unlock()
	return s.save(p)
}

// Update applies fn to the current preferences and persists the result.
func (s *Store) Update(fn func(*Preferences)) error {
	s.mu.Lock()
	fn(&s.prefs)
	p := s.prefs
	s.mu.Unlock()
	return s.save(p)
}

func (s *Store) save(p Preferences) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, append(data, '\n'), 0o600)
}

// =============================================================================
// CROSS-PROCESS WATCH
// =============================================================================

// Watch starts following the preferences file and invokes fn whenever
// another process rewrites it. Close stops the watch.
func (s *Store) Watch(fn func(Preferences)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watcher != nil {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory: atomic writes replace the file by rename, which
	// drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return err
	}

	s.watcher = watcher
	s.onChange = fn
	s.done = make(chan struct{})

	go s.watchLoop(watcher, s.done)
	return nil
}

func (s *Store) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	base := filepath.Base(s.path)
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.reload()
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// reload re-reads the file and notifies the change callback.
func (s *Store) reload() {
	s.mu.Lock()
	if err := s.load(); err != nil {
		s.mu.Unlock()
		return
	}
	p := s.prefs
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(p)
	}
}

// Close stops the file watch. Safe to call without a watch in place.
func (s *Store) Close() error {
	s.mu.Lock()
	watcher := s.watcher
	done := s.done
	s.watcher = nil
	s.done = nil
	s.mu.Unlock()

	if watcher == nil {
		return nil
	}
	close(done)
	return watcher.Close()
}
