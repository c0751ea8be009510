// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// =============================================================================
// SCROLL COORDINATOR
// =============================================================================

// NearBottomLines is how close to the bottom, in lines, still counts as
// "at the bottom" for auto-scroll purposes.
const NearBottomLines = 3

// ScrollDebounce is how long scroll events must settle before the
// position is re-evaluated. Mouse wheels and key repeat deliver bursts;
// evaluating every event makes the jump button flicker.
const ScrollDebounce = 150 * time.Millisecond

// ScrollCoordinator decides when the transcript auto-scrolls and when the
// jump-to-latest button shows.
//
// The rule: if the reader is at (or near) the bottom, new messages keep
// the view pinned to the bottom. If the reader scrolled up to re-read
// something, new messages must not yank the view down; the jump button
// appears instead.
type ScrollCoordinator struct {
	threshold int
	debounce  time.Duration

	// atBottom is the committed reading position.
	atBottom bool

	// pending holds the latest not-yet-committed position during a
	// scroll burst.
	pending        bool
	pendingAt      time.Time
	pendingPresent bool
}

// NewScrollCoordinator creates a coordinator pinned to the bottom.
func NewScrollCoordinator() *ScrollCoordinator {
	return &ScrollCoordinator{
		threshold: NearBottomLines,
		debounce:  ScrollDebounce,
		atBottom:  true,
	}
}

// RecordScroll notes a scroll event. offset is the viewport's top line,
// viewHeight its height in lines, contentHeight the total content lines.
// The position is not committed until the burst settles; call Settle.
func (s *ScrollCoordinator) RecordScroll(offset, viewHeight, contentHeight int, now time.Time) {
	s.pending = nearBottom(offset, viewHeight, contentHeight, s.threshold)
	s.pendingAt = now
	s.pendingPresent = true
}

// Settle commits the pending position once the debounce interval has
// passed. It returns true when the committed state changed, which is when
// the view needs re-rendering.
func (s *ScrollCoordinator) Settle(now time.Time) bool {
	if !s.pendingPresent {
		return false
	}
	if now.Sub(s.pendingAt) < s.debounce {
		return false
	}

	s.pendingPresent = false
	if s.pending == s.atBottom {
		return false
	}
	s.atBottom = s.pending
	return true
}

// AtBottom reports the committed reading position.
func (s *ScrollCoordinator) AtBottom() bool {
	return s.atBottom
}

// ShowJumpButton reports whether the jump-to-latest button should show.
func (s *ScrollCoordinator) ShowJumpButton() bool {
	return !s.atBottom
}

// OnNewContent reports whether arriving content should auto-scroll the
// view to the bottom.
func (s *ScrollCoordinator) OnNewContent() bool {
	return s.atBottom
}

// JumpToBottom pins the view back to the bottom, discarding any pending
// scroll evaluation.
func (s *ScrollCoordinator) JumpToBottom() {
	s.atBottom = true
	s.pendingPresent = false
}

// nearBottom reports whether the viewport bottom is within threshold
// lines of the content bottom.
func nearBottom(offset, viewHeight, contentHeight, threshold int) bool {
	if contentHeight <= viewHeight {
		return true
	}
	return contentHeight-(offset+viewHeight) <= threshold
}
