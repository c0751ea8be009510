// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attachment validates and prepares image attachments for sending.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
)

// MaxImageSize is the largest accepted attachment, 5 MB.
const MaxImageSize = 5 * 1024 * 1024

// The two rejection reasons stay distinct so the UI can word them
// differently.
var (
	ErrNotAnImage = errors.New("file is not an image")
	ErrTooLarge   = fmt.Errorf("image exceeds the %d MB limit", MaxImageSize/(1024*1024))
)

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks that the file at path is an acceptable image attachment.
// The type check sniffs file content rather than trusting the extension.
// Both checks can fail at once; the type error wins.
func Validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	// http.DetectContentType needs at most 512 bytes.
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return err
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}

	if info.Size() > MaxImageSize {
		return ErrTooLarge
	}
	return nil
}

// =============================================================================
// PREVIEW
// =============================================================================

// Preview reads an already-validated image and returns it as a data URL
// for inline display.
func Preview(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if int64(len(data)) > MaxImageSize {
		return "", ErrTooLarge
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotAnImage
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// =============================================================================
// DRAG TRACKER
// =============================================================================

// DragTracker tracks nested drag-over enter/leave pairs so the drop
// indicator only clears when the pointer truly leaves the target, not
// when it crosses into a child region. Enter and leave events arrive for
// every nested region, so a plain boolean flickers; the counter does not.
type DragTracker struct {
	mu    sync.Mutex
	depth int
}

// Enter records a drag entering a region and reports whether the drop
// indicator should be showing.
func (d *DragTracker) Enter() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth++
	return d.depth > 0
}

// Leave records a drag leaving a region and reports whether the drop
// indicator should still be showing. The depth never goes negative, so
// an unpaired leave cannot wedge the indicator off.
func (d *DragTracker) Leave() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.depth > 0 {
		d.depth--
	}
	return d.depth > 0
}

// Reset clears the tracker, for use after a drop or cancel.
func (d *DragTracker) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depth = 0
}

// Drop records a completed drop, which always ends the drag.
func (d *DragTracker) Drop() {
	d.Reset()
}

// Active reports whether a drag is currently over the target.
func (d *DragTracker) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.depth > 0
}
