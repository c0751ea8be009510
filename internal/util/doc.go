// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared utility functions for the stylist client:
// display-width-aware string truncation and padding, and atomic file
// writes used by the preference store.
package util
