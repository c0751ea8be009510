// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages and outfits.
package model

import (
	"errors"
	"fmt"
)

// =============================================================================
// FILTER MODE TYPE
// =============================================================================

// FilterMode selects between a complete outfit and a partial one.
type FilterMode string

const (
	// FilterModeFull requests a complete outfit across all categories.
	FilterModeFull FilterMode = "full"
	// FilterModePartial requests only the selected categories.
	FilterModePartial FilterMode = "partial"
)

// =============================================================================
// OUTFIT FILTERS TYPE
// =============================================================================

// OutfitFilters is the user's outfit constraints sent with every message.
type OutfitFilters struct {
	// Budget is the optional price ceiling for the whole outfit.
	Budget *float64 `json:"budget,omitempty"`

	// Mode selects full or partial outfit completeness.
	Mode FilterMode `json:"mode"`

	// Categories is the selected item categories; only meaningful in
	// partial mode.
	Categories []Category `json:"categories,omitempty"`
}

// DefaultFilters returns filters requesting a full outfit with no budget.
func DefaultFilters() OutfitFilters {
	return OutfitFilters{Mode: FilterModeFull}
}

// Validate checks the filters for internal consistency.
func (f OutfitFilters) Validate() error {
	switch f.Mode {
	case FilterModeFull, FilterModePartial:
	default:
		return fmt.Errorf("invalid filter mode %q", f.Mode)
	}

	if f.Budget != nil && *f.Budget < 0 {
		return errors.New("budget must be non-negative")
	}

	if f.Mode == FilterModePartial && len(f.Categories) == 0 {
		return errors.New("partial mode requires at least one category")
	}

	for _, c := range f.Categories {
		if !c.IsValid() {
			return fmt.Errorf("invalid category %q", c)
		}
	}

	return nil
}

// HasCategory returns true if the category is selected.
func (f OutfitFilters) HasCategory(c Category) bool {
	for _, v := range f.Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ToggleCategory adds or removes a category from the selection and
// returns the updated filters.
func (f OutfitFilters) ToggleCategory(c Category) OutfitFilters {
	if !c.IsValid() {
		return f
	}
	for i, v := range f.Categories {
		if v == c {
			f.Categories = append(f.Categories[:i:i], f.Categories[i+1:]...)
			return f
		}
	}
	f.Categories = append(f.Categories[:len(f.Categories):len(f.Categories)], c)
	return f
}
