// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages and outfits.
package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// =============================================================================
// CATEGORY TYPE
// =============================================================================

// Category is a clothing item category. The set is closed; the server never
// sends values outside it, and filters only accept values from it.
type Category string

const (
	CategoryJacket      Category = "jacket"
	CategoryBlazer      Category = "blazer"
	CategoryShirt       Category = "shirt"
	CategoryPants       Category = "pants"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryJacket,
	CategoryBlazer,
	CategoryShirt,
	CategoryPants,
	CategoryShoes,
	CategoryAccessories,
}

// IsValid returns true if the category is one of the closed set.
func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// =============================================================================
// AVAILABILITY TYPE
// =============================================================================

// Availability is the tri-state stock flag for an item.
// Items with unknown availability are treated as available.
type Availability int

const (
	AvailabilityUnknown Availability = iota
	AvailabilityInStock
	AvailabilityOutOfStock
)

// AvailabilityFromPtr maps an optional wire boolean onto the tri-state.
func AvailabilityFromPtr(b *bool) Availability {
	switch {
	case b == nil:
		return AvailabilityUnknown
	case *b:
		return AvailabilityInStock
	default:
		return AvailabilityOutOfStock
	}
}

// Purchasable returns true unless the item is explicitly out of stock.
func (a Availability) Purchasable() bool {
	return a != AvailabilityOutOfStock
}

// =============================================================================
// OUTFIT ITEM TYPE
// =============================================================================

// OutfitItem is a single purchasable clothing item in an outfit.
type OutfitItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Price        float64      `json:"price"`
	Category     Category     `json:"category"`
	Brand        string       `json:"brand,omitempty"`
	Link         string       `json:"link,omitempty"`
	Image        string       `json:"image,omitempty"`
	Availability Availability `json:"availability"`
}

// =============================================================================
// OUTFIT TYPE
// =============================================================================

// Outfit is a server-recommended bundle of items attached to one assistant
// message.
//
// TotalPrice equals the sum of item prices at construction time and is not
// recomputed afterwards; items are treated as immutable once the outfit
// exists. Explanation stays empty until explicitly requested.
type Outfit struct {
	ID          string       `json:"id"`
	Items       []OutfitItem `json:"items"`
	TotalPrice  float64      `json:"total_price"`
	Explanation string       `json:"explanation,omitempty"`
}

// NewOutfit creates an outfit from items, computing the total price as the
// exact sum of item prices.
func NewOutfit(id string, items []OutfitItem) *Outfit {
	total := 0.0
	for _, item := range items {
		total += item.Price
	}
	return &Outfit{
		ID:         id,
		Items:      items,
		TotalPrice: total,
	}
}

// HasExplanation returns true if a non-empty explanation is attached.
func (o *Outfit) HasExplanation() bool {
	return o != nil && o.Explanation != ""
}

// ItemCount returns the number of items in the outfit.
func (o *Outfit) ItemCount() int {
	return len(o.Items)
}

// Clone returns a deep copy of the outfit.
func (o *Outfit) Clone() *Outfit {
	cp := *o
	cp.Items = make([]OutfitItem, len(o.Items))
	copy(cp.Items, o.Items)
	return &cp
}

// =============================================================================
// PRICE FORMATTING
// =============================================================================

// pricePrinter renders prices with locale-aware digit grouping.
var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price as a dollar amount with digit grouping,
// e.g. 1234.5 -> "$1,234.50".
func FormatPrice(price float64) string {
	return pricePrinter.Sprintf("$%.2f", price)
}
