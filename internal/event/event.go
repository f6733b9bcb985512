// SPDX-License-Identifier: MIT

// Package event defines the canonical interaction event schema shared by the
// ingestion gateway and the client tracking agent.
package event

// Name identifies one of the canonical interaction event kinds. The
// vocabulary is closed; the validator rejects anything outside it.
type Name string

const (
	// Navigation & discovery
	PageView          Name = "page_view"
	ViewItemPage      Name = "view_item_page"
	LearnMoreAboutItem Name = "learn_more_about_item"

	// Cart operations
	AddItemToCart    Name = "add_item_to_cart"
	RemoveItem       Name = "remove_item"
	CheckoutStart    Name = "checkout_start"
	PurchaseComplete Name = "purchase_complete"

	// Filtering & search
	Search            Name = "search"
	FilterForDate     Name = "filter_for_date"
	FilterForAmenities Name = "filter_for_amenities"
	FilterForPrice    Name = "filter_for_price"
	SortChange        Name = "sort_change"

	// Dwell signals (hover past the dwell threshold)
	HoverOverTitle     Name = "hover_over_title"
	HoverOverParagraph Name = "hover_over_paragraph"
	HoverOverLink      Name = "hover_over_link"
	HoverOverButton    Name = "hover_over_button"

	// Session lifecycle
	SessionStart Name = "session_start"
)

// Names lists the full canonical vocabulary.
var Names = []Name{
	PageView,
	ViewItemPage,
	LearnMoreAboutItem,
	AddItemToCart,
	RemoveItem,
	CheckoutStart,
	PurchaseComplete,
	Search,
	FilterForDate,
	FilterForAmenities,
	FilterForPrice,
	SortChange,
	HoverOverTitle,
	HoverOverParagraph,
	HoverOverLink,
	HoverOverButton,
	SessionStart,
}

var nameSet = func() map[Name]struct{} {
	m := make(map[Name]struct{}, len(Names))
	for _, n := range Names {
		m[n] = struct{}{}
	}
	return m
}()

// KnownName reports whether n is part of the canonical vocabulary.
func KnownName(n Name) bool {
	_, ok := nameSet[n]
	return ok
}

// Event is a single schema-conformant interaction record. Once validated it
// is immutable; downstream consumers never mutate it.
type Event struct {
	SessionID    string         `json:"sessionId"`
	ExperimentID string         `json:"experimentId,omitempty"`
	StoreMode    string         `json:"storeMode"`
	TS           string         `json:"ts"` // RFC 3339
	Page         string         `json:"page"`
	EventName    Name           `json:"eventName"`
	ProductID    string         `json:"productId,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	UserAgent    string         `json:"userAgent,omitempty"`
}
