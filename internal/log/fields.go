// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldSessionID    = "session_id"
	FieldExperimentID = "experiment_id"
	FieldRequestID    = "request_id"
	FieldProductID    = "product_id"

	// Attribution fields
	FieldEventName = "event_name"
	FieldStoreMode = "store_mode"
	FieldPage      = "page"
	FieldTopic     = "topic"

	// Pricing fields
	FieldPrice       = "price"
	FieldCurrency    = "currency"
	FieldPriceSource = "price_source"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldBackend   = "backend"
)
