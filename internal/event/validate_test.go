// SPDX-License-Identifier: MIT

package event

import (
	"testing"
	"time"
)

func validEvent() Event {
	return Event{
		SessionID: "s-1",
		StoreMode: "hotel",
		TS:        time.Now().UTC().Format(time.RFC3339),
		Page:      "/hotel/products/42",
		EventName: AddItemToCart,
		ProductID: "42",
		Metadata:  map[string]any{"quantity": 1},
	}
}

func TestValidateAcceptsCanonicalEvent(t *testing.T) {
	if verr := Validate(validEvent()); verr != nil {
		t.Fatalf("expected valid event, got %v", verr)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Event)
		field   string
	}{
		{"empty session id", func(e *Event) { e.SessionID = "" }, "sessionId"},
		{"unknown store mode", func(e *Event) { e.StoreMode = "cruise" }, "storeMode"},
		{"empty store mode", func(e *Event) { e.StoreMode = "" }, "storeMode"},
		{"bad timestamp", func(e *Event) { e.TS = "yesterday" }, "ts"},
		{"empty timestamp", func(e *Event) { e.TS = "" }, "ts"},
		{"empty page", func(e *Event) { e.Page = "" }, "page"},
		{"unknown event name", func(e *Event) { e.EventName = "teleport" }, "eventName"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := validEvent()
			tc.mutate(&ev)
			verr := Validate(ev)
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if verr.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, verr.Field)
			}
			if verr.Error() == "" {
				t.Error("validation error must carry a message")
			}
		})
	}
}

func TestValidateIsPure(t *testing.T) {
	ev := validEvent()
	if verr := Validate(ev); verr != nil {
		t.Fatalf("unexpected rejection: %v", verr)
	}
	// Re-validating identical field values must succeed again.
	for i := 0; i < 3; i++ {
		if verr := Validate(ev); verr != nil {
			t.Fatalf("validation is not pure, run %d rejected: %v", i, verr)
		}
	}
}

func TestVocabularyIsClosed(t *testing.T) {
	if len(Names) != 17 {
		t.Fatalf("expected 17 canonical event names, got %d", len(Names))
	}
	for _, n := range Names {
		if !KnownName(n) {
			t.Errorf("canonical name %q not recognised", n)
		}
	}
	if KnownName("page_view ") {
		t.Error("whitespace variant must not be recognised")
	}
}
