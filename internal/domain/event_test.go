package domain_test

import (
	"encoding/json"
	"errors"
	"testing"

	"atelier/internal/domain"
)

func TestEvent_Validate_RejectsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		p    domain.Payload
	}{
		{"element_added without id", domain.ElementAdded{Element: domain.Element{Type: domain.ElementBox, PageID: "p1"}}},
		{"element_added with unknown type", domain.ElementAdded{Element: domain.Element{ID: "e1", Type: "blob", PageID: "p1"}}},
		{"element_added with both parents", domain.ElementAdded{Element: domain.Element{ID: "e1", Type: domain.ElementBox, PageID: "p1", ParentID: "e0"}}},
		{"element_added with no parent", domain.ElementAdded{Element: domain.Element{ID: "e1", Type: domain.ElementBox}}},
		{"element_moved without id", domain.ElementMoved{X: 1, Y: 2}},
		{"elements_deleted empty", domain.ElementsDeleted{}},
		{"elements_moved blank id", domain.ElementsMoved{IDs: []string{"e1", ""}}},
		{"page_deleted without id", domain.PageDeleted{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := domain.NewEvent(tc.p).Validate()
			if !errors.Is(err, domain.ErrMalformedEvent) {
				t.Errorf("Validate() = %v, want ErrMalformedEvent", err)
			}
		})
	}
}

func TestEvent_Validate_AcceptsWellFormed(t *testing.T) {
	cases := []domain.Payload{
		domain.ElementAdded{Element: domain.Element{ID: "e1", Type: domain.ElementBox, PageID: "p1"}},
		domain.ElementAdded{Element: domain.Element{ID: "e2", Type: domain.ElementText, ParentID: "e1"}},
		domain.ElementMoved{ID: "e1", X: 10, Y: 20},
		domain.ElementsMoved{IDs: []string{"e1", "e2"}, DX: 5, DY: 5},
		domain.SelectionChanged{}, // empty selection clears
		domain.PageAdded{Page: domain.Page{ID: "p1", Name: "Home"}},
	}
	for _, p := range cases {
		if err := domain.NewEvent(p).Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", p.EventType(), err)
		}
	}
}

func TestEvent_Validate_TagMismatch(t *testing.T) {
	ev := domain.NewEvent(domain.ElementMoved{ID: "e1"})
	ev.Type = domain.EvElementResized
	if err := ev.Validate(); !errors.Is(err, domain.ErrMalformedEvent) {
		t.Errorf("mismatched tag accepted: %v", err)
	}
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	events := []domain.Event{
		domain.NewEvent(domain.ElementAdded{Element: domain.Element{
			ID: "e1", Type: domain.ElementBox, PageID: "p1",
			Rect:    domain.Rect{X: 1, Y: 2, Width: 30, Height: 40},
			Opacity: 1,
			Style:   map[string]string{"fill": "#fff"},
		}}),
		domain.NewEvent(domain.ElementsMoved{IDs: []string{"e1", "e2"}, DX: -3, DY: 7}),
		domain.NewEvent(domain.SelectionChanged{IDs: []string{"e1"}}),
		domain.NewEvent(domain.PageUpdated{ID: "p1", Name: strPtr("Landing")}),
	}
	for i := range events {
		events[i].ID = int64(i + 1)
	}

	data, err := json.Marshal(events)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded []domain.Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(events) {
		t.Fatalf("got %d events, want %d", len(decoded), len(events))
	}
	for i, ev := range decoded {
		if ev.Type != events[i].Type || ev.ID != events[i].ID {
			t.Errorf("event %d envelope mismatch: %+v", i, ev)
		}
		if ev.Payload.EventType() != events[i].Type {
			t.Errorf("event %d payload kind %q, want %q", i, ev.Payload.EventType(), events[i].Type)
		}
	}

	added, ok := decoded[0].Payload.(domain.ElementAdded)
	if !ok {
		t.Fatalf("payload 0 decoded as %T", decoded[0].Payload)
	}
	if added.Element.Style["fill"] != "#fff" || added.Element.Rect.Width != 30 {
		t.Errorf("payload fields lost in round trip: %+v", added.Element)
	}

	moved := decoded[1].Payload.(domain.ElementsMoved)
	if len(moved.IDs) != 2 || moved.DX != -3 {
		t.Errorf("batch payload lost in round trip: %+v", moved)
	}
}

func TestEvent_Unmarshal_UnknownTypeRejected(t *testing.T) {
	blob := []byte(`{"id":1,"type":"element_exploded","time":"2026-01-01T00:00:00Z","payload":{}}`)
	var ev domain.Event
	if err := json.Unmarshal(blob, &ev); !errors.Is(err, domain.ErrMalformedEvent) {
		t.Errorf("unknown type decoded without error: %v", err)
	}
}

func strPtr(s string) *string { return &s }
