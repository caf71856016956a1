package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedEvent marks an event whose payload is missing required
// fields. The log refuses to append such events; nothing else in the
// engine reports it.
var ErrMalformedEvent = errors.New("malformed event")

// EventType discriminates the closed set of mutation kinds.
type EventType string

const (
	EvElementAdded     EventType = "element_added"
	EvElementMoved     EventType = "element_moved"
	EvElementResized   EventType = "element_resized"
	EvElementUpdated   EventType = "element_updated"
	EvElementsMoved    EventType = "elements_moved"
	EvElementsDeleted  EventType = "elements_deleted"
	EvPageAdded        EventType = "page_added"
	EvPageUpdated      EventType = "page_updated"
	EvPageMoved        EventType = "page_moved"
	EvPageResized      EventType = "page_resized"
	EvPageDeleted      EventType = "page_deleted"
	EvPageActivated    EventType = "page_activated"
	EvSelectionChanged EventType = "selection_changed"
)

// Payload is the sealed union of event payloads. Each payload reports its
// own discriminant so an Event can never carry a mismatched tag.
type Payload interface {
	EventType() EventType
	validate() error
}

// Event is one immutable entry in the history. ID is assigned
// monotonically by the log; Time is wall-clock and used for display only —
// log order is authoritative.
type Event struct {
	ID      int64     `json:"id"`
	Type    EventType `json:"type"`
	Time    time.Time `json:"time"`
	Payload Payload   `json:"payload"`
}

// NewEvent wraps a payload in an envelope stamped with the current time.
// The id stays zero until the log assigns one.
func NewEvent(p Payload) Event {
	return Event{Type: p.EventType(), Time: time.Now(), Payload: p}
}

// Validate checks the envelope and payload shape. It is the log-boundary
// gate of the malformed-event policy.
func (e Event) Validate() error {
	if e.Payload == nil {
		return fmt.Errorf("%w: nil payload", ErrMalformedEvent)
	}
	if e.Type != e.Payload.EventType() {
		return fmt.Errorf("%w: tag %q does not match payload kind %q",
			ErrMalformedEvent, e.Type, e.Payload.EventType())
	}
	if err := e.Payload.validate(); err != nil {
		return err
	}
	return nil
}

// ── payloads ───────────────────────────────────────────────

type ElementAdded struct {
	Element Element `json:"element"`
}

func (ElementAdded) EventType() EventType { return EvElementAdded }

func (p ElementAdded) validate() error {
	el := p.Element
	if el.ID == "" {
		return fmt.Errorf("%w: element_added without id", ErrMalformedEvent)
	}
	if !el.Type.Valid() {
		return fmt.Errorf("%w: element_added with unknown type %q", ErrMalformedEvent, el.Type)
	}
	if (el.PageID == "") == (el.ParentID == "") {
		return fmt.Errorf("%w: element_added needs exactly one of pageId or parentId", ErrMalformedEvent)
	}
	return nil
}

type ElementMoved struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (ElementMoved) EventType() EventType { return EvElementMoved }

func (p ElementMoved) validate() error { return requireID(p.ID, EvElementMoved) }

type ElementResized struct {
	ID   string `json:"id"`
	Rect Rect   `json:"rect"`
}

func (ElementResized) EventType() EventType { return EvElementResized }

func (p ElementResized) validate() error { return requireID(p.ID, EvElementResized) }

// ElementUpdated patches non-geometry fields. Nil pointers leave the
// corresponding field untouched; non-nil maps replace the whole bag.
type ElementUpdated struct {
	ID         string            `json:"id"`
	Content    *string           `json:"content,omitempty"`
	Rotation   *float64          `json:"rotation,omitempty"`
	Opacity    *float64          `json:"opacity,omitempty"`
	Snap       *SnapMode         `json:"snap,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
	Typography map[string]string `json:"typography,omitempty"`
	Spacing    map[string]string `json:"spacing,omitempty"`
}

func (ElementUpdated) EventType() EventType { return EvElementUpdated }

func (p ElementUpdated) validate() error { return requireID(p.ID, EvElementUpdated) }

type ElementsMoved struct {
	IDs []string `json:"ids"`
	DX  float64  `json:"dx"`
	DY  float64  `json:"dy"`
}

func (ElementsMoved) EventType() EventType { return EvElementsMoved }

func (p ElementsMoved) validate() error { return requireIDs(p.IDs, EvElementsMoved) }

type ElementsDeleted struct {
	IDs []string `json:"ids"`
}

func (ElementsDeleted) EventType() EventType { return EvElementsDeleted }

func (p ElementsDeleted) validate() error { return requireIDs(p.IDs, EvElementsDeleted) }

type PageAdded struct {
	Page Page `json:"page"`
}

func (PageAdded) EventType() EventType { return EvPageAdded }

func (p PageAdded) validate() error { return requireID(p.Page.ID, EvPageAdded) }

// PageUpdated patches page metadata; nil pointers leave fields untouched.
type PageUpdated struct {
	ID           string    `json:"id"`
	Name         *string   `json:"name,omitempty"`
	Slug         *string   `json:"slug,omitempty"`
	Background   *string   `json:"background,omitempty"`
	ShowGrid     *bool     `json:"showGrid,omitempty"`
	ShowBaseline *bool     `json:"showBaseline,omitempty"`
	Publish      *bool     `json:"publish,omitempty"`
	Viewport     *Viewport `json:"viewport,omitempty"`
}

func (PageUpdated) EventType() EventType { return EvPageUpdated }

func (p PageUpdated) validate() error { return requireID(p.ID, EvPageUpdated) }

type PageMoved struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (PageMoved) EventType() EventType { return EvPageMoved }

func (p PageMoved) validate() error { return requireID(p.ID, EvPageMoved) }

type PageResized struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (PageResized) EventType() EventType { return EvPageResized }

func (p PageResized) validate() error { return requireID(p.ID, EvPageResized) }

type PageDeleted struct {
	ID string `json:"id"`
}

func (PageDeleted) EventType() EventType { return EvPageDeleted }

func (p PageDeleted) validate() error { return requireID(p.ID, EvPageDeleted) }

type PageActivated struct {
	ID string `json:"id"`
}

func (PageActivated) EventType() EventType { return EvPageActivated }

func (p PageActivated) validate() error { return requireID(p.ID, EvPageActivated) }

// SelectionChanged replaces the whole selection set. An empty list is a
// valid payload: it clears the selection.
type SelectionChanged struct {
	IDs []string `json:"ids"`
}

func (SelectionChanged) EventType() EventType { return EvSelectionChanged }

func (p SelectionChanged) validate() error { return nil }

func requireID(id string, t EventType) error {
	if id == "" {
		return fmt.Errorf("%w: %s without id", ErrMalformedEvent, t)
	}
	return nil
}

func requireIDs(ids []string, t EventType) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: %s with empty id list", ErrMalformedEvent, t)
	}
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: %s with blank id", ErrMalformedEvent, t)
		}
	}
	return nil
}

// ── JSON round-trip ────────────────────────────────────────

// payloadFor returns a zero payload for a discriminant tag. Unknown tags
// are rejected so imports never smuggle unreducible events into the log.
func payloadFor(t EventType) (Payload, error) {
	switch t {
	case EvElementAdded:
		return ElementAdded{}, nil
	case EvElementMoved:
		return ElementMoved{}, nil
	case EvElementResized:
		return ElementResized{}, nil
	case EvElementUpdated:
		return ElementUpdated{}, nil
	case EvElementsMoved:
		return ElementsMoved{}, nil
	case EvElementsDeleted:
		return ElementsDeleted{}, nil
	case EvPageAdded:
		return PageAdded{}, nil
	case EvPageUpdated:
		return PageUpdated{}, nil
	case EvPageMoved:
		return PageMoved{}, nil
	case EvPageResized:
		return PageResized{}, nil
	case EvPageDeleted:
		return PageDeleted{}, nil
	case EvPageActivated:
		return PageActivated{}, nil
	case EvSelectionChanged:
		return SelectionChanged{}, nil
	}
	return nil, fmt.Errorf("%w: unknown event type %q", ErrMalformedEvent, t)
}

type eventJSON struct {
	ID      int64           `json:"id"`
	Type    EventType       `json:"type"`
	Time    time.Time       `json:"time"`
	Payload json.RawMessage `json:"payload"`
}

// UnmarshalJSON decodes the envelope, then the payload according to the
// discriminant tag.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode event envelope: %w", err)
	}
	zero, err := payloadFor(raw.Type)
	if err != nil {
		return err
	}
	// Unmarshal into a pointer to a copy of the zero payload, then deref.
	switch raw.Type {
	case EvElementAdded:
		zero, err = decodePayload[ElementAdded](raw.Payload)
	case EvElementMoved:
		zero, err = decodePayload[ElementMoved](raw.Payload)
	case EvElementResized:
		zero, err = decodePayload[ElementResized](raw.Payload)
	case EvElementUpdated:
		zero, err = decodePayload[ElementUpdated](raw.Payload)
	case EvElementsMoved:
		zero, err = decodePayload[ElementsMoved](raw.Payload)
	case EvElementsDeleted:
		zero, err = decodePayload[ElementsDeleted](raw.Payload)
	case EvPageAdded:
		zero, err = decodePayload[PageAdded](raw.Payload)
	case EvPageUpdated:
		zero, err = decodePayload[PageUpdated](raw.Payload)
	case EvPageMoved:
		zero, err = decodePayload[PageMoved](raw.Payload)
	case EvPageResized:
		zero, err = decodePayload[PageResized](raw.Payload)
	case EvPageDeleted:
		zero, err = decodePayload[PageDeleted](raw.Payload)
	case EvPageActivated:
		zero, err = decodePayload[PageActivated](raw.Payload)
	case EvSelectionChanged:
		zero, err = decodePayload[SelectionChanged](raw.Payload)
	}
	if err != nil {
		return err
	}
	e.ID = raw.ID
	e.Type = raw.Type
	e.Time = raw.Time
	e.Payload = zero
	return nil
}

func decodePayload[P Payload](raw json.RawMessage) (Payload, error) {
	var p P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", p.EventType(), err)
		}
	}
	return p, nil
}
