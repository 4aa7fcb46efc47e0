// Package interaction turns pointer gestures into field store mutations.
//
// A gesture is an explicit Session: it captures the start state on pointer
// down, every move recomputes the target geometry from that start state plus
// the total pointer travel, and pointer up tears the session down. Moves are
// committed immediately, so ending a gesture never rolls anything back.
package interaction

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/geometry"
)

// Kind is the state of the gesture machine
type Kind int

const (
	Idle Kind = iota
	Dragging
	Resizing
	Scaling
	ItemDragging
)

// String returns the state name
func (k Kind) String() string {
	switch k {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	case Scaling:
		return "scaling"
	case ItemDragging:
		return "item_dragging"
	default:
		return "idle"
	}
}

// Corner identifies a resize handle
type Corner string

const (
	CornerNW Corner = "nw"
	CornerNE Corner = "ne"
	CornerSW Corner = "sw"
	CornerSE Corner = "se"
)

// ParseCorner validates a handle name
func ParseCorner(s string) (Corner, error) {
	switch c := Corner(s); c {
	case CornerNW, CornerNE, CornerSW, CornerSE:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCorner, s)
}

var (
	ErrSessionActive = errors.New("another gesture is in progress")
	ErrFieldNotFound = errors.New("field not found")
	ErrNotResizable  = errors.New("field type cannot be resized")
	ErrNotGroup      = errors.New("field has no sub-items")
	ErrItemNotFound  = errors.New("sub-item index out of range")
	ErrInvalidCorner = errors.New("invalid corner")
)

// resizableTypes change width and height directly from a corner handle
var resizableTypes = map[envelope.FieldType]bool{
	envelope.FieldText:       true,
	envelope.FieldNumber:     true,
	envelope.FieldNote:       true,
	envelope.FieldList:       true,
	envelope.FieldFormula:    true,
	envelope.FieldAttachment: true,
}

// IsResizable reports whether corner handles resize fields of type t
func IsResizable(t envelope.FieldType) bool {
	return resizableTypes[t]
}

// IsScalable reports whether corner handles scale fields of type t
func IsScalable(t envelope.FieldType) bool {
	return t.IsScalable()
}

// FieldStore is the part of envelope.Store the gestures need
type FieldStore interface {
	Field(id string) (envelope.Field, bool)
	UpdateField(id string, u envelope.FieldUpdate)
	SelectField(id string)
}

// Session is the captured start state of one gesture
type Session struct {
	Kind      Kind
	FieldID   string
	Corner    Corner
	ItemIndex int

	StartPointer geometry.Point
	Start        geometry.Rect
	StartScale   int
	StartItem    geometry.Point
}

// Controller owns the single active gesture session
type Controller struct {
	store   FieldStore
	session *Session
	log     logrus.FieldLogger
}

// NewController creates an idle controller over store
func NewController(store FieldStore, log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{store: store, log: log}
}

// State returns the current gesture kind
func (c *Controller) State() Kind {
	if c.session == nil {
		return Idle
	}
	return c.session.Kind
}

// Session returns a copy of the active session
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// begin installs a session after the common checks
func (c *Controller) begin(fieldID string) (envelope.Field, error) {
	if c.session != nil {
		return envelope.Field{}, ErrSessionActive
	}
	f, ok := c.store.Field(fieldID)
	if !ok {
		return envelope.Field{}, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	c.store.SelectField(fieldID)
	return f, nil
}

// BeginDrag starts moving a whole field
func (c *Controller) BeginDrag(fieldID string, pointer geometry.Point) error {
	f, err := c.begin(fieldID)
	if err != nil {
		return err
	}
	c.session = &Session{
		Kind:         Dragging,
		FieldID:      f.ID,
		StartPointer: pointer,
		Start:        geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
	}
	c.log.WithField("field_id", f.ID).Debug("drag started")
	return nil
}

// BeginResize starts a corner gesture. Scalable types enter Scaling, resizable
// types enter Resizing, anything else is rejected.
func (c *Controller) BeginResize(fieldID string, corner Corner, pointer geometry.Point) error {
	if _, err := ParseCorner(string(corner)); err != nil {
		return err
	}
	if c.session != nil {
		return ErrSessionActive
	}
	f, ok := c.store.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	var kind Kind
	switch {
	case IsScalable(f.Type):
		kind = Scaling
	case IsResizable(f.Type):
		kind = Resizing
	default:
		return fmt.Errorf("%w: %s", ErrNotResizable, f.Type)
	}

	c.store.SelectField(fieldID)
	c.session = &Session{
		Kind:         kind,
		FieldID:      f.ID,
		Corner:       corner,
		StartPointer: pointer,
		Start:        geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
		StartScale:   f.ScaleValue(),
	}
	c.log.WithFields(logrus.Fields{"field_id": f.ID, "corner": corner, "kind": kind}).Debug("corner gesture started")
	return nil
}

// BeginItemDrag starts moving one radio button or checkbox inside its group
func (c *Controller) BeginItemDrag(fieldID string, index int, pointer geometry.Point) error {
	if c.session != nil {
		return ErrSessionActive
	}
	f, ok := c.store.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	if !f.Type.IsGroup() {
		return fmt.Errorf("%w: %s", ErrNotGroup, f.Type)
	}
	items := f.GroupItems()
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrItemNotFound, index)
	}

	c.store.SelectField(fieldID)
	c.session = &Session{
		Kind:         ItemDragging,
		FieldID:      f.ID,
		ItemIndex:    index,
		StartPointer: pointer,
		Start:        geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
		StartItem:    geometry.Point{X: items[index].X, Y: items[index].Y},
	}
	return nil
}

// Move applies the pointer position to the active session at the given zoom.
// It reports whether the store was updated. Moves without a session, or for a
// field deleted mid-gesture, are ignored.
func (c *Controller) Move(pointer geometry.Point, zoom float64) bool {
	if c.session == nil {
		return false
	}
	s := *c.session
	f, ok := c.store.Field(s.FieldID)
	if !ok {
		return false
	}
	delta := geometry.ScreenDelta(s.StartPointer, pointer, zoom)

	switch s.Kind {
	case Dragging:
		p := ApplyDrag(s, delta)
		c.store.UpdateField(f.ID, envelope.FieldUpdate{X: &p.X, Y: &p.Y})
	case Resizing:
		r := ApplyResize(s, delta)
		c.store.UpdateField(f.ID, envelope.FieldUpdate{X: &r.X, Y: &r.Y, Width: &r.Width, Height: &r.Height})
	case Scaling:
		v := ApplyScale(s, delta)
		c.store.UpdateField(f.ID, envelope.FieldUpdate{ScaleValue: &v})
	case ItemDragging:
		items := f.GroupItems()
		if s.ItemIndex >= len(items) {
			return false
		}
		// copy-on-write so observers see a new list on every change
		next := slices.Clone(items)
		p := ApplyItemDrag(s, delta)
		next[s.ItemIndex].X = p.X
		next[s.ItemIndex].Y = p.Y
		c.store.UpdateField(f.ID, envelope.FieldUpdate{GroupItems: next})
	default:
		return false
	}
	return true
}

// End releases the pointer. The last computed geometry stays committed.
func (c *Controller) End() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	s := *c.session
	c.session = nil
	c.log.WithFields(logrus.Fields{"field_id": s.FieldID, "kind": s.Kind}).Debug("gesture ended")
	return s, true
}

// ApplyDrag returns the field origin for a drag with the given document-space
// delta, clamped to the page's top-left corner.
func ApplyDrag(s Session, delta geometry.Point) geometry.Point {
	return geometry.Point{
		X: math.Max(0, s.Start.X+delta.X),
		Y: math.Max(0, s.Start.Y+delta.Y),
	}
}

// ApplyResize returns the field rectangle for a corner resize. The corner
// opposite the handle stays fixed; its position is derived from the start
// rectangle and the new size.
func ApplyResize(s Session, delta geometry.Point) geometry.Rect {
	st := s.Start
	r := st
	switch s.Corner {
	case CornerSE:
		r.Width = geometry.ClampMin(st.Width+delta.X, geometry.MinFieldWidth)
		r.Height = geometry.ClampMin(st.Height+delta.Y, geometry.MinFieldHeight)
	case CornerSW:
		r.Width = geometry.ClampMin(st.Width-delta.X, geometry.MinFieldWidth)
		r.X = st.X + st.Width - r.Width
		r.Height = geometry.ClampMin(st.Height+delta.Y, geometry.MinFieldHeight)
	case CornerNE:
		r.Width = geometry.ClampMin(st.Width+delta.X, geometry.MinFieldWidth)
		r.Height = geometry.ClampMin(st.Height-delta.Y, geometry.MinFieldHeight)
		r.Y = st.Y + st.Height - r.Height
	case CornerNW:
		r.Width = geometry.ClampMin(st.Width-delta.X, geometry.MinFieldWidth)
		r.Height = geometry.ClampMin(st.Height-delta.Y, geometry.MinFieldHeight)
		r.X = st.X + st.Width - r.Width
		r.Y = st.Y + st.Height - r.Height
	}
	return r
}

// ApplyScale returns the scale percentage for a corner drag on a scalable
// field. The axis that moved more relative to the base size wins; the sign
// depends on which corner is dragged.
func ApplyScale(s Session, delta geometry.Point) int {
	var dx, dy float64
	if s.Start.Width != 0 {
		dx = delta.X / s.Start.Width
	}
	if s.Start.Height != 0 {
		dy = delta.Y / s.Start.Height
	}

	var ratio float64
	switch s.Corner {
	case CornerSE:
		ratio = math.Max(dx, dy)
	case CornerSW:
		ratio = math.Max(-dx, dy)
	case CornerNE:
		ratio = math.Max(dx, -dy)
	default:
		ratio = math.Max(-dx, -dy)
	}

	// clamp before converting so huge ratios cannot overflow int
	start := float64(s.StartScale)
	v := roundHalfUp(start + ratio*start)
	if math.IsNaN(v) {
		return geometry.ClampScale(s.StartScale)
	}
	v = math.Max(geometry.MinScale, math.Min(geometry.MaxScale, v))
	return int(v)
}

// ApplyItemDrag returns the new offset of a dragged sub-item, rounded to
// whole document units.
func ApplyItemDrag(s Session, delta geometry.Point) geometry.Point {
	return geometry.Point{
		X: roundHalfUp(s.StartItem.X + delta.X),
		Y: roundHalfUp(s.StartItem.Y + delta.Y),
	}
}

// roundHalfUp rounds .5 towards positive infinity
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
