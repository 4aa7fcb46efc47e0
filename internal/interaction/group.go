package interaction

import (
	"fmt"
	"slices"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/geometry"
)

// Group overlay layout, in document units
const (
	RadioItemSize    = 20.0
	CheckboxItemSize = 20.0
	GroupPadding     = 12.0
	ItemGap          = 8.0
)

// ItemSize returns the side length of a sub-item of the given group type
func ItemSize(t envelope.FieldType) float64 {
	if t == envelope.FieldRadioGroup {
		return RadioItemSize
	}
	return CheckboxItemSize
}

func itemOffsets(items []envelope.GroupItem) []geometry.Point {
	pts := make([]geometry.Point, len(items))
	for i, it := range items {
		pts[i] = geometry.Point{X: it.X, Y: it.Y}
	}
	return pts
}

// GroupBounds returns the dashed box drawn around a group's items
func GroupBounds(f envelope.Field) geometry.Rect {
	origin := geometry.Point{X: f.X, Y: f.Y}
	return geometry.BoundingBoxOf(origin, itemOffsets(f.GroupItems()), ItemSize(f.Type), GroupPadding)
}

// ItemRects returns the absolute rectangle of every sub-item
func ItemRects(f envelope.Field) []geometry.Rect {
	size := ItemSize(f.Type)
	items := f.GroupItems()
	rects := make([]geometry.Rect, len(items))
	for i, it := range items {
		rects[i] = geometry.Rect{X: f.X + it.X, Y: f.Y + it.Y, Width: size, Height: size}
	}
	return rects
}

// HitItem returns the index of the topmost sub-item under p, or -1
func HitItem(f envelope.Field, p geometry.Point) int {
	rects := ItemRects(f)
	for i := len(rects) - 1; i >= 0; i-- {
		if rects[i].Contains(p) {
			return i
		}
	}
	return -1
}

// groupField loads a field and checks it has sub-items
func groupField(store FieldStore, fieldID string) (envelope.Field, error) {
	f, ok := store.Field(fieldID)
	if !ok {
		return envelope.Field{}, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}
	if !f.Type.IsGroup() {
		return envelope.Field{}, fmt.Errorf("%w: %s", ErrNotGroup, f.Type)
	}
	return f, nil
}

// AddGroupItem appends a sub-item directly below the last one, or at the field
// origin when the group is empty. It returns the index of the new item.
func AddGroupItem(store FieldStore, fieldID string) (int, error) {
	f, err := groupField(store, fieldID)
	if err != nil {
		return -1, err
	}
	items := slices.Clone(f.GroupItems())

	prefix := "Check"
	if f.Type == envelope.FieldRadioGroup {
		prefix = "Radio"
	}
	next := envelope.GroupItem{Value: fmt.Sprintf("%s%d", prefix, len(items)+1)}
	if n := len(items); n > 0 {
		last := items[n-1]
		next.X = last.X
		next.Y = last.Y + ItemSize(f.Type) + ItemGap
	}
	items = append(items, next)

	store.UpdateField(fieldID, envelope.FieldUpdate{GroupItems: items})
	return len(items) - 1, nil
}

// SetItemSelected changes the selected flag of a sub-item. Selecting a radio
// button deselects every other radio in the group.
func SetItemSelected(store FieldStore, fieldID string, index int, selected bool) error {
	f, err := groupField(store, fieldID)
	if err != nil {
		return err
	}
	items := slices.Clone(f.GroupItems())
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrItemNotFound, index)
	}

	exclusive := f.Type == envelope.FieldRadioGroup && selected
	for i := range items {
		switch {
		case i == index:
			items[i].Selected = selected
		case exclusive:
			items[i].Selected = false
		}
	}
	store.UpdateField(fieldID, envelope.FieldUpdate{GroupItems: items})
	return nil
}

// SetItemValue renames a sub-item
func SetItemValue(store FieldStore, fieldID string, index int, value string) error {
	f, err := groupField(store, fieldID)
	if err != nil {
		return err
	}
	items := slices.Clone(f.GroupItems())
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrItemNotFound, index)
	}
	items[index].Value = value
	store.UpdateField(fieldID, envelope.FieldUpdate{GroupItems: items})
	return nil
}

// RemoveGroupItem deletes one sub-item. The group field itself is kept even
// when it becomes empty.
func RemoveGroupItem(store FieldStore, fieldID string, index int) error {
	f, err := groupField(store, fieldID)
	if err != nil {
		return err
	}
	items := f.GroupItems()
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d", ErrItemNotFound, index)
	}
	next := slices.Delete(slices.Clone(items), index, index+1)
	store.UpdateField(fieldID, envelope.FieldUpdate{GroupItems: next})
	return nil
}
