package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/a3tai/mcp-envelope-editor/internal/documents"
	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/geometry"
)

// Build loads the layout's documents and replays its recipients and fields
// into a fresh store
func Build(ctx context.Context, layout *Layout, loader *documents.Loader, log logrus.FieldLogger) (*envelope.Store, error) {
	store := envelope.NewStore(envelope.WithLogger(log))

	if err := applySettings(store, layout.Settings); err != nil {
		return nil, err
	}

	docs := make(map[string]envelope.Document, len(layout.Documents))
	for _, d := range layout.Documents {
		loaded, err := loader.Load(ctx, d.Path)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.Key, err)
		}
		docs[d.Key] = documents.AddToStore(store, loaded)
	}
	defaultDoc := docs[layout.Documents[0].Key]

	recipients := make(map[string]string, len(layout.Recipients))
	for _, r := range layout.Recipients {
		id, err := addRecipient(store, r)
		if err != nil {
			return nil, err
		}
		recipients[r.Key] = id
	}

	for i, lf := range layout.Fields {
		doc := defaultDoc
		if lf.Document != "" {
			doc = docs[lf.Document]
		}
		if err := addField(store, lf, doc, recipients[lf.Recipient]); err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	store.DeselectField()

	log.WithFields(logrus.Fields{
		"documents":  len(layout.Documents),
		"recipients": len(layout.Recipients),
		"fields":     len(layout.Fields),
	}).Debug("layout applied")
	return store, nil
}

func applySettings(store *envelope.Store, ls LayoutSettings) error {
	u := envelope.SettingsUpdate{
		EmailSubject:      ls.EmailSubject,
		EmailBlurb:        ls.EmailBlurb,
		ReminderEnabled:   ls.ReminderEnabled,
		ReminderDelay:     ls.ReminderDelay,
		ReminderFrequency: ls.ReminderFrequency,
		ExpireEnabled:     ls.ExpireEnabled,
		ExpireAfter:       ls.ExpireAfter,
		ExpireWarn:        ls.ExpireWarn,
	}
	if ls.Status != nil {
		status := envelope.EnvelopeStatus(*ls.Status)
		if status != envelope.StatusCreated && status != envelope.StatusSent {
			return fmt.Errorf("invalid status: %s (must be created or sent)", *ls.Status)
		}
		u.Status = &status
	}
	store.SetSettings(u)
	return nil
}

func addRecipient(store *envelope.Store, lr LayoutRecipient) (string, error) {
	u := envelope.RecipientUpdate{
		Name:         &lr.Name,
		Email:        &lr.Email,
		RoutingOrder: lr.RoutingOrder,
	}
	if lr.Type != "" {
		t := envelope.RecipientType(lr.Type)
		if !envelope.ValidRecipientType(t) {
			return "", fmt.Errorf("recipient %s: unknown type %q", lr.Key, lr.Type)
		}
		u.Type = &t
	}
	r := store.AddRecipient()
	store.UpdateRecipient(r.ID, u)
	return r.ID, nil
}

func addField(store *envelope.Store, lf LayoutField, doc envelope.Document, recipientID string) error {
	page := lf.Page
	if page == 0 {
		page = 1
	}
	if page < 1 || page > doc.PageCount {
		return fmt.Errorf("page %d out of range (document has %d pages)", page, doc.PageCount)
	}

	// fields are always placed for the active recipient
	store.SetActiveRecipient(recipientID)
	f, ok := store.AddField(envelope.FieldType(lf.Type), doc.ID, page, lf.X, lf.Y)
	if !ok {
		return fmt.Errorf("unknown field type %q", lf.Type)
	}

	u := envelope.FieldUpdate{
		Required:          lf.Required,
		ReadOnly:          lf.ReadOnly,
		Locked:            lf.Locked,
		Label:             lf.Label,
		TabLabel:          lf.TabLabel,
		Tooltip:           lf.Tooltip,
		Value:             lf.Value,
		MaxLength:         lf.MaxLength,
		ValidationPattern: lf.ValidationPattern,
		ValidationMessage: lf.ValidationMessage,
		Formula:           lf.Formula,
		GroupName:         lf.GroupName,
	}
	if lf.Width != nil {
		w := geometry.ClampMin(*lf.Width, geometry.MinFieldWidth)
		u.Width = &w
	}
	if lf.Height != nil {
		h := geometry.ClampMin(*lf.Height, geometry.MinFieldHeight)
		u.Height = &h
	}
	if lf.Scale != nil {
		scale := geometry.ClampScale(*lf.Scale)
		u.ScaleValue = &scale
	}
	if lf.Font != nil {
		u.FontFamily = lf.Font.Family
		u.FontSize = lf.Font.Size
		u.FontColor = lf.Font.Color
		u.Bold = lf.Font.Bold
		u.Italic = lf.Font.Italic
		u.Underline = lf.Font.Underline
	}
	if lf.Options != nil {
		u.ListItems = make([]envelope.ListItem, len(lf.Options))
		for i, o := range lf.Options {
			u.ListItems[i] = envelope.ListItem{Text: o.Text, Value: o.Value}
		}
	}
	if lf.Items != nil {
		if !f.Type.IsGroup() {
			return fmt.Errorf("field type %s has no sub-items", f.Type)
		}
		items, err := groupItems(f.Type, lf.Items)
		if err != nil {
			return err
		}
		u.GroupItems = items
	}

	store.UpdateField(f.ID, u)
	return nil
}

// groupItems converts layout items. A radio group may have at most one
// selected item.
func groupItems(t envelope.FieldType, in []LayoutItem) ([]envelope.GroupItem, error) {
	items := make([]envelope.GroupItem, len(in))
	selected := 0
	for i, it := range in {
		items[i] = envelope.GroupItem{X: it.X, Y: it.Y, Value: it.Value, Selected: it.Selected}
		if it.Selected {
			selected++
		}
	}
	if t == envelope.FieldRadioGroup && selected > 1 {
		return nil, fmt.Errorf("radio group has %d selected items", selected)
	}
	return items, nil
}
