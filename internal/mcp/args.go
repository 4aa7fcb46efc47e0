package mcp

import (
	"math"
	"strconv"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
)

// Clients send numbers as JSON numbers or as strings. Values that do not
// parse are treated as absent so the current setting is kept.

func optionalString(args map[string]any, key string) *string {
	switch v := args[key].(type) {
	case string:
		return &v
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		return &s
	case bool:
		s := strconv.FormatBool(v)
		return &s
	}
	return nil
}

func optionalFloat(args map[string]any, key string) *float64 {
	switch v := args[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		f := envelope.ParseFloat(v, math.NaN())
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return &f
	}
	return nil
}

func optionalInt(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		n := int(v)
		return &n
	case int:
		return &v
	case string:
		n := envelope.ParseInt(v, math.MinInt)
		if n == math.MinInt {
			return nil
		}
		return &n
	}
	return nil
}

func optionalBool(args map[string]any, key string) *bool {
	switch v := args[key].(type) {
	case bool:
		return &v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil
		}
		return &b
	}
	return nil
}

// listItems decodes an array of {text, value} objects. Entries that are not
// objects are skipped; nil means the argument was absent.
func listItems(args map[string]any, key string) []envelope.ListItem {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	items := make([]envelope.ListItem, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		var item envelope.ListItem
		if s := optionalString(obj, "text"); s != nil {
			item.Text = *s
		}
		if s := optionalString(obj, "value"); s != nil {
			item.Value = *s
		}
		items = append(items, item)
	}
	return items
}

// fieldUpdate collects the field properties present in args
func fieldUpdate(args map[string]any) envelope.FieldUpdate {
	return envelope.FieldUpdate{
		RecipientID: optionalString(args, "recipientId"),
		PageNumber:  optionalInt(args, "page"),
		X:           optionalFloat(args, "x"),
		Y:           optionalFloat(args, "y"),
		Width:       optionalFloat(args, "width"),
		Height:      optionalFloat(args, "height"),
		Required:    optionalBool(args, "required"),
		ReadOnly:    optionalBool(args, "readOnly"),
		Locked:      optionalBool(args, "locked"),
		Label:       optionalString(args, "label"),
		TabLabel:    optionalString(args, "tabLabel"),
		Tooltip:     optionalString(args, "tooltip"),
		Value:       optionalString(args, "value"),

		FontFamily: optionalString(args, "fontFamily"),
		FontSize:   optionalInt(args, "fontSize"),
		FontColor:  optionalString(args, "fontColor"),
		Bold:       optionalBool(args, "bold"),
		Italic:     optionalBool(args, "italic"),
		Underline:  optionalBool(args, "underline"),

		ConditionalParentLabel: optionalString(args, "conditionalParentLabel"),
		ConditionalParentValue: optionalString(args, "conditionalParentValue"),

		MaxLength:         optionalInt(args, "maxLength"),
		ValidationPattern: optionalString(args, "validationPattern"),
		ValidationMessage: optionalString(args, "validationMessage"),
		ListItems:         listItems(args, "listItems"),
		GroupName:         optionalString(args, "groupName"),
		Formula:           optionalString(args, "formula"),
		ScaleValue:        optionalInt(args, "scale"),
	}
}

// settingsUpdate collects the envelope settings present in args
func settingsUpdate(args map[string]any) envelope.SettingsUpdate {
	u := envelope.SettingsUpdate{
		EmailSubject:      optionalString(args, "emailSubject"),
		EmailBlurb:        optionalString(args, "emailBlurb"),
		ReminderEnabled:   optionalBool(args, "reminderEnabled"),
		ReminderDelay:     optionalInt(args, "reminderDelay"),
		ReminderFrequency: optionalInt(args, "reminderFrequency"),
		ExpireEnabled:     optionalBool(args, "expireEnabled"),
		ExpireAfter:       optionalInt(args, "expireAfter"),
		ExpireWarn:        optionalInt(args, "expireWarn"),
	}
	if s := optionalString(args, "status"); s != nil {
		status := envelope.EnvelopeStatus(*s)
		u.Status = &status
	}
	return u
}
