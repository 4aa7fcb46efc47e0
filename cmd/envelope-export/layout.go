package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Layout describes an envelope to assemble without the interactive editor
type Layout struct {
	Settings   LayoutSettings    `yaml:"settings"`
	Documents  []LayoutDocument  `yaml:"documents"`
	Recipients []LayoutRecipient `yaml:"recipients"`
	Fields     []LayoutField     `yaml:"fields"`
}

// LayoutSettings mirrors the envelope settings. Nil values keep the defaults.
type LayoutSettings struct {
	EmailSubject      *string `yaml:"emailSubject"`
	EmailBlurb        *string `yaml:"emailBlurb"`
	Status            *string `yaml:"status"`
	ReminderEnabled   *bool   `yaml:"reminderEnabled"`
	ReminderDelay     *int    `yaml:"reminderDelay"`
	ReminderFrequency *int    `yaml:"reminderFrequency"`
	ExpireEnabled     *bool   `yaml:"expireEnabled"`
	ExpireAfter       *int    `yaml:"expireAfter"`
	ExpireWarn        *int    `yaml:"expireWarn"`
}

// LayoutDocument is a PDF relative to the document directory. Key defaults
// to the path.
type LayoutDocument struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

// LayoutRecipient is referenced from fields by Key
type LayoutRecipient struct {
	Key          string `yaml:"key"`
	Type         string `yaml:"type"`
	Name         string `yaml:"name"`
	Email        string `yaml:"email"`
	RoutingOrder *int   `yaml:"routingOrder"`
}

// LayoutField places one field. Document defaults to the first document and
// Page to 1.
type LayoutField struct {
	Type      string `yaml:"type"`
	Recipient string `yaml:"recipient"`
	Document  string `yaml:"document"`
	Page      int    `yaml:"page"`

	X      float64  `yaml:"x"`
	Y      float64  `yaml:"y"`
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
	Scale  *int     `yaml:"scale"`

	Required *bool   `yaml:"required"`
	ReadOnly *bool   `yaml:"readOnly"`
	Locked   *bool   `yaml:"locked"`
	Label    *string `yaml:"label"`
	TabLabel *string `yaml:"tabLabel"`
	Tooltip  *string `yaml:"tooltip"`
	Value    *string `yaml:"value"`

	Font *LayoutFont `yaml:"font"`

	MaxLength         *int    `yaml:"maxLength"`
	ValidationPattern *string `yaml:"validationPattern"`
	ValidationMessage *string `yaml:"validationMessage"`
	Formula           *string `yaml:"formula"`
	GroupName         *string `yaml:"groupName"`

	Options []LayoutOption `yaml:"options"`
	Items   []LayoutItem   `yaml:"items"`
}

// LayoutFont overrides the default font of a field
type LayoutFont struct {
	Family    *string `yaml:"family"`
	Size      *int    `yaml:"size"`
	Color     *string `yaml:"color"`
	Bold      *bool   `yaml:"bold"`
	Italic    *bool   `yaml:"italic"`
	Underline *bool   `yaml:"underline"`
}

// LayoutOption is a dropdown entry
type LayoutOption struct {
	Text  string `yaml:"text"`
	Value string `yaml:"value"`
}

// LayoutItem is a radio or checkbox item, offset from the field origin
type LayoutItem struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Value    string  `yaml:"value"`
	Selected bool    `yaml:"selected"`
}

// DecodeLayout reads a YAML layout. Unknown keys are rejected so typos do
// not silently drop properties.
func DecodeLayout(r io.Reader) (*Layout, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var layout Layout
	if err := dec.Decode(&layout); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("layout is empty")
		}
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &layout, nil
}

// Validate checks references between sections
func (l *Layout) Validate() error {
	if len(l.Documents) == 0 {
		return fmt.Errorf("layout has no documents")
	}

	docs := make(map[string]bool, len(l.Documents))
	for i := range l.Documents {
		d := &l.Documents[i]
		if d.Path == "" {
			return fmt.Errorf("document %d: path is required", i+1)
		}
		if d.Key == "" {
			d.Key = d.Path
		}
		if docs[d.Key] {
			return fmt.Errorf("duplicate document key: %s", d.Key)
		}
		docs[d.Key] = true
	}

	recipients := make(map[string]bool, len(l.Recipients))
	for i, r := range l.Recipients {
		if r.Key == "" {
			return fmt.Errorf("recipient %d: key is required", i+1)
		}
		if recipients[r.Key] {
			return fmt.Errorf("duplicate recipient key: %s", r.Key)
		}
		recipients[r.Key] = true
	}

	for i, f := range l.Fields {
		if f.Type == "" {
			return fmt.Errorf("field %d: type is required", i+1)
		}
		if !recipients[f.Recipient] {
			return fmt.Errorf("field %d: unknown recipient %q", i+1, f.Recipient)
		}
		if f.Document != "" && !docs[f.Document] {
			return fmt.Errorf("field %d: unknown document %q", i+1, f.Document)
		}
	}
	return nil
}
