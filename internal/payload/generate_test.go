package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
)

func newStore() *envelope.Store {
	n := 0
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return envelope.NewStore(
		envelope.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%04d", n)
		}),
		envelope.WithLogger(logger),
	)
}

func fixtureSnapshot() envelope.Snapshot {
	return envelope.Snapshot{
		Settings: envelope.DefaultSettings(),
		Documents: []envelope.Document{
			{ID: "d1", Name: "contract.v2.pdf", PageCount: 2, Order: 5},
		},
		Recipients: []envelope.Recipient{
			{ID: "r1", Type: envelope.RecipientSigners, Name: "Ada", Email: "ada@example.com", RoutingOrder: 1, ExternalNumber: "1"},
		},
		Fields: []envelope.Field{
			{
				ID: "f1", Type: envelope.FieldSignHere, DocumentID: "d1", RecipientID: "r1",
				PageNumber: 2, X: 10.5, Y: 20.4, Width: 74, Height: 44, Required: true,
				TabLabel: "signHere-1-1001", Font: envelope.DefaultFont,
				Scale: &envelope.ScaleConfig{Value: 150},
			},
			{
				ID: "f2", Type: envelope.FieldRadioGroup, DocumentID: "d1", RecipientID: "r1",
				PageNumber: 1, X: 100, Y: 100, Width: 20, Height: 20,
				TabLabel: "radioGroup-1-1001",
				Radio: &envelope.RadioGroupConfig{
					GroupName: "RadioGroup_abc123",
					Items: []envelope.GroupItem{
						{X: 0, Y: 0, Value: "A", Selected: true},
						{X: 0, Y: 28, Value: "B"},
					},
				},
			},
		},
	}
}

func TestGenerate_Fixture(t *testing.T) {
	want := Envelope{
		EmailSubject: DefaultEmailSubject,
		Status:       "sent",
		Documents: []Document{
			{DocumentID: "1", Name: "contract.v2.pdf", FileExtension: "pdf", DocumentBase64: DocumentContentPlaceholder, Order: "5"},
		},
		Recipients: map[string][]Recipient{
			"signers": {{
				RecipientID:  "1",
				Name:         "Ada",
				Email:        "ada@example.com",
				RoutingOrder: "1",
				Tabs: map[string][]Tab{
					"signHereTabs": {{
						DocumentID: "1", PageNumber: "2", XPosition: "11", YPosition: "20",
						TabLabel: "signHere-1-1001", TabOrder: "1", Required: "true",
						ScaleValue: "150", Font: "Lucida Console", FontSize: "Size9", FontColor: "Black",
					}},
					"radioGroupTabs": {{
						DocumentID: "1", PageNumber: "1", XPosition: "100", YPosition: "100",
						TabLabel: "radioGroup-1-1001", TabOrder: "2", Required: "false",
						Width: "20", Height: "20",
						RadioGroupTab: &RadioGroupTab{
							GroupName: "RadioGroup_abc123",
							Radios: []Radio{
								{PageNumber: "1", XPosition: "100", YPosition: "100", Value: "A", Selected: "true"},
								{PageNumber: "1", XPosition: "100", YPosition: "128", Value: "B", Selected: "false"},
							},
						},
					}},
				},
			}},
		},
	}

	got := Generate(fixtureSnapshot())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	snap := fixtureSnapshot()
	before := fixtureSnapshot()

	first := Generate(snap)
	second := Generate(snap)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated Generate() differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(before, snap); diff != "" {
		t.Errorf("Generate() mutated the snapshot (-before +after):\n%s", diff)
	}

	a, err := Marshal(first)
	require.NoError(t, err)
	b, err := Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestGenerate_CheckboxGroupFlattened(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("form.pdf", []byte("%PDF"), 1)
	s.AddRecipient()

	_, ok := s.AddField(envelope.FieldText, doc.ID, 1, 10, 10)
	require.True(t, ok)
	group, ok := s.AddField(envelope.FieldCheckboxGroup, doc.ID, 1, 100, 200)
	require.True(t, ok)
	tooltip := "pick any"
	locked := true
	s.UpdateField(group.ID, envelope.FieldUpdate{Tooltip: &tooltip, Locked: &locked})
	_, ok = s.AddField(envelope.FieldSignHere, doc.ID, 1, 10, 300)
	require.True(t, ok)

	env := Generate(s.Snapshot())
	rec := env.Recipients["signers"][0]
	boxes := rec.Tabs["checkboxTabs"]
	require.Len(t, boxes, 3)

	for i, tab := range boxes {
		assert.Equal(t, fmt.Sprint(i+2), tab.TabOrder, "checkbox %d", i)
		assert.Equal(t, "100", tab.XPosition)
		assert.Equal(t, fmt.Sprint(200+28*i), tab.YPosition)
		assert.Equal(t, fmt.Sprintf("Check%d", i+1), tab.TabLabel)
		assert.Equal(t, "pick any", tab.ToolTip)
		assert.Equal(t, "true", tab.Locked)
		assert.Empty(t, tab.Width)
		assert.Empty(t, tab.Font)
	}
	assert.Equal(t, "true", boxes[0].Selected)
	assert.Equal(t, "false", boxes[1].Selected)

	assert.Equal(t, "1", rec.Tabs["textTabs"][0].TabOrder)
	assert.Equal(t, "5", rec.Tabs["signHereTabs"][0].TabOrder)
}

func TestGenerate_EmptyCheckboxGroup(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("form.pdf", nil, 1)
	s.AddRecipient()
	group, _ := s.AddField(envelope.FieldCheckboxGroup, doc.ID, 1, 0, 0)
	s.UpdateField(group.ID, envelope.FieldUpdate{GroupItems: []envelope.GroupItem{}})
	_, _ = s.AddField(envelope.FieldText, doc.ID, 1, 0, 50)

	rec := Generate(s.Snapshot()).Recipients["signers"][0]
	tabs, ok := rec.Tabs["checkboxTabs"]
	assert.True(t, ok)
	assert.Empty(t, tabs)
	assert.Equal(t, "1", rec.Tabs["textTabs"][0].TabOrder)
}

func TestGenerate_Notification(t *testing.T) {
	tests := []struct {
		name     string
		reminder bool
		expire   bool
		want     *Notification
	}{
		{name: "both disabled", want: nil},
		{
			name:     "reminders only",
			reminder: true,
			want: &Notification{
				UseAccountDefaults: "false",
				Reminders:          Reminders{ReminderEnabled: "true", ReminderDelay: "1", ReminderFrequency: "1"},
				Expirations:        Expirations{ExpireEnabled: "false", ExpireAfter: "120", ExpireWarn: "3"},
			},
		},
		{
			name:   "expiration only",
			expire: true,
			want: &Notification{
				UseAccountDefaults: "false",
				Reminders:          Reminders{ReminderEnabled: "false", ReminderDelay: "1", ReminderFrequency: "1"},
				Expirations:        Expirations{ExpireEnabled: "true", ExpireAfter: "120", ExpireWarn: "3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := envelope.Snapshot{Settings: envelope.DefaultSettings()}
			snap.Settings.ReminderEnabled = tt.reminder
			snap.Settings.ExpireEnabled = tt.expire

			env := Generate(snap)
			assert.Equal(t, tt.want, env.Notification)

			data, err := Marshal(env)
			require.NoError(t, err)
			var raw map[string]any
			require.NoError(t, json.Unmarshal(data, &raw))
			_, present := raw["notification"]
			assert.Equal(t, tt.want != nil, present)
		})
	}
}

func TestGenerate_OptionalAttributesOmitted(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("a.pdf", nil, 1)
	s.AddRecipient()
	f, _ := s.AddField(envelope.FieldText, doc.ID, 1, 0, 0)
	empty := ""
	s.UpdateField(f.ID, envelope.FieldUpdate{FontFamily: &empty, FontColor: &empty})

	data, err := Marshal(Generate(s.Snapshot()))
	require.NoError(t, err)

	var env struct {
		Recipients map[string][]struct {
			Tabs map[string][]map[string]any `json:"tabs"`
		} `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	tab := env.Recipients["signers"][0].Tabs["textTabs"][0]

	for _, key := range []string{"toolTip", "font", "fontColor", "bold", "italic", "underline", "locked", "readOnly", "value", "selected", "conditionalParentLabel", "validationPattern", "scaleValue", "listItems", "radios"} {
		assert.NotContains(t, tab, key)
	}
	assert.Equal(t, "Size9", tab["fontSize"])
	assert.Equal(t, "4000", tab["maxLength"])
	assert.Equal(t, "true", tab["required"])
	assert.Equal(t, "150", tab["width"])

	// every leaf is a string
	for key, v := range tab {
		_, isString := v.(string)
		assert.True(t, isString, "%s is %T", key, v)
	}
}

func TestGenerate_TypeSpecificAttributes(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("a.pdf", nil, 1)
	s.AddRecipient()

	list, _ := s.AddField(envelope.FieldList, doc.ID, 1, 0, 0)
	formula, _ := s.AddField(envelope.FieldFormula, doc.ID, 1, 0, 40)
	blank, _ := s.AddField(envelope.FieldFormula, doc.ID, 1, 0, 80)
	number, _ := s.AddField(envelope.FieldNumber, doc.ID, 1, 0, 120)

	expr := "[a] + [b]"
	s.UpdateField(formula.ID, envelope.FieldUpdate{Formula: &expr})
	pattern, msg := `^\d+$`, "digits only"
	s.UpdateField(number.ID, envelope.FieldUpdate{ValidationPattern: &pattern, ValidationMessage: &msg})
	val := "option1"
	s.UpdateField(list.ID, envelope.FieldUpdate{Value: &val})

	rec := Generate(s.Snapshot()).Recipients["signers"][0]

	lt := rec.Tabs["listTabs"][0]
	assert.Equal(t, []ListItem{{Text: "Option 1", Value: "option1"}}, lt.ListItems)
	assert.Equal(t, "option1", lt.Value)

	ft := rec.Tabs["formulaTabs"]
	require.Len(t, ft, 2)
	assert.Equal(t, expr, ft[0].Formula)
	assert.Empty(t, ft[1].Formula)
	assert.Equal(t, blank.TabLabel, ft[1].TabLabel)

	nt := rec.Tabs["numberTabs"][0]
	assert.Equal(t, pattern, nt.ValidationPattern)
	assert.Equal(t, msg, nt.ValidationMessage)
	assert.Equal(t, "4000", nt.MaxLength)
}

func TestGenerate_EmptiedGroupsKeepTheirKeys(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("a.pdf", nil, 1)
	s.AddRecipient()

	radio, _ := s.AddField(envelope.FieldRadioGroup, doc.ID, 1, 0, 0)
	list, _ := s.AddField(envelope.FieldList, doc.ID, 1, 0, 40)
	s.AddField(envelope.FieldText, doc.ID, 1, 0, 80)
	s.UpdateField(radio.ID, envelope.FieldUpdate{GroupItems: []envelope.GroupItem{}})
	s.UpdateField(list.ID, envelope.FieldUpdate{ListItems: []envelope.ListItem{}})

	data, err := Marshal(Generate(s.Snapshot()))
	require.NoError(t, err)

	var decoded struct {
		Recipients map[string][]struct {
			Tabs map[string][]map[string]json.RawMessage `json:"tabs"`
		} `json:"recipients"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	tabs := decoded.Recipients["signers"][0].Tabs

	rt := tabs["radioGroupTabs"][0]
	require.Contains(t, rt, "radios")
	assert.JSONEq(t, `[]`, string(rt["radios"]))
	require.Contains(t, rt, "groupName")
	assert.JSONEq(t, `"`+radio.Radio.GroupName+`"`, string(rt["groupName"]))

	lt := tabs["listTabs"][0]
	require.Contains(t, lt, "listItems")
	assert.JSONEq(t, `[]`, string(lt["listItems"]))

	tt := tabs["textTabs"][0]
	assert.NotContains(t, tt, "listItems")
	assert.NotContains(t, tt, "radios")
	assert.NotContains(t, tt, "groupName")
}

func TestGenerate_PlainCheckbox(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"true", "true"},
		{"yes", "true"},
		{"no", "false"},
		{"", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			snap := fixtureSnapshot()
			snap.Fields = []envelope.Field{{
				ID: "c", Type: envelope.FieldCheckbox, DocumentID: "d1", RecipientID: "r1",
				PageNumber: 1, Width: 20, Height: 20, Value: tt.value,
			}}
			tab := Generate(snap).Recipients["signers"][0].Tabs["checkboxTabs"][0]
			assert.Equal(t, tt.want, tab.Selected)
			assert.Empty(t, tab.Value)
		})
	}
}

func TestGenerate_DocumentsAndRoles(t *testing.T) {
	s := newStore()
	first := s.AddDocument("one.pdf", nil, 1)
	s.AddDocument("two.PDF", nil, 1)
	s.AddDocument("README", nil, 1)
	s.RemoveDocument(first.ID)

	signer := s.AddRecipient()
	cc := s.AddRecipient()
	agent := s.AddRecipient()
	ccType := envelope.RecipientCarbonCopies
	agentType := envelope.RecipientAgents
	s.UpdateRecipient(cc.ID, envelope.RecipientUpdate{Type: &ccType})
	s.UpdateRecipient(agent.ID, envelope.RecipientUpdate{Type: &agentType})

	env := Generate(s.Snapshot())

	require.Len(t, env.Documents, 2)
	assert.Equal(t, "1", env.Documents[0].DocumentID)
	assert.Equal(t, "2", env.Documents[0].Order, "order keeps the upload order")
	assert.Equal(t, "PDF", env.Documents[0].FileExtension)
	assert.Equal(t, "2", env.Documents[1].DocumentID)
	assert.Equal(t, "README", env.Documents[1].FileExtension)

	assert.Len(t, env.Recipients["signers"], 1)
	assert.Len(t, env.Recipients["carbonCopies"], 1)
	assert.Len(t, env.Recipients["agents"], 1)
	assert.Equal(t, signer.ExternalNumber, env.Recipients["signers"][0].RecipientID)
	assert.Equal(t, "2", env.Recipients["carbonCopies"][0].RoutingOrder)
	assert.NotNil(t, env.Recipients["agents"][0].Tabs)
}

func TestGenerate_RoundTripCounts(t *testing.T) {
	s := newStore()
	doc := s.AddDocument("a.pdf", nil, 3)
	r1 := s.AddRecipient()
	r2 := s.AddRecipient()

	for _, ft := range []envelope.FieldType{envelope.FieldSignHere, envelope.FieldText, envelope.FieldDateSigned} {
		_, ok := s.AddField(ft, doc.ID, 1, 0, 0)
		require.True(t, ok)
	}
	s.SetActiveRecipient(r2.ID)
	_, ok := s.AddField(envelope.FieldCheckboxGroup, doc.ID, 2, 0, 0)
	require.True(t, ok)
	_, ok = s.AddField(envelope.FieldRadioGroup, doc.ID, 2, 0, 0)
	require.True(t, ok)

	data, err := Marshal(Generate(s.Snapshot()))
	require.NoError(t, err)

	var decoded Envelope
	require.NoError(t, json.Unmarshal(data, &decoded))
	c := Count(decoded)

	assert.Equal(t, 1, c.Documents)
	assert.Equal(t, 2, c.Recipients)
	assert.Equal(t, 3, c.TabsByRecipient[r1.ExternalNumber])
	assert.Equal(t, 4, c.TabsByRecipient[r2.ExternalNumber], "3 checkboxes + 1 radio group")
	assert.Equal(t, 7, c.Tabs)
	assert.Equal(t, 3, c.ByType["checkboxTabs"])
	assert.Equal(t, 1, c.ByType["dateSignedTabs"])
}

func TestTabType(t *testing.T) {
	tests := map[envelope.FieldType]string{
		envelope.FieldSignHere:      "signHereTabs",
		envelope.FieldDateSigned:    "dateSignedTabs",
		envelope.FieldCheckboxGroup: "checkboxTabs",
		envelope.FieldCheckbox:      "checkboxTabs",
		envelope.FieldFormula:       "formulaTabs",
		envelope.FieldAttachment:    "signerAttachmentTabs",
		envelope.FieldStampHere:     "stampHereTabs",
		envelope.FieldType("smart"): "smartTabs",
	}
	for ft, want := range tests {
		assert.Equal(t, want, TabType(ft), ft)
	}
}

func TestFormatCoord(t *testing.T) {
	assert.Equal(t, "11", formatCoord(10.5))
	assert.Equal(t, "10", formatCoord(10.49))
	assert.Equal(t, "0", formatCoord(-0.5))
	assert.Equal(t, "-1", formatCoord(-0.51))
}
