package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeLayout(t *testing.T) {
	input := `
settings:
  emailSubject: Lease renewal
  status: created
documents:
  - path: lease.pdf
  - key: annex
    path: annex/a.pdf
recipients:
  - key: tenant
    name: Jane
fields:
  - type: signHere
    recipient: tenant
    x: 100
    y: 200
  - type: dateSigned
    recipient: tenant
    document: annex
    page: 2
`
	layout, err := DecodeLayout(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, layout.Documents, 2)
	assert.Equal(t, "lease.pdf", layout.Documents[0].Key, "key defaults to the path")
	assert.Equal(t, "annex", layout.Documents[1].Key)
	require.NotNil(t, layout.Settings.EmailSubject)
	assert.Equal(t, "Lease renewal", *layout.Settings.EmailSubject)
	assert.Nil(t, layout.Settings.ReminderEnabled)
	require.Len(t, layout.Fields, 2)
	assert.Equal(t, 2, layout.Fields[1].Page)
	assert.Equal(t, 100.0, layout.Fields[0].X)
}

func TestDecodeLayout_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty",
			input:   "",
			wantErr: "layout is empty",
		},
		{
			name:    "unknown key",
			input:   "documents:\n  - path: a.pdf\n    colour: red\n",
			wantErr: "failed to parse layout",
		},
		{
			name:    "no documents",
			input:   "recipients:\n  - key: a\n",
			wantErr: "layout has no documents",
		},
		{
			name:    "document without path",
			input:   "documents:\n  - key: a\n",
			wantErr: "document 1: path is required",
		},
		{
			name:    "duplicate document",
			input:   "documents:\n  - path: a.pdf\n  - path: a.pdf\n",
			wantErr: "duplicate document key: a.pdf",
		},
		{
			name:    "recipient without key",
			input:   "documents:\n  - path: a.pdf\nrecipients:\n  - name: Jane\n",
			wantErr: "recipient 1: key is required",
		},
		{
			name:    "duplicate recipient",
			input:   "documents:\n  - path: a.pdf\nrecipients:\n  - key: a\n  - key: a\n",
			wantErr: "duplicate recipient key: a",
		},
		{
			name:    "field without type",
			input:   "documents:\n  - path: a.pdf\nrecipients:\n  - key: a\nfields:\n  - recipient: a\n",
			wantErr: "field 1: type is required",
		},
		{
			name:    "unknown recipient",
			input:   "documents:\n  - path: a.pdf\nfields:\n  - type: text\n    recipient: b\n",
			wantErr: `field 1: unknown recipient "b"`,
		},
		{
			name:    "unknown document",
			input:   "documents:\n  - path: a.pdf\nrecipients:\n  - key: a\nfields:\n  - type: text\n    recipient: a\n    document: b.pdf\n",
			wantErr: `field 1: unknown document "b.pdf"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLayout(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
