package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a3tai/mcp-envelope-editor/internal/descriptions"
	"github.com/a3tai/mcp-envelope-editor/internal/envelope"
	"github.com/a3tai/mcp-envelope-editor/internal/payload"
)

// Formatting methods

func displayName(r envelope.Recipient) string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Email != "":
		return r.Email
	default:
		return "Recipient " + r.ExternalNumber
	}
}

func formatRecipient(r envelope.Recipient) string {
	text := fmt.Sprintf("ID: %s\n", r.ID)
	text += fmt.Sprintf("Name: %s\n", r.Name)
	text += fmt.Sprintf("Email: %s\n", r.Email)
	text += fmt.Sprintf("Type: %s\n", r.Type)
	text += fmt.Sprintf("Routing order: %d\n", r.RoutingOrder)
	text += fmt.Sprintf("Recipient number: %s\n", r.ExternalNumber)
	return text
}

func formatField(f envelope.Field) string {
	text := fmt.Sprintf("ID: %s\n", f.ID)
	text += fmt.Sprintf("Type: %s\n", f.Type)
	text += fmt.Sprintf("Document: %s, page %d\n", f.DocumentID, f.PageNumber)
	text += fmt.Sprintf("Position: (%g, %g)\n", f.X, f.Y)
	if f.Scale != nil {
		text += fmt.Sprintf("Scale: %d%%\n", f.Scale.Value)
	} else {
		text += fmt.Sprintf("Size: %g x %g\n", f.Width, f.Height)
	}
	text += fmt.Sprintf("Recipient: %s\n", f.RecipientID)
	text += fmt.Sprintf("Tab label: %s\n", f.TabLabel)
	if f.Value != "" {
		text += fmt.Sprintf("Value: %s\n", f.Value)
	}
	if f.Radio != nil {
		text += fmt.Sprintf("Group name: %s\n", f.Radio.GroupName)
	}
	if items := f.GroupItems(); f.Type.IsGroup() {
		text += fmt.Sprintf("Items (%d):\n", len(items))
		for i, item := range items {
			mark := " "
			if item.Selected {
				mark = "x"
			}
			text += fmt.Sprintf("  %d. [%s] %s at (%g, %g)\n", i, mark, item.Value, item.X, item.Y)
		}
	}
	if f.List != nil {
		text += fmt.Sprintf("Options (%d):\n", len(f.List.Items))
		for _, item := range f.List.Items {
			text += fmt.Sprintf("  • %s = %s\n", item.Text, item.Value)
		}
	}
	if f.Formula != nil && f.Formula.Expression != "" {
		text += fmt.Sprintf("Formula: %s\n", f.Formula.Expression)
	}
	return text
}

func formatSettings(st envelope.Settings, zoom float64) string {
	text := "Envelope Settings\n"
	text += fmt.Sprintf("Email subject: %s\n", st.EmailSubject)
	if st.EmailBlurb != "" {
		text += fmt.Sprintf("Email message: %s\n", st.EmailBlurb)
	}
	text += fmt.Sprintf("Status: %s\n", st.Status)
	if st.ReminderEnabled {
		text += fmt.Sprintf("Reminders: after %d day(s), every %d day(s)\n", st.ReminderDelay, st.ReminderFrequency)
	} else {
		text += "Reminders: off\n"
	}
	if st.ExpireEnabled {
		text += fmt.Sprintf("Expiration: after %d day(s), warn %d day(s) before\n", st.ExpireAfter, st.ExpireWarn)
	} else {
		text += "Expiration: off\n"
	}
	text += fmt.Sprintf("Zoom: %g\n", zoom)
	return text
}

func (s *Server) formatInfo(snap envelope.Snapshot, counts payload.Counts, storedBytes int64) string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Document Directory: %s\n", s.workspace.Loader().Directory())
	text += fmt.Sprintf("📏 Max File Size: %d MB\n\n", s.workspace.Loader().MaxFileSize()/(1024*1024))

	text += "✉️  Envelope:\n"
	subject := snap.Settings.EmailSubject
	if subject == "" {
		subject = payload.DefaultEmailSubject
	}
	text += fmt.Sprintf("   Subject: %s\n", subject)
	text += fmt.Sprintf("   Status: %s\n", snap.Settings.Status)

	text += fmt.Sprintf("\n📄 Documents (%d), %d bytes stored:\n", len(snap.Documents), storedBytes)
	for _, d := range snap.Documents {
		text += fmt.Sprintf("   %d. %s (%s), %d page(s)\n", d.Order, d.Name, d.ID, d.PageCount)
	}

	text += fmt.Sprintf("\n👤 Recipients (%d):\n", len(snap.Recipients))
	for _, r := range snap.Recipients {
		text += fmt.Sprintf("   %s. %s [%s] (%s), %d tab(s)\n",
			r.ExternalNumber, displayName(r), r.Type, r.ID, counts.TabsByRecipient[r.ExternalNumber])
	}

	text += fmt.Sprintf("\n🏷️  Fields (%d), tabs (%d):\n", len(snap.Fields), counts.Tabs)
	for _, f := range snap.Fields {
		text += fmt.Sprintf("   %s %s on page %d at (%g, %g), tab label %s\n",
			f.ID, f.Type, f.PageNumber, f.X, f.Y, f.TabLabel)
	}
	if len(counts.ByType) > 0 {
		types := make([]string, 0, len(counts.ByType))
		for t := range counts.ByType {
			types = append(types, t)
		}
		sort.Strings(types)
		text += "   By tab type:"
		for _, t := range types {
			text += fmt.Sprintf(" %s=%d", t, counts.ByType[t])
		}
		text += "\n"
	}

	text += "\n🛠️  Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("• %s: %s\n", name, summary)
	}
	return text
}
