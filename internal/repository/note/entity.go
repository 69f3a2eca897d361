package note

import (
	"strings"

	"github.com/xpanvictor/voicewithin/internal/domains/note"
)

const headerLayout = "15:04:05"

// FormatSection renders an entry as a markdown section:
//
//	## 14:05:00
//
//	<body>
//
// Fallback entries carry the raw-transcript label above the body.
func FormatSection(entry note.NoteEntry) string {
	var sb strings.Builder
	sb.WriteString("## ")
	sb.WriteString(entry.Timestamp.Format(headerLayout))
	sb.WriteString("\n\n")
	if entry.Fallback {
		sb.WriteString(note.FallbackLabel)
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.TrimSpace(entry.Body))
	sb.WriteString("\n\n")
	return sb.String()
}
