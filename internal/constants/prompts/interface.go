package prompts

import (
	"sort"

	"github.com/xpanvictor/voicewithin/pkg/assistant"
)

// PromptDefinition is one revision of a system prompt.
type PromptDefinition struct {
	Content string
	Version float32
}

// SYS_PROMPT keeps every revision of a prompt so older ones can be compared
// against the one in use.
type SYS_PROMPT struct {
	Intent         string
	CurrentVersion float32
	Items          map[float32]PromptDefinition // version-content
}

func (sp *SYS_PROMPT) GetVersion(version float32) (PromptDefinition, bool) {
	i, ok := sp.Items[version]
	return i, ok
}

// GetCurrentPrompt returns CurrentVersion, or the newest revision when
// CurrentVersion names one that does not exist.
func (sp *SYS_PROMPT) GetCurrentPrompt() PromptDefinition {
	if pd, ok := sp.Items[sp.CurrentVersion]; ok {
		return pd
	}
	versions := sp.Versions()
	if len(versions) == 0 {
		return PromptDefinition{}
	}
	return sp.Items[versions[len(versions)-1]]
}

// Versions lists the known revisions, oldest first.
func (sp *SYS_PROMPT) Versions() []float32 {
	out := make([]float32, 0, len(sp.Items))
	for v := range sp.Items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (pd PromptDefinition) ToMessage() assistant.AssistantMessage {
	return assistant.NewMessage(assistant.SYSTEM, pd.Content)
}
