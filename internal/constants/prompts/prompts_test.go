package prompts

import (
	"strings"
	"testing"

	"github.com/xpanvictor/voicewithin/pkg/assistant"
)

func TestSummarizePrompt(t *testing.T) {
	current := SUMMARIZE_PROMPT.GetCurrentPrompt()
	if current.Version != SUMMARIZE_PROMPT.CurrentVersion {
		t.Errorf("Current prompt version %v, want %v", current.Version, SUMMARIZE_PROMPT.CurrentVersion)
	}
	for _, phrase := range []string{"bullet points", "filler", "Organize"} {
		if !strings.Contains(current.Content, phrase) {
			t.Errorf("Prompt should mention %q", phrase)
		}
	}

	if _, ok := SUMMARIZE_PROMPT.GetVersion(0.1); !ok {
		t.Error("Version 0.1 should still be available")
	}
	if _, ok := SUMMARIZE_PROMPT.GetVersion(9); ok {
		t.Error("Unknown version should not resolve")
	}

	msg := current.ToMessage()
	if msg.MsgRole != assistant.SYSTEM {
		t.Errorf("Prompt message role = %q, want system", msg.MsgRole)
	}
}

func TestCurrentPromptFallsBackToNewest(t *testing.T) {
	sp := SYS_PROMPT{
		Intent:         "Test",
		CurrentVersion: 3,
		Items: map[float32]PromptDefinition{
			2:   {Version: 2, Content: "two"},
			0.5: {Version: 0.5, Content: "half"},
		},
	}
	if got := sp.GetCurrentPrompt().Content; got != "two" {
		t.Errorf("GetCurrentPrompt() = %q, want newest revision", got)
	}
	if v := sp.Versions(); len(v) != 2 || v[0] != 0.5 || v[1] != 2 {
		t.Errorf("Versions() = %v", v)
	}

	empty := SYS_PROMPT{}
	if got := empty.GetCurrentPrompt(); got.Content != "" {
		t.Errorf("Empty prompt set should yield an empty definition, got %+v", got)
	}
}
