package prompts

var (
	SUMMARIZE_PROMPT = SYS_PROMPT{
		Intent:         "Summarize",
		CurrentVersion: 0.2,
		Items: map[float32]PromptDefinition{
			0.1: {
				Version: 0.1,
				Content: `Summarize the following voice note.`,
			},
			0.2: {
				Version: 0.2,
				Content: `You turn spoken voice notes into written notes.
Convert the transcript into concise bullet points.
Strip filler words, false starts and repetition.
Organize related points together under short headings when there is more than one topic.
Keep every concrete fact, name, date, number and action item.
Reply with the markdown bullets only, no preamble.`,
			},
		},
	}
)
