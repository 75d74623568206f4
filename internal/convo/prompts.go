package convo

import "strings"

// Canned speech for the fixed points in a session. The opening and
// continue prompts take the configured user name.

func openingPrompt(userName string) string {
	return "Hey " + userName + ". I'm SOLSTIS and I'm here to help. " +
		"If this is a life-threatening emergency, please call 9-1-1 now. " +
		"Otherwise, is there something I can help you with?"
}

func continueHelpPrompt(userName string) string {
	return "Hey " + userName + ", how can I help you?"
}

const (
	closingPrompt = "If you need any further help, please let me know by saying 'SOLSTIS'."

	wakeHintPrompt = "OK, if you need me for any help, say SOLSTIS to wake me up."

	noResponsePrompt = "I am hearing no response, be sure to say 'SOLSTIS' if you need my assistance!"

	stepCompletePrompt = "Say 'STEP COMPLETE' when you're done."

	clarifyHelpPrompt = "I want to make sure I understand correctly. Are you saying you need help with something?"

	doneConfirmPrompt = "Are you all set with the treatment, or is there anything else you need help with?"

	moreHelpPrompt = "What else can I help you with? Please describe what you need."

	doneClarifyPrompt = "I want to make sure I understand. Are you satisfied with the treatment, or do you need help with something else?"

	emergencyStandbyPrompt = "I'm here if you need any additional guidance while getting help. Say 'SOLSTIS' if you need me."

	fallbackReply = "I'm sorry, I'm having trouble processing your request right now."

	// stepDoneTurn is fed to the chat model as the user turn after the
	// step-complete wake word fires, so the model moves to the next step.
	stepDoneTurn = "I've completed the step you asked me to do."
)

// Phrase lists for the done-confirmation branch.
var completionPhrases = []string{
	"yes", "i'm good", "i'm done", "all set", "finished", "that's it",
	"no more", "nothing else", "i'm fine", "good to go", "all good",
}

var continuationPhrases = []string{
	"no", "not yet", "i need", "help me", "more help", "something else",
	"another", "different", "also", "additionally", "further",
}

var fillerWords = map[string]bool{
	"huh": true, "what": true, "um": true, "uh": true, "ah": true,
}

// isNoise reports whether a transcript carries no usable speech: empty,
// too short, a lone filler, or a bracketed non-speech annotation like
// "(wind blowing)".
func isNoise(transcript string) bool {
	s := strings.TrimSpace(transcript)
	if len(s) < 3 {
		return true
	}
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return true
	}
	if fillerWords[strings.ToLower(strings.Trim(s, ".,!?"))] {
		return true
	}
	return false
}

func containsPhrase(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
