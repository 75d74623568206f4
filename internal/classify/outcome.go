// Package classify holds the lexical classifiers that steer the
// conversation: the reply-outcome scorer and the yes/no intent
// detector. Both are pure functions over lowercased text so the state
// machine stays deterministic and testable without audio or a model.
package classify

import "strings"

// Outcome is what an assistant reply implies about the next turn.
type Outcome int

const (
	// OutcomeNeedMoreInfo means the assistant asked a question and the
	// user should answer immediately.
	OutcomeNeedMoreInfo Outcome = iota
	// OutcomeUserActionRequired means the user was told to perform a
	// physical step and confirm when finished.
	OutcomeUserActionRequired
	// OutcomeProcedureDone means the treatment appears complete.
	OutcomeProcedureDone
	// OutcomeEmergency means the user was directed to emergency services.
	OutcomeEmergency
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNeedMoreInfo:
		return "need_more_info"
	case OutcomeUserActionRequired:
		return "user_action_required"
	case OutcomeProcedureDone:
		return "procedure_done"
	case OutcomeEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

var userActionPhrases = map[string]float64{
	"let me know when":     0.9,
	"when you're done":     0.9,
	"when you're ready":    0.8,
	"say step complete":    0.95,
	"tell me when":         0.8,
	"apply":                0.7,
	"use":                  0.6,
	"place":                0.6,
	"put on":               0.7,
	"secure":               0.6,
	"wrap":                 0.6,
	"cover":                0.6,
	"from your kit":        0.8,
	"from the highlighted": 0.8,
	"please apply":         0.8,
	"please use":           0.7,
	"please place":         0.7,
	"now apply":            0.8,
	"now use":              0.7,
}

var procedureDonePhrases = map[string]float64{
	"procedure is complete":    0.95,
	"treatment is done":        0.9,
	"you're all set":           0.8,
	"that should help":         0.7,
	"you should be fine":       0.8,
	"take care":                0.6,
	"you're good":              0.7,
	"all done":                 0.8,
	"procedure complete":       0.9,
	"treatment complete":       0.9,
	"finished":                 0.7,
	"completed":                0.8,
	"you should be okay":       0.8,
	"you'll be fine":           0.8,
	"everything looks good":    0.8,
	"keep an eye on":           0.6,
	"monitor":                  0.6,
	"watch for":                0.6,
	"healthcare professional":  0.7,
	"see a doctor":             0.7,
	"medical attention":        0.7,
	"excellent":                0.5,
	"well done":                0.5,
	"great job":                0.5,
	"is there anything else":   0.4,
	"anything else i can help": 0.4,
}

var needMoreInfoPhrases = map[string]float64{
	"where exactly":        0.9,
	"how big":              0.8,
	"how much":             0.8,
	"how long":             0.8,
	"what does":            0.8,
	"can you tell me":      0.8,
	"is it":                0.6,
	"are you":              0.6,
	"do you":               0.6,
	"what kind":            0.8,
	"which":                0.7,
	"how severe":           0.8,
	"describe":             0.8,
	"explain":              0.8,
	"tell me more":         0.8,
	"i need to know":       0.8,
	"before i can help":    0.8,
	"to better understand": 0.8,
	"to assess":            0.8,
}

var emergencyPhrases = map[string]float64{
	"emergency room":              0.9,
	"call 9-1-1":                  0.95,
	"immediate medical attention": 0.9,
	"seek immediate":              0.8,
	"go to the nearest":           0.8,
	"call for medical help":       0.9,
	"emergency care":              0.9,
	"urgent medical":              0.8,
	"critical situation":          0.9,
}

// contextBonus is added to a candidate outcome when the recent
// assistant turns already point in its direction.
const contextBonus = 0.2

var contextQuestionWords = []string{"where", "how", "what", "describe"}
var contextActionWords = []string{"apply", "use", "place", "put"}

func phraseScore(text string, phrases map[string]float64) float64 {
	var score float64
	for p, w := range phrases {
		if strings.Contains(text, p) {
			score += w
		}
	}
	return score
}

// ClassifyOutcome scores an assistant reply against the four outcome
// phrase tables. recentAssistant carries the last few assistant turns
// (newest last) and nudges the score when the conversation was already
// questioning or instructing. Confidence is capped at 1.
func ClassifyOutcome(reply string, recentAssistant []string) (Outcome, float64) {
	text := strings.ToLower(reply)

	scores := map[Outcome]float64{
		OutcomeUserActionRequired: phraseScore(text, userActionPhrases),
		OutcomeProcedureDone:      phraseScore(text, procedureDonePhrases),
		OutcomeNeedMoreInfo:       phraseScore(text, needMoreInfoPhrases),
		OutcomeEmergency:          phraseScore(text, emergencyPhrases),
	}

	recent := strings.ToLower(strings.Join(recentAssistant, " "))
	if recent != "" {
		if containsAny(recent, contextQuestionWords) {
			scores[OutcomeNeedMoreInfo] += contextBonus
		}
		if containsAny(recent, contextActionWords) {
			scores[OutcomeUserActionRequired] += contextBonus
		}
	}

	// Ties break toward the more urgent outcome.
	priority := []Outcome{
		OutcomeEmergency,
		OutcomeProcedureDone,
		OutcomeUserActionRequired,
		OutcomeNeedMoreInfo,
	}
	best := OutcomeNeedMoreInfo
	var bestScore float64
	for _, o := range priority {
		if scores[o] > bestScore {
			best = o
			bestScore = scores[o]
		}
	}
	if bestScore == 0 {
		return OutcomeNeedMoreInfo, 0
	}
	if bestScore > 1 {
		bestScore = 1
	}
	return best, bestScore
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
