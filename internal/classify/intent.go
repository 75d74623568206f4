package classify

import "strings"

// Intent is a coarse yes/no read of a short user utterance, used for
// the opening question and the done-confirmation question.
type Intent int

const (
	IntentUnclear Intent = iota
	IntentYes
	IntentNo
)

func (i Intent) String() string {
	switch i {
	case IntentYes:
		return "yes"
	case IntentNo:
		return "no"
	default:
		return "unclear"
	}
}

var yesPhrases = map[string]float64{
	"yes": 1.0, "yeah": 0.9, "yep": 0.9, "yup": 0.9,
	"sure": 0.8, "absolutely": 0.9, "definitely": 0.9,
	"of course": 0.8, "certainly": 0.8,
	"help": 0.8, "assistance": 0.8, "assist": 0.7, "support": 0.6,
	"need": 0.7, "require": 0.6, "want": 0.5,
	"hurt": 0.9, "injured": 0.9, "pain": 0.8, "bleeding": 0.9,
	"cut": 0.8, "wound": 0.8, "injury": 0.8, "emergency": 0.9,
	"medical": 0.8, "first aid": 0.9, "treatment": 0.7,
	"bandage": 0.7, "bandages": 0.7, "supplies": 0.6,
	"problem": 0.6, "issue": 0.6, "wrong": 0.5, "trouble": 0.5,
	"i do": 0.8, "i need": 0.8, "i want": 0.7, "please": 0.6,
	"that would": 0.7, "that sounds": 0.6,
}

var noPhrases = map[string]float64{
	"no": 1.0, "nope": 0.9, "nah": 0.8, "not": 0.7,
	"nothing": 0.8, "never": 0.6, "none": 0.6,
	"fine": 0.8, "good": 0.7, "well": 0.6, "healthy": 0.7, "safe": 0.6,
	"all set": 0.8, "good to go": 0.7,
	"no thanks": 0.9, "no thank you": 0.9, "thank you": 0.8,
	"not really": 0.8, "not right now": 0.8,
	"don't need": 0.8, "don't want": 0.7,
	"i'm good": 0.8, "i'm fine": 0.8, "i'm okay": 0.7, "all good": 0.7,
	"no problem": 0.6, "no issues": 0.6, "no worries": 0.5,
	"everything's fine": 0.8, "nothing's wrong": 0.8,
	"i don't": 0.7, "i can't": 0.6, "not today": 0.7,
}

// intentThreshold is the minimum score for a confident yes or no.
const intentThreshold = 0.3

// DetectYesNo scores an utterance against the yes and no phrase tables.
// Phrases up to three words long are matched on token windows after
// punctuation stripping, and scores are damped on long utterances so a
// stray "no" inside a full sentence does not dominate.
func DetectYesNo(utterance string) (Intent, float64) {
	words := tokenize(utterance)
	if len(words) == 0 {
		return IntentUnclear, 0
	}

	var yesScore, noScore float64
	for n := 1; n <= 3; n++ {
		for i := 0; i+n <= len(words); i++ {
			gram := strings.Join(words[i:i+n], " ")
			if w, ok := yesPhrases[gram]; ok {
				yesScore += w
			}
			if w, ok := noPhrases[gram]; ok {
				noScore += w
			}
		}
	}

	damp := 15.0 / float64(len(words))
	if damp > 1 {
		damp = 1
	}
	yesScore *= damp
	noScore *= damp

	switch {
	case yesScore > noScore && yesScore >= intentThreshold:
		return IntentYes, capScore(yesScore)
	case noScore > yesScore && noScore >= intentThreshold:
		return IntentNo, capScore(noScore)
	default:
		score := yesScore
		if noScore > score {
			score = noScore
		}
		return IntentUnclear, capScore(score)
	}
}

func capScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	return s
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `.,!?;:"()[]{}`)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
