package classifier

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassificationTotalityProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	// Classification never fails: every input maps to a valid priority
	// with a confidence in [0, 1].
	properties.Property("any text classifies to a valid priority and bounded confidence", prop.ForAll(
		func(text string) bool {
			priority, confidence := Classify(text)
			return priority.Valid() && confidence >= 0.0 && confidence <= 1.0
		},
		gen.AnyString(),
	))

	// Classification is a pure function of its input.
	properties.Property("classification is deterministic", prop.ForAll(
		func(text string) bool {
			p1, c1 := Classify(text)
			p2, c2 := Classify(text)
			return p1 == p2 && c1 == c2
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestUrgentOverrideProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	overrideGen := gen.OneConstOf(
		"emergency",
		"fraud",
		"scam",
		"hacked",
		"urgent",
	)

	// A single override keyword anywhere in the text forces urgent,
	// regardless of surrounding content.
	properties.Property("override keywords always classify as urgent", prop.ForAll(
		func(prefix, keyword, suffix string) bool {
			priority, confidence := Classify(prefix + " " + keyword + " " + suffix)
			return priority == "urgent" && confidence >= 0.9
		},
		gen.AlphaString(),
		overrideGen,
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

func TestSentimentAndKeywordBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("sentiment score stays within [-1, 1]", prop.ForAll(
		func(text string) bool {
			s := AnalyzeSentiment(text)
			if s.Score < -1.0 || s.Score > 1.0 {
				return false
			}
			switch s.Overall {
			case SentimentPositive:
				return s.Score > 0.2
			case SentimentNegative:
				return s.Score < -0.2
			case SentimentNeutral:
				return s.Score >= -0.2 && s.Score <= 0.2
			}
			return false
		},
		gen.AnyString(),
	))

	properties.Property("extracted keywords are unique substrings capped at ten", prop.ForAll(
		func(text string) bool {
			keywords := ExtractKeywords(text)
			if len(keywords) > 10 {
				return false
			}
			lower := strings.ToLower(text)
			seen := make(map[string]bool, len(keywords))
			for _, kw := range keywords {
				if seen[kw] || !strings.Contains(lower, kw) {
					return false
				}
				seen[kw] = true
			}
			return true
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
