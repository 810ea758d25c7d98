// Package classifier provides rule-based priority and sentiment scoring for
// customer messages. All functions are pure and safe for concurrent use.
package classifier

import (
	"math"
	"strings"

	"github.com/branch-messaging/backend/internal/model"
)

// maxKeywords caps the number of keywords returned by ExtractKeywords.
const maxKeywords = 10

// Sentiment is the result of keyword-based sentiment analysis.
type Sentiment struct {
	Score              float64 `json:"score"`
	PositiveIndicators int     `json:"positive_indicators"`
	NegativeIndicators int     `json:"negative_indicators"`
	UrgencyIndicators  int     `json:"urgency_indicators"`
	Overall            string  `json:"overall"`
}

// Sentiment overall labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func anyMatch(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Classify maps message text to a priority and a heuristic confidence in
// [0,1]. It never fails: unrecognized or empty text falls through to
// (medium, 0.5). The tier checks run in strict precedence order
// urgent > high > medium > low.
func Classify(text string) (model.Priority, float64) {
	lower := strings.ToLower(text)

	urgentMatches := countMatches(lower, urgentKeywords)
	if urgentMatches >= 2 || anyMatch(lower, urgentOverrides) {
		return model.PriorityUrgent, math.Min(0.9+float64(urgentMatches)*0.02, 1.0)
	}

	highMatches := countMatches(lower, highKeywords)
	if highMatches >= 2 || urgentMatches >= 1 {
		confidence := math.Min(0.7+float64(highMatches)*0.05+float64(urgentMatches)*0.1, 0.89)
		return model.PriorityHigh, confidence
	}

	mediumMatches := countMatches(lower, mediumKeywords)
	if mediumMatches >= 1 || highMatches >= 1 {
		confidence := math.Min(0.5+float64(mediumMatches)*0.05+float64(highMatches)*0.1, 0.69)
		return model.PriorityMedium, confidence
	}

	lowMatches := countMatches(lower, lowKeywords)
	if lowMatches >= 1 {
		return model.PriorityLow, math.Min(0.3+float64(lowMatches)*0.05, 0.49)
	}

	return model.PriorityMedium, 0.5
}

// AnalyzeSentiment counts positive, negative, and urgency word matches and
// derives a score in [-1,1]. Overall is positive above 0.2, negative below
// -0.2, neutral otherwise.
func AnalyzeSentiment(text string) Sentiment {
	lower := strings.ToLower(text)

	positiveCount := countMatches(lower, positiveWords)
	negativeCount := countMatches(lower, negativeWords)
	urgencyCount := countMatches(lower, urgencyWords)

	total := positiveCount + negativeCount
	if total < 1 {
		total = 1
	}
	score := float64(positiveCount-negativeCount) / float64(total)

	overall := SentimentNeutral
	if score > 0.2 {
		overall = SentimentPositive
	} else if score < -0.2 {
		overall = SentimentNegative
	}

	return Sentiment{
		Score:              score,
		PositiveIndicators: positiveCount,
		NegativeIndicators: negativeCount,
		UrgencyIndicators:  urgencyCount,
		Overall:            overall,
	}
}

// ExtractKeywords returns up to 10 unique tier keywords found in the text,
// for categorization. Order is not significant.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)

	found := make([]string, 0, maxKeywords)
	seen := make(map[string]bool)
	for _, tier := range [][]string{urgentKeywords, highKeywords, mediumKeywords, lowKeywords} {
		for _, kw := range tier {
			if seen[kw] || !strings.Contains(lower, kw) {
				continue
			}
			seen[kw] = true
			found = append(found, kw)
			if len(found) == maxKeywords {
				return found
			}
		}
	}
	return found
}
