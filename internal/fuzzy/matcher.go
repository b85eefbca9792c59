// Package fuzzy finds the closest known question to what the user
// actually typed.
package fuzzy

import (
	"strings"

	fuzzywuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"
)

// Match is the best-scoring candidate from a scan.
type Match struct {
	Question string
	Score    int // 0 (unrelated) to 100 (identical)
}

// Matcher scores a question against candidate questions using a
// token-sort ratio, so word order and casing do not matter.
//
// Acceptance is the caller's decision; the matcher only reports the
// best candidate and its score.
type Matcher struct {
	logger *zap.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{logger: logger}
}

// BestMatch returns the highest-scoring candidate for a question.
// An empty candidate set reports no match without scoring anything.
// Ties keep the earliest candidate, so a sorted candidate set gives
// reproducible results.
func (m *Matcher) BestMatch(question string, candidates []string) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}

	// Normalize to lowercase; stored questions already are
	question = strings.ToLower(question)

	best := Match{Score: -1}
	for _, candidate := range candidates {
		score := fuzzywuzzy.TokenSortRatio(question, candidate)
		if score > best.Score {
			best = Match{Question: candidate, Score: score}
		}
	}

	m.logger.Debug("fuzzy scan complete",
		zap.String("question", question),
		zap.String("best", best.Question),
		zap.Int("score", best.Score),
		zap.Int("candidates", len(candidates)))

	return best, true
}
