// Package conversation tracks the short-term memory behind sage's
// contextual lookups: a bounded history of completed turns and the
// two-slot (topic, entity) context inferred from it for each new
// question.
package conversation

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// MaxTurns bounds the history. Once exceeded, the oldest turns
	// are dropped.
	MaxTurns = 10

	// ContextWindow is how many of the newest turns feed context
	// inference.
	ContextWindow = 5
)

// pronouns carry the in-focus entity forward instead of re-deriving
// context from the current question.
var pronouns = map[string]struct{}{
	"it":   {},
	"this": {},
	"that": {},
}

// Turn is one completed question/answer exchange. Turns are immutable
// once recorded.
type Turn struct {
	Question  string
	Answer    string
	Topic     string
	Entity    string
	Timestamp time.Time
}

// Context is the transient conversational focus derived for a single
// question. Zero-value fields mean the slot is absent.
type Context struct {
	Topic  string
	Entity string
}

// Complete reports whether both slots are filled.
func (c Context) Complete() bool {
	return c.Topic != "" && c.Entity != ""
}

// Tracker owns the bounded conversation history.
//
// Not safe for concurrent use; a session has a single tracker with a
// single owner.
type Tracker struct {
	turns  []Turn
	logger *zap.Logger
}

// NewTracker creates an empty tracker.
func NewTracker(logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		turns:  make([]Turn, 0, MaxTurns),
		logger: logger,
	}
}

// Record appends a completed turn, stamping it if the caller did not.
// The history is truncated to the MaxTurns most recent entries by
// dropping the oldest.
func (t *Tracker) Record(turn Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}

	t.turns = append(t.turns, turn)
	if len(t.turns) > MaxTurns {
		excess := len(t.turns) - MaxTurns
		t.turns = t.turns[excess:]
	}
}

// Infer derives the context for a question.
//
// The newest ContextWindow turns are scanned oldest to newest; every
// non-empty topic or entity overwrites its slot, so the most recent
// value wins. If the question then contains a carry-over pronoun (it,
// this, that) while an entity is in focus, the inherited context is
// kept as-is. Otherwise a question of more than two tokens re-derives
// both slots: topic from the first two tokens, entity from the last.
//
// The result is computed fresh on every call; nothing is stored.
func (t *Tracker) Infer(question string) Context {
	var ctx Context

	turns := t.turns
	if len(turns) > ContextWindow {
		turns = turns[len(turns)-ContextWindow:]
	}
	for _, turn := range turns {
		if turn.Topic != "" {
			ctx.Topic = turn.Topic
		}
		if turn.Entity != "" {
			ctx.Entity = turn.Entity
		}
	}

	words := strings.Fields(strings.ToLower(question))

	if ctx.Entity != "" {
		for _, word := range words {
			if _, ok := pronouns[word]; ok {
				t.logger.Debug("pronoun carries context forward",
					zap.String("word", word),
					zap.String("topic", ctx.Topic),
					zap.String("entity", ctx.Entity))
				return ctx
			}
		}
	}

	if len(words) > 2 {
		ctx.Topic = strings.Join(words[:2], " ")
		ctx.Entity = words[len(words)-1]
	}

	return ctx
}

// Turns returns a copy of the recorded history, oldest first.
func (t *Tracker) Turns() []Turn {
	cp := make([]Turn, len(t.turns))
	copy(cp, t.turns)
	return cp
}

// Len returns the number of recorded turns.
func (t *Tracker) Len() int {
	return len(t.turns)
}
