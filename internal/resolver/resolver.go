// Package resolver implements the answer-resolution pipeline: classify
// the input, then work through equation/condition evaluation, a
// context-augmented lookup, a plain lookup, and finally fuzzy matching,
// falling back to teaching when nothing answers.
package resolver

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sage/internal/conversation"
	"github.com/fyrsmithlabs/sage/internal/fuzzy"
)

// MinMatchScore is the lowest fuzzy score accepted as an answer match.
// A candidate scoring exactly MinMatchScore is accepted.
const MinMatchScore = 80

// ErrEmptyAnswer reports a declined teach prompt.
var ErrEmptyAnswer = errors.New("empty answer")

// KnowledgeStore is the slice of the knowledge store the resolver
// consumes.
type KnowledgeStore interface {
	Lookup(question string) (string, bool)
	Learn(question, answer string) error
	Known() []string
}

// ContextTracker infers conversational context and records completed
// turns.
type ContextTracker interface {
	Infer(question string) conversation.Context
	Record(turn conversation.Turn)
}

// Matcher finds the closest known question to the input.
type Matcher interface {
	BestMatch(question string, candidates []string) (fuzzy.Match, bool)
}

// MathSolver evaluates inline equations and conditions.
type MathSolver interface {
	SolveEquation(equation string) string
	EvaluateCondition(condition string) string
}

// Kind classifies one line of user input.
type Kind int

const (
	KindQuestion Kind = iota
	KindExit
	KindView
	KindEquation
	KindCondition
)

// Classify routes a line of input. Checks run in order: the exit and
// view commands (case-insensitive, whole line), an equation (contains
// = but not ==), a condition (contains ==), and otherwise a plain
// question.
func Classify(input string) Kind {
	switch strings.ToLower(input) {
	case "exit":
		return KindExit
	case "view":
		return KindView
	}

	if strings.Contains(input, "=") && !strings.Contains(input, "==") {
		return KindEquation
	}
	if strings.Contains(input, "==") {
		return KindCondition
	}
	return KindQuestion
}

// Source says which pipeline stage produced an answer.
type Source int

const (
	// SourceUnknown means nothing answered; the result carries a
	// teach key instead of an answer.
	SourceUnknown Source = iota
	SourceEquation
	SourceCondition
	SourceContextual
	SourceDirect
	SourceFuzzy
)

// String implements fmt.Stringer.
func (s Source) String() string {
	switch s {
	case SourceEquation:
		return "equation"
	case SourceCondition:
		return "condition"
	case SourceContextual:
		return "contextual"
	case SourceDirect:
		return "direct"
	case SourceFuzzy:
		return "fuzzy"
	default:
		return "unknown"
	}
}

// Result is the outcome of resolving one question.
//
// When Source is SourceUnknown, Answer is empty and TeachKey carries
// the question text a taught answer should be stored under: the
// original input, or the fuzzy-matched known question when that key
// turned out to hold an empty answer.
type Result struct {
	Answer   string
	Source   Source
	TeachKey string
}

// Resolver owns the pipeline wiring: store, tracker, matcher, and
// solver, constructed once and threaded through every call. No
// package-level state.
type Resolver struct {
	store   KnowledgeStore
	tracker ContextTracker
	matcher Matcher
	solver  MathSolver
	logger  *zap.Logger
}

// New creates a resolver. All collaborators are required; logger may
// be nil.
func New(store KnowledgeStore, tracker ContextTracker, matcher Matcher, solver MathSolver, logger *zap.Logger) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if tracker == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	if matcher == nil {
		return nil, fmt.Errorf("matcher is required")
	}
	if solver == nil {
		return nil, fmt.Errorf("solver is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{
		store:   store,
		tracker: tracker,
		matcher: matcher,
		solver:  solver,
		logger:  logger,
	}, nil
}

// Resolve runs the pipeline for one question and returns what to
// present. It performs no user I/O: when the question is unknown, the
// result demands teaching and the shell owns the prompting.
//
// A conversation turn is recorded only for equations, conditions, and
// successful lookups. Reaching the teach fallback records nothing.
func (r *Resolver) Resolve(question string) Result {
	switch Classify(question) {
	case KindEquation:
		answer := r.solver.SolveEquation(question)
		r.tracker.Record(conversation.Turn{Question: question, Answer: answer, Topic: "algebra"})
		return Result{Answer: answer, Source: SourceEquation}

	case KindCondition:
		answer := r.solver.EvaluateCondition(question)
		r.tracker.Record(conversation.Turn{Question: question, Answer: answer, Topic: "condition"})
		return Result{Answer: answer, Source: SourceCondition}
	}

	ctx := r.tracker.Infer(question)

	// Context-augmented lookup: topic and entity wrap the question
	if ctx.Complete() {
		contextual := ctx.Topic + " " + question + " " + ctx.Entity
		if answer, ok := r.store.Lookup(contextual); ok && answer != "" {
			r.recordTurn(question, answer, ctx)
			return Result{Answer: answer, Source: SourceContextual}
		}
	}

	// Plain lookup of the question itself
	if answer, ok := r.store.Lookup(question); ok && answer != "" {
		r.recordTurn(question, answer, ctx)
		return Result{Answer: answer, Source: SourceDirect}
	}

	// Fuzzy lookup over the known questions
	if match, ok := r.matcher.BestMatch(question, r.store.Known()); ok && match.Score >= MinMatchScore {
		if answer, ok := r.store.Lookup(match.Question); ok && answer != "" {
			r.logger.Debug("fuzzy match accepted",
				zap.String("question", question),
				zap.String("matched", match.Question),
				zap.Int("score", match.Score))
			r.recordTurn(question, answer, ctx)
			return Result{Answer: answer, Source: SourceFuzzy}
		}
		// The matched key holds no usable answer; re-teach that key
		return Result{Source: SourceUnknown, TeachKey: match.Question}
	}

	r.logger.Debug("question unknown", zap.String("question", question))
	return Result{Source: SourceUnknown, TeachKey: question}
}

// Teach stores a taught answer under question and persists it. An
// empty answer is rejected with ErrEmptyAnswer and changes nothing.
// Teaching never records a conversation turn.
func (r *Resolver) Teach(question, answer string) error {
	if answer == "" {
		return ErrEmptyAnswer
	}

	if err := r.store.Learn(question, answer); err != nil {
		return fmt.Errorf("learning answer: %w", err)
	}

	r.logger.Info("learned new answer", zap.String("question", strings.ToLower(question)))
	return nil
}

func (r *Resolver) recordTurn(question, answer string, ctx conversation.Context) {
	r.tracker.Record(conversation.Turn{
		Question: question,
		Answer:   answer,
		Topic:    ctx.Topic,
		Entity:   ctx.Entity,
	})
}
