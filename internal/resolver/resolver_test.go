package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sage/internal/conversation"
	"github.com/fyrsmithlabs/sage/internal/fuzzy"
	"github.com/fyrsmithlabs/sage/internal/knowledge"
	"github.com/fyrsmithlabs/sage/internal/solver"
)

// memPersister keeps saves in memory so tests can assert persistence
// without touching disk.
type memPersister struct {
	saved map[string]string
	saves int
	fail  bool
}

func (p *memPersister) Load() (map[string]string, error) { return nil, knowledge.ErrNotFound }

func (p *memPersister) Save(entries map[string]string) error {
	if p.fail {
		return errors.New("disk full")
	}
	p.saves++
	p.saved = make(map[string]string, len(entries))
	for k, v := range entries {
		p.saved[k] = v
	}
	return nil
}

// fixedMatcher reports the same match for any question.
type fixedMatcher struct {
	match fuzzy.Match
	ok    bool
}

func (m fixedMatcher) BestMatch(string, []string) (fuzzy.Match, bool) { return m.match, m.ok }

func newTestResolver(t *testing.T) (*Resolver, *knowledge.Store, *conversation.Tracker, *memPersister) {
	t.Helper()

	p := &memPersister{}
	store := knowledge.Open(p, zap.NewNop())
	tracker := conversation.NewTracker(zap.NewNop())

	r, err := New(store, tracker, fuzzy.NewMatcher(zap.NewNop()), solver.New(zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	return r, store, tracker, p
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  Kind
	}{
		{"exit", KindExit},
		{"EXIT", KindExit},
		{"Exit", KindExit},
		{"view", KindView},
		{"VIEW", KindView},
		{"x + 2 = 5", KindEquation},
		{"x=5", KindEquation},
		{"5 == 5", KindCondition},
		{"a = b == c", KindCondition},
		{"capital of france", KindQuestion},
		{"exit now", KindQuestion},
		{"", KindQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Classify(tt.input))
		})
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	store := knowledge.Open(&memPersister{}, zap.NewNop())
	tracker := conversation.NewTracker(zap.NewNop())
	matcher := fuzzy.NewMatcher(zap.NewNop())
	math := solver.New(zap.NewNop())

	_, err := New(nil, tracker, matcher, math, nil)
	require.Error(t, err)

	_, err = New(store, nil, matcher, math, nil)
	require.Error(t, err)

	_, err = New(store, tracker, nil, math, nil)
	require.Error(t, err)

	_, err = New(store, tracker, matcher, nil, nil)
	require.Error(t, err)

	r, err := New(store, tracker, matcher, math, nil)
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestResolve_EquationRecordsAlgebraTurn(t *testing.T) {
	t.Parallel()

	r, store, tracker, p := newTestResolver(t)

	result := r.Resolve("x + 2 = 5")

	assert.Equal(t, SourceEquation, result.Source)
	assert.Equal(t, "x = 3", result.Answer)

	// The store is untouched and nothing was persisted
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, p.saves)

	turns := tracker.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "algebra", turns[0].Topic)
	assert.Equal(t, "x = 3", turns[0].Answer)
	assert.Empty(t, turns[0].Entity)
}

func TestResolve_ConditionRecordsConditionTurn(t *testing.T) {
	t.Parallel()

	r, _, tracker, _ := newTestResolver(t)

	result := r.Resolve("5 == 5")

	assert.Equal(t, SourceCondition, result.Source)
	assert.Equal(t, "The condition '5 == 5' is true", result.Answer)

	turns := tracker.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "condition", turns[0].Topic)
}

func TestResolve_DirectLookup(t *testing.T) {
	t.Parallel()

	r, store, tracker, _ := newTestResolver(t)
	require.NoError(t, store.Learn("what is the capital of france", "paris"))

	result := r.Resolve("What is the capital of FRANCE")

	assert.Equal(t, SourceDirect, result.Source)
	assert.Equal(t, "paris", result.Answer)

	// The turn carries the context inferred for this question
	turns := tracker.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "what is", turns[0].Topic)
	assert.Equal(t, "france", turns[0].Entity)
}

func TestResolve_ContextualLookup(t *testing.T) {
	t.Parallel()

	r, store, tracker, _ := newTestResolver(t)

	// A previous exchange left (topic, entity) in focus; the pronoun
	// keeps it, and the synthesized key finds the stored answer
	tracker.Record(conversation.Turn{Topic: "capital of", Entity: "france"})
	require.NoError(t, store.Learn("capital of it then france", "paris"))

	result := r.Resolve("it then")

	assert.Equal(t, SourceContextual, result.Source)
	assert.Equal(t, "paris", result.Answer)

	turns := tracker.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "capital of", turns[1].Topic)
	assert.Equal(t, "france", turns[1].Entity)
}

func TestResolve_ContextualMissFallsBackToPlain(t *testing.T) {
	t.Parallel()

	r, store, tracker, _ := newTestResolver(t)

	require.NoError(t, store.Learn("it then", "a plain answer"))

	// Context is complete but the synthesized key is not stored
	tracker.Record(conversation.Turn{Topic: "capital of", Entity: "france"})

	result := r.Resolve("it then")

	assert.Equal(t, SourceDirect, result.Source)
	assert.Equal(t, "a plain answer", result.Answer)
}

func TestResolve_FuzzyTypoFindsAnswer(t *testing.T) {
	t.Parallel()

	r, store, tracker, _ := newTestResolver(t)
	require.NoError(t, store.Learn("capital of france", "paris"))

	result := r.Resolve("capital of frnce")

	assert.Equal(t, SourceFuzzy, result.Source)
	assert.Equal(t, "paris", result.Answer)
	assert.Empty(t, result.TeachKey)

	require.Len(t, tracker.Turns(), 1)
}

func TestResolve_EmptyStoreDemandsTeaching(t *testing.T) {
	t.Parallel()

	r, _, tracker, _ := newTestResolver(t)

	result := r.Resolve("anything at all")

	assert.Equal(t, SourceUnknown, result.Source)
	assert.Empty(t, result.Answer)
	assert.Equal(t, "anything at all", result.TeachKey)

	// The teach fallback records no turn
	assert.Equal(t, 0, tracker.Len())
}

func TestResolve_ThresholdBoundary(t *testing.T) {
	t.Parallel()

	newWithScore := func(t *testing.T, score int) (*Resolver, *knowledge.Store) {
		t.Helper()

		store := knowledge.Open(&memPersister{}, zap.NewNop())
		require.NoError(t, store.Learn("capital of france", "paris"))

		r, err := New(store,
			conversation.NewTracker(zap.NewNop()),
			fixedMatcher{match: fuzzy.Match{Question: "capital of france", Score: score}, ok: true},
			solver.New(zap.NewNop()),
			zap.NewNop())
		require.NoError(t, err)
		return r, store
	}

	t.Run("score 80 accepted", func(t *testing.T) {
		t.Parallel()

		r, _ := newWithScore(t, MinMatchScore)
		result := r.Resolve("capital of freedonia")

		assert.Equal(t, SourceFuzzy, result.Source)
		assert.Equal(t, "paris", result.Answer)
	})

	t.Run("score 79 rejected", func(t *testing.T) {
		t.Parallel()

		r, _ := newWithScore(t, MinMatchScore-1)
		result := r.Resolve("capital of freedonia")

		assert.Equal(t, SourceUnknown, result.Source)
		assert.Equal(t, "capital of freedonia", result.TeachKey)
	})
}

func TestResolve_FuzzyEmptyAnswerTeachesMatchedKey(t *testing.T) {
	t.Parallel()

	store := knowledge.Open(&memPersister{}, zap.NewNop())
	require.NoError(t, store.Learn("known question", ""))

	r, err := New(store,
		conversation.NewTracker(zap.NewNop()),
		fixedMatcher{match: fuzzy.Match{Question: "known question", Score: 95}, ok: true},
		solver.New(zap.NewNop()),
		zap.NewNop())
	require.NoError(t, err)

	result := r.Resolve("something else entirely")

	assert.Equal(t, SourceUnknown, result.Source)
	assert.Equal(t, "known question", result.TeachKey)
}

func TestTeach_LearnsAndPersists(t *testing.T) {
	t.Parallel()

	r, store, tracker, p := newTestResolver(t)

	// "2+2" has no '=', so it is a plain question, and the empty
	// store sends it straight to teaching
	result := r.Resolve("2+2")
	require.Equal(t, SourceUnknown, result.Source)
	require.Equal(t, "2+2", result.TeachKey)

	require.NoError(t, r.Teach(result.TeachKey, "4"))

	answer, ok := store.Lookup("2+2")
	require.True(t, ok)
	assert.Equal(t, "4", answer)

	// Persisted synchronously, and still no turn recorded
	assert.Equal(t, map[string]string{"2+2": "4"}, p.saved)
	assert.Equal(t, 0, tracker.Len())
}

func TestTeach_EmptyAnswerRejected(t *testing.T) {
	t.Parallel()

	r, store, _, p := newTestResolver(t)

	err := r.Teach("some question", "")
	require.ErrorIs(t, err, ErrEmptyAnswer)

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, p.saves)
}

func TestTeach_SaveErrorPropagates(t *testing.T) {
	t.Parallel()

	p := &memPersister{fail: true}
	store := knowledge.Open(p, zap.NewNop())

	r, err := New(store,
		conversation.NewTracker(zap.NewNop()),
		fuzzy.NewMatcher(zap.NewNop()),
		solver.New(zap.NewNop()),
		zap.NewNop())
	require.NoError(t, err)

	err = r.Teach("q", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSourceString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "equation", SourceEquation.String())
	assert.Equal(t, "unknown", SourceUnknown.String())
	assert.Equal(t, "fuzzy", SourceFuzzy.String())
}
