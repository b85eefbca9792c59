// Package knowledge manages sage's learned question→answer pairs.
//
// The store keeps entries in memory with lower-cased question keys and
// writes through to a persistence collaborator after every successful
// learn. A missing or unreadable document degrades to an empty store so
// a broken file never blocks a session.
//
// The store is not safe for concurrent use. sage resolves one question
// at a time and the store has a single owner.
package knowledge

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Entry is one learned question→answer pair.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Persister loads and saves the knowledge document.
type Persister interface {
	Load() (map[string]string, error)
	Save(map[string]string) error
}

// Store is the in-memory knowledge base with write-through persistence.
type Store struct {
	entries   map[string]string
	persister Persister
	logger    *zap.Logger
	loadErr   error
}

// Open creates a store from the persisted document.
//
// A missing or unreadable document degrades to an empty store; the
// load error is retained (see LoadError) so the caller can tell the
// user their knowledge file was not picked up.
func Open(p Persister, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Store{
		entries:   make(map[string]string),
		persister: p,
		logger:    logger,
	}

	entries, err := p.Load()
	switch {
	case err == nil:
		if entries == nil {
			entries = make(map[string]string)
		}
		s.entries = entries
		logger.Debug("knowledge loaded", zap.Int("entries", len(entries)))
	case errors.Is(err, ErrNotFound):
		s.loadErr = err
		logger.Debug("knowledge file not found, starting empty")
	default:
		s.loadErr = err
		logger.Warn("knowledge file unreadable, starting empty", zap.Error(err))
	}

	return s
}

// LoadError returns the error retained from Open when the persisted
// document could not be loaded: ErrNotFound for an absent file,
// ErrCorrupt (wrapped) for an undecodable one. Nil after a clean load.
func (s *Store) LoadError() error {
	return s.loadErr
}

// Lookup returns the stored answer for a question. The question is
// lower-cased before the lookup; Lookup never mutates the store.
func (s *Store) Lookup(question string) (string, bool) {
	answer, ok := s.entries[strings.ToLower(question)]
	return answer, ok
}

// Learn stores an answer under the lower-cased question and persists
// the full document synchronously. A repeated question overwrites the
// previous answer.
func (s *Store) Learn(question, answer string) error {
	key := strings.ToLower(question)
	s.entries[key] = answer

	if err := s.persister.Save(s.entries); err != nil {
		return err
	}

	s.logger.Debug("learned answer", zap.String("question", key))
	return nil
}

// Entries returns all entries sorted by question.
func (s *Store) Entries() []Entry {
	entries := make([]Entry, 0, len(s.entries))
	for q, a := range s.entries {
		entries = append(entries, Entry{Question: q, Answer: a})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Question < entries[j].Question
	})
	return entries
}

// Known returns all stored questions sorted, for use as a fuzzy
// matching candidate set.
func (s *Store) Known() []string {
	known := make([]string, 0, len(s.entries))
	for q := range s.entries {
		known = append(known, q)
	}
	sort.Strings(known)
	return known
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.entries)
}
