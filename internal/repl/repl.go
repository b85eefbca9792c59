// Package repl runs the interactive session: read a line, classify it,
// resolve or evaluate it, render the outcome, and prompt to teach when
// the answer is unknown.
//
// The shell is deliberately thin. All resolution decisions live in the
// pipeline; the repl only reads, writes, and relays taught answers.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sage/internal/knowledge"
	"github.com/fyrsmithlabs/sage/internal/resolver"
)

// Lipgloss styles for session output
var (
	// Banner and farewell - magenta
	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)

	// Prompts and informational asides - yellow
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3"))

	// Answers and confirmations - green
	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	// Unknown-question notices - red
	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	// Knowledge listing heading - cyan
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6"))

	// Listed questions - blue
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("4"))
)

// Pipeline resolves questions and accepts taught answers.
type Pipeline interface {
	Resolve(question string) resolver.Result
	Teach(question, answer string) error
}

// Knowledge is the read side of the store the shell renders.
type Knowledge interface {
	Entries() []knowledge.Entry
	LoadError() error
}

// Options configures a session shell.
type Options struct {
	Input   io.Reader
	Output  io.Writer
	NoColor bool
}

// REPL is the interactive session shell.
type REPL struct {
	pipeline Pipeline
	store    Knowledge
	scanner  *bufio.Scanner
	out      io.Writer
	noColor  bool
	logger   *zap.Logger
}

// New creates a session shell. Pipeline, store, input, and output are
// required; logger may be nil.
func New(pipeline Pipeline, store Knowledge, opts Options, logger *zap.Logger) (*REPL, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if opts.Input == nil || opts.Output == nil {
		return nil, fmt.Errorf("input and output are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &REPL{
		pipeline: pipeline,
		store:    store,
		scanner:  bufio.NewScanner(opts.Input),
		out:      opts.Output,
		noColor:  opts.NoColor,
		logger:   logger,
	}, nil
}

// Run reads and answers questions until the user exits or input ends.
func (r *REPL) Run() error {
	fmt.Fprintln(r.out, r.styled(bannerStyle,
		"Welcome to sage! Type 'exit' to quit, or 'view' to see all known questions."))
	r.printLoadNotice()

	for {
		fmt.Fprint(r.out, r.styled(promptStyle, "\nAsk me a question: "))
		if !r.scanner.Scan() {
			fmt.Fprintln(r.out)
			return r.scanner.Err()
		}
		line := r.scanner.Text()

		switch resolver.Classify(line) {
		case resolver.KindExit:
			fmt.Fprintln(r.out, r.styled(bannerStyle, "Goodbye!"))
			return nil
		case resolver.KindView:
			r.renderEntries()
			continue
		}

		r.answer(line)
	}
}

// answer resolves one question and renders the outcome by source.
func (r *REPL) answer(question string) {
	result := r.pipeline.Resolve(question)

	switch result.Source {
	case resolver.SourceEquation:
		fmt.Fprintln(r.out, r.styled(answerStyle, "The solution is: "+result.Answer))
	case resolver.SourceCondition:
		// The condition message is already a full sentence
		fmt.Fprintln(r.out, r.styled(answerStyle, result.Answer))
	case resolver.SourceUnknown:
		r.teach(result.TeachKey)
	default:
		fmt.Fprintln(r.out, r.styled(answerStyle, "The answer is: "+result.Answer))
	}
}

// teach prompts for an answer to an unknown question and relays it to
// the pipeline. An empty or aborted reply skips learning.
func (r *REPL) teach(question string) {
	fmt.Fprintln(r.out, r.styled(unknownStyle,
		fmt.Sprintf("I don't know the answer to '%s'. Can you teach me?", question)))
	fmt.Fprint(r.out, r.styled(promptStyle, "Enter the answer (or press Enter to skip): "))

	var answer string
	if r.scanner.Scan() {
		answer = r.scanner.Text()
	}

	err := r.pipeline.Teach(question, answer)
	switch {
	case errors.Is(err, resolver.ErrEmptyAnswer):
		fmt.Fprintln(r.out, r.styled(promptStyle, "Okay, I'll try to learn that later."))
	case err != nil:
		fmt.Fprintln(r.out, r.styled(unknownStyle, "I couldn't save that answer. Please try again later."))
		r.logger.Error("saving taught answer failed", zap.Error(err))
	default:
		fmt.Fprintln(r.out, r.styled(answerStyle, "Thank you! I've learned something new."))
	}
}

// renderEntries dumps the knowledge base.
func (r *REPL) renderEntries() {
	fmt.Fprintln(r.out, r.styled(headingStyle, "\nHere's what I know:"))
	for _, e := range r.store.Entries() {
		fmt.Fprintln(r.out, r.styled(questionStyle, "Q: "+e.Question))
		fmt.Fprintln(r.out, r.styled(answerStyle, "A: "+e.Answer))
		fmt.Fprintln(r.out)
	}
}

// printLoadNotice tells the user when their knowledge file was not
// picked up at startup.
func (r *REPL) printLoadNotice() {
	err := r.store.LoadError()
	switch {
	case err == nil:
	case errors.Is(err, knowledge.ErrNotFound):
		fmt.Fprintln(r.out, "Knowledge file not found. Starting with an empty knowledge base.")
	default:
		fmt.Fprintln(r.out, "Error reading the knowledge file. Starting with an empty knowledge base.")
	}
}

// styled renders s with st unless color is disabled.
func (r *REPL) styled(st lipgloss.Style, s string) string {
	if r.noColor {
		return s
	}
	return st.Render(s)
}
