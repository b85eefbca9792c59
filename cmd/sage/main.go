// Sage is an interactive assistant with a persisted knowledge base.
//
// Running sage with no arguments starts an interactive session. The
// assistant answers from its knowledge base, solves simple equations
// and conditions, follows the conversation to resolve follow-up
// questions, and asks to be taught whenever it does not know an
// answer.
//
// Usage:
//
//	# Start an interactive session
//	sage
//
//	# Ask a single question and exit
//	sage ask what is the capital of france
//
//	# Configure via flags or environment
//	sage --store ./knowledge.json
//	SAGE_LOGGING_LEVEL=debug sage
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/sage/internal/config"
	"github.com/fyrsmithlabs/sage/internal/conversation"
	"github.com/fyrsmithlabs/sage/internal/fuzzy"
	"github.com/fyrsmithlabs/sage/internal/knowledge"
	"github.com/fyrsmithlabs/sage/internal/logging"
	"github.com/fyrsmithlabs/sage/internal/repl"
	"github.com/fyrsmithlabs/sage/internal/resolver"
	"github.com/fyrsmithlabs/sage/internal/solver"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var (
	// configPath overrides the default config file location
	configPath string
	// storePath overrides the configured knowledge file location
	storePath string
	// logLevel overrides the configured log level
	logLevel string
	// noColor disables styled output
	noColor bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sage",
	Short: "An assistant that answers questions, solves equations, and learns from you",
	Long: `Sage answers questions from a persisted knowledge base, solves simple
equations and conditions, follows the conversation to resolve follow-up
questions, and asks to be taught whenever it does not know an answer.

Running sage with no arguments starts an interactive session.`,
	Version:      version,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/sage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "knowledge file (default ~/.config/sage/knowledge.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
}

// app holds the wired dependencies shared by all commands.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *knowledge.Store
	pipeline *resolver.Resolver
}

// bootstrap loads configuration, applies flag overrides, and wires the
// resolution pipeline.
func bootstrap(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// Flags override file and environment settings
	if storePath != "" {
		cfg.Store.Path = storePath
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("no-color") {
		cfg.UI.NoColor = noColor
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	path, err := config.ExpandPath(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("resolving store path: %w", err)
	}
	store := knowledge.Open(knowledge.NewFileStore(path), logger)

	pipeline, err := resolver.New(
		store,
		conversation.NewTracker(logger),
		fuzzy.NewMatcher(logger),
		solver.New(logger),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("wiring pipeline: %w", err)
	}

	return &app{cfg: cfg, logger: logger, store: store, pipeline: pipeline}, nil
}

// close flushes the logger.
func (a *app) close() {
	_ = a.logger.Sync() // Best-effort sync on shutdown
}

// runSession handles the default command by starting an interactive
// session on the terminal.
func runSession(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	sessionID := uuid.NewString()
	a.logger.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("store_path", a.cfg.Store.Path),
		zap.Int("known_questions", a.store.Len()))

	shell, err := repl.New(a.pipeline, a.store, repl.Options{
		Input:   cmd.InOrStdin(),
		Output:  cmd.OutOrStdout(),
		NoColor: a.cfg.UI.NoColor,
	}, a.logger)
	if err != nil {
		return err
	}
	if err := shell.Run(); err != nil {
		return fmt.Errorf("reading session input: %w", err)
	}

	a.logger.Info("session ended",
		zap.String("session_id", sessionID),
		zap.Int("known_questions", a.store.Len()))
	return nil
}
