package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fernwood/patternbank/internal/config"
	"github.com/fernwood/patternbank/internal/store"
)

var (
	// Global flags
	statePathFlag     string
	knowledgeRootFlag string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "patternbank",
	Short: "Durable store of observed user working patterns",
	Long: `patternbank persists behavioral patterns an assistant observes across
sessions, scores them by corroboration breadth, ages unreinforced ones
into dormancy, and renders the active subset for session-start context.

Write path:
  write        Create or reinforce a pattern
  evidence     Attach an observed occurrence to a pattern
  boost        Increase a pattern's weight (capped at 2.0)
  retire       Retire a pattern
  reactivate   Reactivate a dormant or retired pattern

Read path:
  show         Show one pattern with its evidence
  list         List patterns, optionally by status/category
  context      Render the session-start context block
  stats        Aggregate counts

Maintenance:
  sweep        Move stale active patterns to dormant
  export       Mirror a pattern into the knowledge directory
  log          Record or inspect extraction runs

Environment:
  PATTERNBANK_STATE_PATH       State directory (default: "state")
  PATTERNBANK_KNOWLEDGE_ROOT   Knowledge directory for export
  PATTERNBANK_DORMANCY_DAYS    Dormancy threshold (default: 180)
  PATTERNBANK_BUSY_TIMEOUT_MS  SQLite busy timeout (default: 5000)
  PATTERNBANK_CONTEXT_MAX      Max patterns in context (default: 20)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "State directory (overrides PATTERNBANK_STATE_PATH)")
	rootCmd.PersistentFlags().StringVar(&knowledgeRootFlag, "knowledge-root", "", "Knowledge directory (overrides PATTERNBANK_KNOWLEDGE_ROOT)")
}

// loadConfig builds the read-only configuration snapshot: env first,
// flags win.
func loadConfig() config.Config {
	cfg := config.FromEnv()
	if statePathFlag != "" {
		cfg.StatePath = statePathFlag
	}
	if knowledgeRootFlag != "" {
		cfg.KnowledgeRoot = knowledgeRootFlag
	}
	return cfg
}

// openStore opens the pattern database for one command invocation.
func openStore(cfg config.Config) (*store.Store, error) {
	s, err := store.Open(cfg.StatePath, cfg.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("open pattern store: %w", err)
	}
	return s, nil
}
