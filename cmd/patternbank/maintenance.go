package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernwood/patternbank/internal/inject"
	"github.com/fernwood/patternbank/internal/knowledge"
	"github.com/fernwood/patternbank/internal/store"
)

var sweepDays int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Move active patterns unreinforced past the threshold to dormant",
	Long: `Idempotent dormancy sweep, intended to run at session start. Active
patterns whose last reinforcement is older than the threshold go dormant;
re-running changes nothing further. Weight is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if sweepDays > 0 {
			cfg.DormancyThresholdDays = sweepDays
		}

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		n, err := s.EnforceDormancy(cfg.DormancyThreshold())
		if err != nil {
			return err
		}
		fmt.Printf("%d patterns went dormant (threshold %d days)\n", n, cfg.DormancyThresholdDays)
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Render the session-start context block for active patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		block, err := inject.Build(s, cfg.ContextMaxPatterns)
		if err != nil {
			return err
		}
		fmt.Print(block)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Mirror a pattern into the knowledge directory",
	Long: `Write the pattern as markdown with frontmatter under
<knowledge-root>/_user/patterns/<category>/<id>.md. The write is atomic,
refuses symlinked targets, and holds the knowledge-directory advisory
lock for its duration.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		p, err := s.Read(args[0])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("no pattern %q", args[0])
		}

		w, err := knowledge.NewWriter(cfg.KnowledgeRoot, cfg.LockTimeout)
		if err != nil {
			return err
		}
		path, err := w.WritePattern(p)
		if err != nil {
			return err
		}
		fmt.Printf("exported %s to %s\n", p.ID, path)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate pattern counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.Stats()
		if err != nil {
			return err
		}

		fmt.Printf("patterns: %d total (%d active, %d dormant, %d retired)\n",
			stats.Total, stats.Active, stats.Dormant, stats.Retired)

		categories := make([]string, 0, len(stats.ByCategory))
		for c := range stats.ByCategory {
			categories = append(categories, c)
		}
		sort.Strings(categories)
		for _, c := range categories {
			fmt.Printf("  %-15s %d\n", c, stats.ByCategory[c])
		}
		return nil
	},
}

var (
	logSessions int
	logCreated  int
	logUpdated  int
	logRetired  int
	logModel    string
	logShow     int
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record or inspect extraction runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if logShow > 0 {
			entries, err := s.ExtractionLog(logShow)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  sessions=%d created=%d updated=%d retired=%d model=%s\n",
					e.ExtractedAt.Local().Format(time.RFC3339), e.SessionCount,
					e.PatternsCreated, e.PatternsUpdated, e.PatternsRetired, e.Model)
			}
			return nil
		}

		entry := &store.ExtractionLogEntry{
			SessionCount:    logSessions,
			PatternsCreated: logCreated,
			PatternsUpdated: logUpdated,
			PatternsRetired: logRetired,
			Model:           logModel,
		}
		if err := s.AppendExtractionLog(entry); err != nil {
			return err
		}
		fmt.Println("extraction run recorded")
		return nil
	},
}

func init() {
	sweepCmd.Flags().IntVar(&sweepDays, "threshold-days", 0, "Override the dormancy threshold")

	logCmd.Flags().IntVar(&logSessions, "sessions", 0, "Sessions scanned in the run")
	logCmd.Flags().IntVar(&logCreated, "created", 0, "Patterns created")
	logCmd.Flags().IntVar(&logUpdated, "updated", 0, "Patterns updated")
	logCmd.Flags().IntVar(&logRetired, "retired", 0, "Patterns retired")
	logCmd.Flags().StringVar(&logModel, "model", "", "Model or process identifier")
	logCmd.Flags().IntVar(&logShow, "show", 0, "Show the most recent N runs instead of recording")

	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(contextCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logCmd)
}
