package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fernwood/patternbank/internal/logging"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one pattern with its evidence",
	Args:  cobra.ExactArgs(1),
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
			fmt.Printf("no pattern %q\n", args[0])
			return nil
		}

		fmt.Printf("%s  [%s, %s]\n", p.ID, p.Category, p.Status)
		fmt.Printf("  name:        %s\n", p.Name)
		if p.Description != "" {
			fmt.Printf("  description: %s\n", logging.Truncate(p.Description, 120))
		}
		if p.Instruction != "" {
			fmt.Printf("  instruction: %s\n", logging.Truncate(p.Instruction, 120))
		}
		fmt.Printf("  confidence:  %s (sessions %d, projects %d)\n", p.Confidence, p.SessionCount, p.ProjectCount)
		fmt.Printf("  weight:      %.2f\n", p.Weight)
		fmt.Printf("  first seen:  %s\n", p.FirstSeen.Local().Format(time.RFC3339))
		fmt.Printf("  reinforced:  %s\n", p.LastReinforced.Local().Format(time.RFC3339))
		if len(p.SessionRefs) > 0 {
			fmt.Printf("  sessions:    %s\n", strings.Join(p.SessionRefs, ", "))
		}

		evidence, err := s.EvidenceFor(p.ID)
		if err != nil {
			return err
		}
		if len(evidence) > 0 {
			fmt.Printf("  evidence (%d):\n", len(evidence))
			for _, e := range evidence {
				fmt.Printf("    %s  %s/%s  %s\n",
					e.RecordedAt.Local().Format("2006-01-02"),
					e.Project, e.SessionID, logging.Truncate(e.Snippet, 80))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
