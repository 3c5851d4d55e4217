package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fernwood/patternbank/internal/sanitize"
	"github.com/fernwood/patternbank/internal/store"
)

var (
	writeCategory    string
	writeName        string
	writeDescription string
	writeInstruction string
	writeWeight      float64
	writeSessions    int
	writeProjects    int
	writeSessionRefs string
)

var writeCmd = &cobra.Command{
	Use:   "write <id>",
	Short: "Create or reinforce a pattern",
	Long: `Create a pattern or reinforce an existing one. The id is sanitized to
lowercase letters, digits, and hyphens. A reinforcing write updates all
mutable fields and last_reinforced, but never first_seen and never status.

Example:
  patternbank write tests-first \
    --category verification \
    --name "Runs tests before committing" \
    --instruction "Run the test suite before committing changes" \
    --sessions 3 --projects 1 --weight 1.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		var refs []string
		if writeSessionRefs != "" {
			for _, r := range strings.Split(writeSessionRefs, ",") {
				if r = strings.TrimSpace(r); r != "" {
					refs = append(refs, r)
				}
			}
		}

		p := &store.Pattern{
			ID:           args[0],
			Category:     writeCategory,
			Name:         writeName,
			Description:  writeDescription,
			Instruction:  writeInstruction,
			Weight:       writeWeight,
			SessionCount: writeSessions,
			ProjectCount: writeProjects,
			SessionRefs:  refs,
		}

		created, err := s.Write(p)
		if err != nil {
			return err
		}
		if created {
			fmt.Printf("created %s (%s, confidence %s, weight %.2f)\n", p.ID, p.Category, p.Confidence, p.Weight)
		} else {
			fmt.Printf("reinforced %s (confidence %s, weight %.2f)\n", p.ID, p.Confidence, p.Weight)
		}
		return nil
	},
}

func init() {
	writeCmd.Flags().StringVar(&writeCategory, "category", "", "Pattern category ("+strings.Join(sanitize.Categories, ", ")+")")
	writeCmd.Flags().StringVar(&writeName, "name", "", "Human-readable pattern name")
	writeCmd.Flags().StringVar(&writeDescription, "description", "", "What was observed")
	writeCmd.Flags().StringVar(&writeInstruction, "instruction", "", "Actionable text injected when active")
	writeCmd.Flags().Float64Var(&writeWeight, "weight", 0.5, "Initial weight, clamped to [0, 2.0]")
	writeCmd.Flags().IntVar(&writeSessions, "sessions", 1, "Number of contributing sessions")
	writeCmd.Flags().IntVar(&writeProjects, "projects", 1, "Number of contributing projects")
	writeCmd.Flags().StringVar(&writeSessionRefs, "session-refs", "", "Comma-separated session ids")
	writeCmd.MarkFlagRequired("category")
	writeCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(writeCmd)
}
