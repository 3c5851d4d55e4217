package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var retireCmd = &cobra.Command{
	Use:   "retire <id>",
	Short: "Retire a pattern (terminal unless explicitly reactivated)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Retire(args[0]); err != nil {
			return err
		}
		fmt.Printf("retired %s\n", args[0])
		return nil
	},
}

var reactivateCmd = &cobra.Command{
	Use:   "reactivate <id>",
	Short: "Reactivate a dormant or retired pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Reactivate(args[0]); err != nil {
			return err
		}
		fmt.Printf("reactivated %s\n", args[0])
		return nil
	},
}

var boostCmd = &cobra.Command{
	Use:   "boost <id> <delta>",
	Short: "Increase a pattern's weight, saturating at 2.0",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		delta, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid delta %q: %w", args[1], err)
		}

		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.Boost(args[0], delta); err != nil {
			return err
		}
		if p, err := s.Read(args[0]); err == nil && p != nil {
			fmt.Printf("boosted %s to %.2f\n", p.ID, p.Weight)
		} else {
			fmt.Printf("no pattern %q, nothing boosted\n", args[0])
		}
		return nil
	},
}

var evidenceSession, evidenceProject, evidenceSnippet string

var evidenceCmd = &cobra.Command{
	Use:   "evidence <pattern-id>",
	Short: "Attach an observed occurrence to an existing pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.AddEvidence(args[0], evidenceSession, evidenceProject, evidenceSnippet); err != nil {
			return err
		}
		fmt.Printf("recorded evidence for %s\n", args[0])
		return nil
	},
}

func init() {
	evidenceCmd.Flags().StringVar(&evidenceSession, "session", "", "Session id of the occurrence")
	evidenceCmd.Flags().StringVar(&evidenceProject, "project", "", "Project where it was observed")
	evidenceCmd.Flags().StringVar(&evidenceSnippet, "snippet", "", "Free-text snippet")
	evidenceCmd.MarkFlagRequired("session")

	rootCmd.AddCommand(retireCmd)
	rootCmd.AddCommand(reactivateCmd)
	rootCmd.AddCommand(boostCmd)
	rootCmd.AddCommand(evidenceCmd)
}
