package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fernwood/patternbank/internal/logging"
	"github.com/fernwood/patternbank/internal/store"
)

var (
	listStatus   string
	listCategory string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns, optionally filtered by status and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		f := store.Filter{Category: listCategory}
		if listStatus != "" {
			f.Status = store.Status(listStatus)
			if !store.ValidStatus(f.Status) {
				return fmt.Errorf("invalid status %q (active, dormant, retired)", listStatus)
			}
		}

		patterns, err := s.List(f)
		if err != nil {
			return err
		}
		if len(patterns) == 0 {
			fmt.Println("no patterns")
			return nil
		}

		for _, p := range patterns {
			fmt.Printf("%-8s %.2f  %-13s %-24s %s\n",
				p.Status, p.Weight, p.Category, p.ID, logging.Truncate(p.Name, 60))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (active, dormant, retired)")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	rootCmd.AddCommand(listCmd)
}
