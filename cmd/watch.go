package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/skills"
	"github.com/tuklascope/tuklascope/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the skill map and reprint category stats on every change",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		user := userID(cmd)

		unsubscribe := s.Subscribe(skills.Collection, user, func(doc store.Document) {
			skillMap, err := skills.FromDocument(doc)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: bad skill document: %v\n", err)
				return
			}
			printCategorySummary(skillMap)
		})
		defer unsubscribe()

		fmt.Printf("Watching skills for %q. Press Ctrl-C to stop.\n", user)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		fmt.Println("\nStopped watching.")
		return nil
	},
}

func printCategorySummary(m skills.SkillMap) {
	stats := skills.Aggregate(m)
	totals := skills.ComputeTotals(m)

	fmt.Println(strings.Repeat("─", 52))
	for _, cat := range stats {
		fmt.Printf("%-14s  L%-3d  %6d XP  %d mastered\n",
			cat.Subject, cat.Level, cat.XP, cat.Mastered)
	}
	fmt.Printf("Total XP: %d · Concepts mastered: %d\n",
		totals.TotalXP, totals.ConceptsMastered)
}
