package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/skills"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show acquired skills grouped by STEM category",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		engine := skills.NewEngine(s, progress.NewService(s))
		skillMap, err := engine.Load(cmd.Context(), userID(cmd))
		if err != nil {
			return err
		}

		if len(skillMap) == 0 {
			fmt.Println("No skills yet. Run: tuklascope discover --image <photo>")
			return nil
		}

		stats := skills.Aggregate(skillMap)
		totals := skills.ComputeTotals(skillMap)

		for _, cat := range stats {
			fmt.Printf("%s — Level %d (%d XP, %.0f%% to next)\n",
				cat.Subject, cat.Level, cat.XP, cat.Progress*100)
			for _, sk := range cat.Skills {
				fmt.Printf("  %-30s  mastery %3d  %s\n",
					sk.Name, sk.MasteryLevel, skills.MasteryLabel(sk.MasteryLevel))
			}
			fmt.Println()
		}

		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("Total XP: %d · Concepts mastered: %d · Average level: %d\n",
			totals.TotalXP, totals.ConceptsMastered, totals.AverageLevel)
		return nil
	},
}
