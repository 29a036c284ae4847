package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show points, streak, badges, and recent discoveries",
	RunE: func(cmd *cobra.Command, args []string) error {
		topN, _ := cmd.Flags().GetInt("leaderboard")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		svc := progress.NewService(s)

		if topN > 0 {
			entries, err := svc.Leaderboard(ctx, topN)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No learners yet.")
				return nil
			}
			fmt.Printf("%-4s  %-20s  %8s  %6s\n", "#", "User", "Points", "Streak")
			fmt.Println(strings.Repeat("─", 44))
			for i, e := range entries {
				fmt.Printf("%-4d  %-20s  %8d  %6d\n", i+1, e.UserID, e.TotalPoints, e.Streak)
			}
			return nil
		}

		user := userID(cmd)
		up, err := svc.Get(ctx, user)
		if errors.Is(err, progress.ErrNotFound) {
			fmt.Println("No progress yet. Run: tuklascope profile init")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Total points: %d\n", up.TotalPoints)
		fmt.Printf("Streak:       %d day(s)\n", up.Streak)
		if up.LastLoginDate != "" {
			fmt.Printf("Last active:  %s\n", up.LastLoginDate)
		}

		fmt.Println("\nBadges")
		for _, b := range progress.AllBadges {
			fmt.Printf("  %s %s — %s\n", b.Icon, b.Name, b.Description)
		}

		recent, err := s.EventRepo().RecentDiscoveries(ctx, user, 5)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Println("\nRecent discoveries")
			for _, r := range recent {
				fmt.Printf("  %s  %s (%s) — %d skill(s), +%d points\n",
					r.Timestamp.Local().Format("Jan 2"),
					r.ObjectLabel, r.CategoryHint, r.SkillsAwarded, r.PointsAwarded)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("leaderboard", 0, "Show the top N learners instead of personal stats")
}
