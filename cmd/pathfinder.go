package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/skills"
	"github.com/tuklascope/tuklascope/internal/users"
)

var pathfinderCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Get academic and career guidance from your acquired skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		user := userID(cmd)

		engine := skills.NewEngine(s, progress.NewService(s))
		skillMap, err := engine.Load(ctx, user)
		if err != nil {
			return err
		}
		if len(skillMap) == 0 {
			fmt.Println("Discover a few objects first so the pathfinder has skills to work with.")
			return nil
		}

		userSkills := make(map[string]int, len(skillMap))
		for name, sk := range skillMap {
			userSkills[name] = sk.MasteryLevel
		}

		grade := users.DefaultGradeLevel
		usersSvc := users.NewService(s, progress.NewService(s))
		if p, err := usersSvc.Get(ctx, user); err == nil {
			grade = p.GradeLevel
		}

		backend, err := newDiscoverer(cmd, s)
		if err != nil {
			return err
		}

		fmt.Println("Charting your path...")
		guidance, err := backend.Pathfinder(ctx, userSkills, grade)
		if err != nil {
			return err
		}

		sep := strings.Repeat("─", 60)
		fmt.Println(sep)
		fmt.Println(guidance.Title)
		fmt.Println(sep)
		fmt.Println(guidance.Summary)

		if len(guidance.StrongestFields) > 0 {
			fmt.Println("\nStrongest skills")
			for _, f := range guidance.StrongestFields {
				fmt.Printf("  %-30s  %d\n", f.Skill, f.Score)
			}
		}

		for _, rec := range guidance.Recommendations {
			fmt.Printf("\n[%s] %s\n", rec.Type, rec.Name)
			fmt.Printf("  Why: %s\n", rec.Why)
			if rec.WhatsNext != "" {
				fmt.Printf("  Next: %s\n", rec.WhatsNext)
			}
			if rec.Inspiration != nil {
				fmt.Printf("  Inspiration: %s — %s\n", rec.Inspiration.Name, rec.Inspiration.Description)
			}
			if len(rec.CareerPaths) > 0 {
				fmt.Printf("  Careers: %s\n", strings.Join(rec.CareerPaths, ", "))
			}
			if len(rec.LocalSpotlight) > 0 {
				fmt.Printf("  Nearby: %s\n", strings.Join(rec.LocalSpotlight, ", "))
			}
		}
		return nil
	},
}
