package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/discovery"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/skills"
	"github.com/tuklascope/tuklascope/internal/store"
	"github.com/tuklascope/tuklascope/internal/users"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Identify an object from a photo and earn skills for it",
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath, _ := cmd.Flags().GetString("image")
		grade, _ := cmd.Flags().GetString("grade")

		data, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		user := userID(cmd)

		// The profile's grade level is the default; --grade overrides.
		if grade == "" {
			grade = users.DefaultGradeLevel
			usersSvc := users.NewService(s, progress.NewService(s))
			if p, err := usersSvc.Get(ctx, user); err == nil {
				grade = p.GradeLevel
			}
		}

		backend, err := newDiscoverer(cmd, s)
		if err != nil {
			return err
		}

		fmt.Println("Identifying object...")
		result, err := backend.Discover(ctx, discovery.Image{
			MediaType: mediaTypeFor(imagePath),
			Data:      data,
		}, grade)
		if err != nil {
			return err
		}

		printDiscovery(result)

		engine := skills.NewEngine(s, progress.NewService(s))
		award, err := engine.AwardSkills(ctx, user, result.Skills.NormalizedSkills)
		if errors.Is(err, progress.ErrNotFound) {
			return fmt.Errorf("no progress record for %q; run: tuklascope profile init", user)
		}
		if err != nil {
			return err
		}

		if err := s.EventRepo().AppendDiscovery(ctx, store.DiscoveryEventData{
			ID:            uuid.NewString(),
			UserID:        user,
			ObjectLabel:   result.Identification.ObjectLabel,
			CategoryHint:  result.Identification.CategoryHint,
			SkillsAwarded: len(result.Skills.NormalizedSkills),
			PointsAwarded: award.PointsAwarded,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to record discovery: %v\n", err)
		}

		printAward(award)
		return nil
	},
}

func printDiscovery(d *discovery.FullDiscovery) {
	sep := strings.Repeat("─", 60)

	fmt.Println(sep)
	fmt.Printf("You discovered: %s (%s)\n", d.Identification.ObjectLabel, d.Identification.CategoryHint)
	fmt.Println(sep)
	fmt.Printf("Quick facts\n%s\n\n", d.SparkContent.QuickFacts)
	fmt.Printf("STEM concepts\n%s\n\n", d.SparkContent.STEMConcepts)
	fmt.Printf("Try this at home\n%s\n", d.SparkContent.HandsOnProject)
	fmt.Println(sep)
}

func printAward(a *skills.AwardResult) {
	for _, name := range a.NewSkills {
		fmt.Printf("★ New skill unlocked: %s\n", name)
	}
	for _, name := range a.LeveledUp {
		fmt.Printf("↑ Skill leveled up: %s\n", name)
	}
	fmt.Printf("+%d points", a.PointsAwarded)
	if a.Progress != nil {
		fmt.Printf(" · total %d · streak %d day(s)", a.Progress.TotalPoints, a.Progress.Streak)
	}
	fmt.Println()
}

// mediaTypeFor guesses the MIME type from the file extension.
func mediaTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func init() {
	discoverCmd.Flags().StringP("image", "i", "", "Path to the photo to identify")
	_ = discoverCmd.MarkFlagRequired("image")
	discoverCmd.Flags().StringP("grade", "g", "", "Education level for the content (defaults to the profile's)")
}
