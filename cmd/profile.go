package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/users"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the learner profile",
}

var profileInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a learner profile and start tracking progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		grade, _ := cmd.Flags().GetString("grade")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := users.NewService(s, progress.NewService(s))
		p, err := svc.Create(cmd.Context(), userID(cmd), name, grade)
		if err != nil {
			return err
		}

		fmt.Printf("Profile created for %s (%s). Happy discovering!\n", p.DisplayName, p.GradeLevel)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the learner profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := users.NewService(s, progress.NewService(s))
		p, err := svc.Get(cmd.Context(), userID(cmd))
		if errors.Is(err, users.ErrNotFound) {
			fmt.Println("No profile yet. Run: tuklascope profile init --name <name>")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("Name:        %s\n", p.DisplayName)
		fmt.Printf("Grade level: %s\n", p.GradeLevel)
		fmt.Printf("Member since: %s\n", p.CreatedAt.Local().Format("January 2, 2006"))
		return nil
	},
}

var profileGradeCmd = &cobra.Command{
	Use:   "set-grade <level>",
	Short: "Update the education level used for AI content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		svc := users.NewService(s, progress.NewService(s))
		if err := svc.SetGradeLevel(cmd.Context(), userID(cmd), args[0]); err != nil {
			return err
		}
		fmt.Printf("Grade level set to %q.\n", args[0])
		return nil
	},
}

func init() {
	profileInitCmd.Flags().String("name", "Explorer", "Display name")
	profileInitCmd.Flags().String("grade", users.DefaultGradeLevel, "Education level (e.g. 'Junior High School')")

	profileCmd.AddCommand(profileInitCmd)
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileGradeCmd)
}
