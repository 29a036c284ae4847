package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/discovery"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/users"
)

var tutorCmd = &cobra.Command{
	Use:   "tutor [question]",
	Short: "Ask the STEM tutor a question (interactive without arguments)",
	RunE: func(cmd *cobra.Command, args []string) error {
		objectContext, _ := cmd.Flags().GetString("about")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		grade := users.DefaultGradeLevel
		usersSvc := users.NewService(s, progress.NewService(s))
		if p, err := usersSvc.Get(ctx, userID(cmd)); err == nil {
			grade = p.GradeLevel
		}

		backend, err := newDiscoverer(cmd, s)
		if err != nil {
			return err
		}

		// One-shot mode.
		if len(args) > 0 {
			answer, err := backend.Tutor(ctx, discovery.TutorInput{
				Question:      strings.Join(args, " "),
				GradeLevel:    grade,
				ObjectContext: objectContext,
			})
			if err != nil {
				return err
			}
			fmt.Println(answer)
			return nil
		}

		// Interactive mode keeps the running history.
		fmt.Println("Ask me anything about STEM. Empty line to quit.")
		var history []discovery.ChatMessage
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				break
			}

			answer, err := backend.Tutor(ctx, discovery.TutorInput{
				Question:      question,
				GradeLevel:    grade,
				ChatHistory:   history,
				ObjectContext: objectContext,
			})
			if err != nil {
				fmt.Fprintf(os.Stderr, "tutor error: %v\n", err)
				continue
			}

			fmt.Println(answer)
			history = append(history,
				discovery.ChatMessage{Role: "user", Content: question},
				discovery.ChatMessage{Role: "assistant", Content: answer},
			)
		}
		return scanner.Err()
	},
}

func init() {
	tutorCmd.Flags().String("about", "", "Object the question is about (adds context)")
}
