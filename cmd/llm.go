package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/llm"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage",
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		stats, err := s.EventRepo().LLMUsage(cmd.Context())
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Printf("%-16s  %-28s  %6s  %10s  %10s  %5s  %9s\n",
			"Purpose", "Model", "Calls", "Input", "Output", "Fail", "Cost")
		fmt.Println(strings.Repeat("─", 96))

		var totalIn, totalOut, totalCalls int
		var totalCost float64
		var unknownModels []string
		for _, st := range stats {
			costStr := "?"
			if cost := llm.LookupCost(st.Model); cost != nil {
				c := cost.Cost(st.InputTokens, st.OutputTokens)
				totalCost += c
				costStr = formatCost(c)
			} else {
				unknownModels = append(unknownModels, st.Model)
			}
			fmt.Printf("%-16s  %-28s  %6d  %10d  %10d  %5d  %9s\n",
				st.Purpose, truncate(st.Model, 28), st.Requests,
				st.InputTokens, st.OutputTokens, st.Failures, costStr)
			totalCalls += st.Requests
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}

		fmt.Println(strings.Repeat("─", 96))
		label := "TOTAL"
		if len(unknownModels) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Printf("%-16s  %-28s  %6d  %10d  %10d  %5s  %9s\n",
			label, "", totalCalls, totalIn, totalOut, "", formatCost(totalCost))

		if len(unknownModels) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unknownModels, ", "))
		}
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmCmd.AddCommand(llmStatsCmd)
}
