package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/skillgraph"
	"github.com/tuklascope/tuklascope/internal/skills"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the skill constellation as graph JSON",
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

		g := skillgraph.Build(skills.Aggregate(skillMap))

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(g); err != nil {
			return fmt.Errorf("encode graph: %w", err)
		}
		return nil
	},
}
