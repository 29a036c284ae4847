package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tuklascope/tuklascope/internal/discovery"
	"github.com/tuklascope/tuklascope/internal/llm"
	"github.com/tuklascope/tuklascope/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "tuklascope",
	Short: "Turn everyday objects into STEM discoveries",
	Long:  "Tuklascope — snap a photo of anything around you, learn the STEM behind it, and build a personal skill constellation.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides TUKLASCOPE_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", "local", "User ID to operate on")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(pathfinderCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then TUKLASCOPE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database for a command.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// userID returns the --user flag value.
func userID(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	return u
}

// newDiscoverer picks the discovery backend: a remote API when
// TUKLASCOPE_API_URL is set, otherwise the local LLM pipeline.
func newDiscoverer(cmd *cobra.Command, s *store.Store) (discovery.Discoverer, error) {
	if apiURL := os.Getenv("TUKLASCOPE_API_URL"); apiURL != "" {
		return discovery.NewClient(apiURL), nil
	}

	provider, err := llm.NewProviderFromEnv(cmd.Context(), s.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("no discovery backend: set TUKLASCOPE_API_URL or configure an LLM provider: %w", err)
	}
	return discovery.NewService(provider, discovery.DefaultConfig()), nil
}
