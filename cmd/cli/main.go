package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8787"
)

var rootCmd = &cobra.Command{
	Use:   "animechat",
	Short: "AnimeChat CLI - Chat with the anime catalog from your terminal",
	Long: `AnimeChat CLI provides command-line access to the AnimeChat API.
Ask about titles, get suggestions for partial names, and pull your
personalized recommendations.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("ANIMECHAT_TOKEN")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to ANIMECHAT_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(trendingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
