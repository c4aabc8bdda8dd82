package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get your personalized recommendations",
	Long:  "Fetch up to ten titles ranked against your chat history. Requires a token.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if authToken == "" {
			return fmt.Errorf("ANIMECHAT_TOKEN not set; log in first")
		}

		body, err := apiRequest("GET", "/api/v1/recommendations", nil, true)
		if err != nil {
			return err
		}

		var result struct {
			Recommendations []animeRow `json:"recommendations"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		printAnimeList(result.Recommendations)
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Show what's trending right now",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest("GET", "/api/v1/trending", nil, false)
		if err != nil {
			return err
		}

		var result struct {
			Trending []animeRow `json:"trending"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}

		printAnimeList(result.Trending)
		return nil
	},
}

type animeRow struct {
	Title    string   `json:"title"`
	Score    *float64 `json:"score"`
	Episodes int      `json:"episodes"`
	Genres   []string `json:"genres"`
}

func printAnimeList(items []animeRow) {
	if len(items) == 0 {
		fmt.Println("Nothing to show.")
		return
	}

	for i, item := range items {
		score := "N/A"
		if item.Score != nil {
			score = fmt.Sprintf("%.2f", *item.Score)
		}
		fmt.Printf("%2d. %s (score %s, %d eps)\n", i+1, item.Title, score, item.Episodes)
	}
}
