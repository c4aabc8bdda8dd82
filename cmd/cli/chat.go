package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask about an anime title",
	Long:  "Send a chat message, e.g. `animechat ask \"tell me about Naruto\"`. Requires a token.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ask(strings.Join(args, " "))
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <partial-title>",
	Short: "Get title suggestions for a partial query",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return suggest(strings.Join(args, " "))
	},
}

func ask(message string) error {
	if authToken == "" {
		return fmt.Errorf("ANIMECHAT_TOKEN not set; log in first")
	}

	body, err := apiRequest("POST", "/api/v1/chat", map[string]interface{}{
		"message": message,
	}, true)
	if err != nil {
		return err
	}

	var result struct {
		Outcome string `json:"outcome"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Println(result.Message)
	return nil
}

func suggest(query string) error {
	body, err := apiRequest("POST", "/api/v1/search-assistance", map[string]interface{}{
		"query": query,
	}, false)
	if err != nil {
		return err
	}

	var result struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Suggestions) == 0 {
		fmt.Println("No suggestions.")
		return nil
	}
	for _, title := range result.Suggestions {
		fmt.Println("  " + title)
	}
	return nil
}

// apiRequest performs one JSON API call and returns the response body
func apiRequest(method, path string, payload interface{}, authed bool) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, apiURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.Unmarshal(body, &errResp)
		if msg, ok := errResp["message"].(string); ok {
			return nil, fmt.Errorf("API error: %s", msg)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return body, nil
}
