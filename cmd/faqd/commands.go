package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/faqd/internal/config"
)

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send a message to the FAQ bot",
	Long: `Send a message to the FAQ bot and print the answer.

Examples:
  faqd chat "what are your business hours?"
  faqd chat --session support-42 "how do I return an item?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.Join(args, " ")
		session, _ := cmd.Flags().GetString("session")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		req := map[string]any{"message": message}
		if session != "" {
			req["session_id"] = session
		}

		resp, err := client.post(cmd.Context(), "/chat", req)
		if err != nil {
			return err
		}

		var reply struct {
			Response   string  `json:"response"`
			Confidence float64 `json:"confidence"`
			Type       string  `json:"type"`
			SessionID  string  `json:"session_id"`
		}
		if err := decodeJSON(resp, &reply); err != nil {
			return err
		}

		fmt.Println(reply.Response)
		fmt.Printf("\n%s %.2f (%s)  %s %s\n",
			colorize(colorBold, "confidence:"), reply.Confidence, reply.Type,
			colorize(colorBold, "session:"), reply.SessionID,
		)
		return nil
	},
}

func init() {
	chatCmd.Flags().String("session", "", "session identifier for grouping exchanges")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		q := url.Values{}
		q.Set("limit", fmt.Sprintf("%d", limit))
		if session != "" {
			q.Set("session_id", session)
		}

		resp, err := client.get(cmd.Context(), "/history?"+q.Encode())
		if err != nil {
			return err
		}

		var result struct {
			Conversations []struct {
				ID          int64  `json:"id"`
				UserMessage string `json:"user_message"`
				BotResponse string `json:"bot_response"`
				SessionID   string `json:"session_id"`
				Timestamp   string `json:"timestamp"`
			} `json:"conversations"`
			TotalStored int64 `json:"total_stored"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Conversations) == 0 {
			fmt.Println("No conversations found.")
			return nil
		}

		for _, c := range result.Conversations {
			question := c.UserMessage
			if len(question) > 80 {
				question = question[:80] + "..."
			}
			fmt.Printf("%s  %s  %s\n",
				colorize(colorCyan, fmt.Sprintf("#%d", c.ID)),
				c.Timestamp,
				question,
			)
		}
		fmt.Printf("\n%d of %d stored\n", len(result.Conversations), result.TotalStored)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum number of conversations to list")
	historyCmd.Flags().String("session", "", "only list conversations from this session")
}

// --- stats ---

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show conversation statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/stats")
		if err != nil {
			return err
		}

		var stats struct {
			TotalConversations int64  `json:"total_conversations"`
			TotalSessions      int64  `json:"total_sessions"`
			Status             string `json:"status"`
		}
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Status", "%s", stats.Status)
		printStatus("Conversations", "%d", stats.TotalConversations)
		printStatus("Sessions", "%d", stats.TotalSessions)
		return nil
	},
}

// --- purge ---

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete conversations older than a number of days",
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		confirm, _ := cmd.Flags().GetBool("confirm")

		if days < 0 {
			return fmt.Errorf("--days must be a non-negative integer")
		}
		if !confirm {
			if days == 0 {
				printWarning("This will delete ALL logged conversations. Use --confirm to proceed.")
			} else {
				printWarning("This will delete conversations older than %d days. Use --confirm to proceed.", days)
			}
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if client.token == "" {
			return fmt.Errorf("purge requires an admin token; set FAQD_ADMIN_TOKEN")
		}

		resp, err := client.delete(cmd.Context(), fmt.Sprintf("/conversations?older_than_days=%d", days))
		if err != nil {
			return err
		}

		var result struct {
			Deleted int64 `json:"deleted"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Deleted %d conversations", result.Deleted)
		return nil
	},
}

func init() {
	purgeCmd.Flags().Int("days", 0, "delete conversations older than this many days (0 = all)")
	purgeCmd.Flags().Bool("confirm", false, "confirm the purge")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
