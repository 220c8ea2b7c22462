package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/faqd/internal/faq"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Engine *faq.Engine
	Store  ConversationStore // optional; history/stats report unavailable when nil
}

// NewMCPServer creates an MCP server exposing the FAQ matcher and the
// conversation log to agent tooling.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"faqd",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("faqd — customer-support FAQ matcher with a local conversation log."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("ask_faq",
			mcp.WithDescription("Ask the FAQ knowledge base a question and get the matched answer with a confidence score."),
			mcp.WithString("message", mcp.Description("The question to answer"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Optional session identifier for grouping exchanges")),
		),
		mcpAskFAQ(deps),
	)

	s.AddTool(
		mcp.NewTool("conversation_history",
			mcp.WithDescription("List recent logged conversations, newest first."),
			mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 10, max 100)")),
			mcp.WithString("session_id", mcp.Description("Optional session filter")),
		),
		mcpHistory(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"faqd://stats",
			"Conversation Statistics",
			mcp.WithResourceDescription("Totals for logged conversations and sessions"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceStats(deps),
	)

	return s
}

func mcpAskFAQ(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		sessionID := req.GetString("session_id", "mcp")

		reply := deps.Engine.Reply(message)

		// Logging failures never block the answer.
		if deps.Store != nil {
			if _, err := deps.Store.SaveConversation(message, reply.Response, sessionID); err != nil {
				slog.Warn("failed to save conversation", "session_id", sessionID, "error", err)
			}
		}

		b, err := json.Marshal(map[string]any{
			"response":   reply.Response,
			"confidence": round2(reply.Confidence),
			"type":       reply.Type,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpHistory(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Store == nil {
			return mcpError("conversation log unavailable"), nil
		}

		limit := req.GetInt("limit", 10)
		if limit < 1 {
			limit = 1
		}
		if limit > 100 {
			limit = 100
		}
		sessionID := req.GetString("session_id", "")

		conversations, err := deps.Store.RecentConversations(limit, sessionID)
		if err != nil {
			return mcpError(fmt.Sprintf("history failed: %v", err)), nil
		}
		if len(conversations) == 0 {
			return mcpText("[]"), nil
		}

		b, err := json.Marshal(conversations)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal history: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceStats(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.Store == nil {
			return nil, fmt.Errorf("conversation log unavailable")
		}

		total, err := deps.Store.CountConversations()
		if err != nil {
			return nil, fmt.Errorf("counting conversations: %w", err)
		}
		sessions, err := deps.Store.CountSessions()
		if err != nil {
			return nil, fmt.Errorf("counting sessions: %w", err)
		}

		b, err := json.Marshal(map[string]any{
			"total_conversations": total,
			"total_sessions":      sessions,
			"timestamp":           time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, fmt.Errorf("marshalling stats: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
