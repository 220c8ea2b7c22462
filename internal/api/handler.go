package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kalambet/faqd/internal/faq"
	"github.com/kalambet/faqd/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// maxMessageLen is the longest accepted chat message, in characters.
const maxMessageLen = 5000

// ConversationStore abstracts the conversation log for the API layer.
type ConversationStore interface {
	SaveConversation(userMessage, botResponse, sessionID string) (int64, error)
	RecentConversations(limit int, sessionID string) ([]storage.Conversation, error)
	CountConversations() (int64, error)
	CountSessions() (int64, error)
	PurgeOlderThan(days int) (int64, error)
}

// Deps holds the handler's collaborators. Store may be nil when the
// database failed to initialize: /chat keeps answering without logging,
// history and stats report unavailable.
type Deps struct {
	Engine *faq.Engine
	Store  ConversationStore
	Token  string // admin bearer token; empty disables admin routes
}

// NewHandler returns the service's HTTP handler.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/", handleIndex)
	r.Post("/chat", handleChat(deps))
	r.Get("/history", handleHistory(deps))
	r.Get("/stats", handleStats(deps))

	if deps.Token != "" {
		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(deps.Token))
			r.Delete("/conversations", handlePurge(deps))
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "faqd",
	})
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":        "faqd",
		"description": "Keyword-matching FAQ service with conversation logging",
		"endpoints": map[string]string{
			"GET /health":  "Health check",
			"POST /chat":   "Send message and get response",
			"GET /history": "Retrieve conversation history",
			"GET /stats":   "Get conversation statistics",
		},
	})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response       string  `json:"response"`
	Confidence     float64 `json:"confidence"`
	Type           string  `json:"type"`
	ConversationID *int64  `json:"conversation_id"`
	SessionID      string  `json:"session_id"`
	Timestamp      string  `json:"timestamp"`
}

func handleChat(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		message := strings.TrimSpace(req.Message)
		if message == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message is required and cannot be empty")
			return
		}
		if utf8.RuneCountInString(message) > maxMessageLen {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "message exceeds maximum length of %d characters", maxMessageLen)
			return
		}

		if deps.Engine == nil {
			httpError(w, http.StatusServiceUnavailable, "service_unavailable", "chat service unavailable")
			return
		}

		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = uuid.New().String()
		}

		reply := deps.Engine.Reply(message)

		// Failure to log the exchange must not fail the response.
		var conversationID *int64
		if deps.Store != nil {
			id, err := deps.Store.SaveConversation(message, reply.Response, sessionID)
			if err != nil {
				slog.Warn("failed to save conversation", "session_id", sessionID, "error", err)
			} else {
				conversationID = &id
			}
		}

		slog.Info("chat request processed", "session_id", sessionID, "type", reply.Type)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponse{
			Response:       reply.Response,
			Confidence:     round2(reply.Confidence),
			Type:           reply.Type,
			ConversationID: conversationID,
			SessionID:      sessionID,
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleHistory(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusServiceUnavailable, "service_unavailable", "database unavailable")
			return
		}

		limit := parseLimit(r, 10)
		sessionID := r.URL.Query().Get("session_id")

		conversations, err := deps.Store.RecentConversations(limit, sessionID)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to retrieve conversation history")
			return
		}
		if conversations == nil {
			conversations = []storage.Conversation{}
		}

		total, err := deps.Store.CountConversations()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to retrieve conversation history")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"conversations": conversations,
			"total_stored":  total,
			"returned":      len(conversations),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handleStats(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusServiceUnavailable, "service_unavailable", "database unavailable")
			return
		}

		total, err := deps.Store.CountConversations()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to retrieve statistics")
			return
		}
		sessions, err := deps.Store.CountSessions()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to retrieve statistics")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"total_conversations": total,
			"total_sessions":      sessions,
			"status":              "operational",
			"timestamp":           time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func handlePurge(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.Store == nil {
			httpError(w, http.StatusServiceUnavailable, "service_unavailable", "database unavailable")
			return
		}

		days, err := strconv.Atoi(r.URL.Query().Get("older_than_days"))
		if err != nil || days < 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "older_than_days must be a non-negative integer")
			return
		}

		deleted, err := deps.Store.PurgeOlderThan(days)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to purge conversations: %v", err)
			return
		}

		slog.Info("conversations purged", "older_than_days", days, "deleted", deleted)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int64{"deleted": deleted})
	}
}

// parseLimit reads the limit query param, clamped to [1,100].
func parseLimit(r *http.Request, defaultVal int) int {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
