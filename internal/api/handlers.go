package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"vecho.ai/chat-backend/internal/core"
)

const (
	defaultUserID      = 1
	defaultRecentLimit = 10
)

type APIHandler struct {
	chatService *core.ChatService
}

func NewAPIHandler(cs *core.ChatService) *APIHandler {
	return &APIHandler{chatService: cs}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response body: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps the core error taxonomy onto status codes:
// validation failures are the caller's fault, everything else is ours.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// queryInt reads an integer query parameter, falling back to its default when
// absent or unparseable.
func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

type ChatRequest struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	Mode    string `json:"mode"`
}

func (h *APIHandler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	req := ChatRequest{UserID: defaultUserID, Mode: "qa"}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.chatService.SendMessage(r.Context(), req.Message, req.UserID, req.Mode)
	if err != nil {
		log.Printf("Error handling chat for user %d: %v", req.UserID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID := int64(queryInt(r, "user_id", defaultUserID))

	history, err := h.chatService.GetHistory(userID)
	if err != nil {
		log.Printf("Error fetching history for user %d: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *APIHandler) RecentChatsHandler(w http.ResponseWriter, r *http.Request) {
	userID := int64(queryInt(r, "user_id", defaultUserID))
	limit := queryInt(r, "limit", defaultRecentLimit)

	recentChats, err := h.chatService.GetRecentChats(userID, limit)
	if err != nil {
		log.Printf("Error fetching recent chats for user %d: %v", userID, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recent_chats": recentChats})
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	req := CreateUserRequest{Username: "Guest"}
	if r.Body != http.NoBody {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
			return
		}
	}

	user, err := h.chatService.CreateUser(req.Username, req.Email)
	if err != nil {
		log.Printf("Error creating user %q: %v", req.Username, err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}
