package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vecho.ai/chat-backend/internal/store"
)

const historyLimit = 50

type ChatService struct {
	dbStore   *store.SQLiteStore
	generator Generator
}

func NewChatService(db *store.SQLiteStore, generator Generator) *ChatService {
	return &ChatService{
		dbStore:   db,
		generator: generator,
	}
}

type SendResult struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// SendMessage forwards the user's message to the generator and records the
// exchange. Nothing is persisted unless the generator succeeds.
func (s *ChatService) SendMessage(ctx context.Context, userMessage string, userID int64, mode string) (*SendResult, error) {
	trimmed := strings.TrimSpace(userMessage)
	if trimmed == "" {
		return nil, &ValidationError{Message: "Message cannot be empty"}
	}

	aiResponse, err := s.generator.Generate(ctx, trimmed, mode)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	turn, err := s.dbStore.CreateChatTurn(userID, trimmed, aiResponse, time.Now())
	if err != nil {
		return nil, &ServiceError{Err: fmt.Errorf("failed to store chat turn: %w", err)}
	}

	return &SendResult{
		Response:  aiResponse,
		Timestamp: turn.Timestamp,
	}, nil
}

type HistoryEntry struct {
	UserMessage string `json:"user_message"`
	AIResponse  string `json:"ai_response"`
	Timestamp   string `json:"timestamp"`
}

// GetHistory returns the user's most recent turns, newest first, capped at 50.
func (s *ChatService) GetHistory(userID int64) ([]HistoryEntry, error) {
	turns, err := s.dbStore.GetChatTurns(userID, historyLimit)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	history := make([]HistoryEntry, 0, len(turns))
	for _, turn := range turns {
		history = append(history, HistoryEntry{
			UserMessage: turn.UserMessage,
			AIResponse:  turn.AIResponse,
			Timestamp:   turn.Timestamp,
		})
	}
	return history, nil
}

// GetRecentChats groups the user's full turn list into conversations split at
// 30-minute idle gaps and returns summaries for the most recent limit of them.
func (s *ChatService) GetRecentChats(userID int64, limit int) ([]RecentChat, error) {
	turns, err := s.dbStore.GetChatTurns(userID, 0)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}

	now := time.Now()
	conversations := groupConversations(turns, now)
	if limit < 0 {
		limit = 0
	}
	if limit < len(conversations) {
		conversations = conversations[:limit]
	}

	recent := make([]RecentChat, 0, len(conversations))
	for _, conv := range conversations {
		recent = append(recent, summarizeConversation(conv, now))
	}
	return recent, nil
}

// CreateUser inserts a new user row. A duplicate email surfaces as a
// ServiceError; SQLite aborts the insert, so no partial row is left behind.
func (s *ChatService) CreateUser(username, email string) (*store.User, error) {
	user, err := s.dbStore.CreateUser(username, email)
	if err != nil {
		return nil, &ServiceError{Err: err}
	}
	return user, nil
}
