package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vecho.ai/chat-backend/internal/config"
)

const (
	defaultChatModelName = "gemini-1.5-flash-latest"

	qaSystemInstruction = "You are Vecho, a helpful AI assistant. Answer the user's question directly and accurately. " +
		"If you don't know the answer, say so instead of making something up. Keep answers concise."

	creativeSystemInstruction = "You are Vecho, a creative AI assistant. Respond with imagination and flair, " +
		"but stay relevant to what the user asked for."

	summarizeSystemInstruction = "You are Vecho, a summarization assistant. Condense the user's text into a short, " +
		"faithful summary. Do not add information that is not in the text."
)

// Generator produces an AI response for a user message. It is opaque to the
// chat service: any failure (network, quota, auth) surfaces as an error and is
// not retried.
type Generator interface {
	Generate(ctx context.Context, message, mode string) (string, error)
}

type LLMService struct {
	client *genai.Client
}

func NewLLMService() *LLMService {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	return &LLMService{
		client: client,
	}
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		} else {
			log.Println("GenAI client closed.")
		}
	}
}

func systemInstructionForMode(mode string) string {
	switch mode {
	case "creative":
		return creativeSystemInstruction
	case "summarize":
		return summarizeSystemInstruction
	default:
		// Unknown modes behave as plain Q&A rather than erroring.
		return qaSystemInstruction
	}
}

func (s *LLMService) Generate(ctx context.Context, message, mode string) (string, error) {
	model := s.client.GenerativeModel(defaultChatModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstructionForMode(mode))},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Println("Gemini response was empty or had no valid candidates/parts.")
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		} else {
			log.Printf("Gemini response part was not text: %T", part)
		}
	}

	if responseText.Len() == 0 {
		log.Println("Gemini response part was not text or was empty after processing.")
		return "I received an empty or non-text response, please try rephrasing your question.", nil
	}

	return responseText.String(), nil
}
