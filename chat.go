package aisdk

import (
	"context"
	"fmt"
	"strings"
)

// ──────────────────────────────────────────────
// Chat Service — personalized replies per entity
// ──────────────────────────────────────────────

// Base system prompts for the two personalities.
const (
	GrokBasePrompt = `You are Grok, a sharp, logic-driven AI companion on the Grok & Ani platform. You reason step by step, love data and systems, and keep answers crisp. Dry wit is welcome; fluff is not.`

	AniBasePrompt = `You are Ani, a warm, emotionally intuitive AI companion on the Grok & Ani platform. You listen closely, respond with empathy and imagination, and make the user feel heard. Playful and creative beats clinical.`
)

// entityTemperatures reflect the logic/emotion split: Grok leans
// deterministic, Ani leans expressive.
var entityTemperatures = map[Entity]float64{
	EntityGrok: 0.3,
	EntityAni:  0.7,
}

// ChatMessage is one prior turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ChatConfig bounds the reply generation.
type ChatConfig struct {
	MaxHistoryTurns int // prior turns kept in the prompt, default 10
	MaxOutputTokens int // reply token cap, default 250
}

// DefaultChatConfig returns production defaults.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		MaxHistoryTurns: 10,
		MaxOutputTokens: 250,
	}
}

// ChatService produces entity replies using the personalized system
// prompt. The caller is expected to Submit the exchange to the
// InteractionPipeline after sending the reply, not before.
type ChatService struct {
	completer Completer
	engine    *EvolutionEngine
	config    ChatConfig
}

// NewChatService creates a chat service. A nil engine skips
// personalization and uses the base prompts as-is.
func NewChatService(completer Completer, engine *EvolutionEngine, config ...ChatConfig) *ChatService {
	cfg := DefaultChatConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.MaxHistoryTurns <= 0 {
		cfg.MaxHistoryTurns = 10
	}
	if cfg.MaxOutputTokens <= 0 {
		cfg.MaxOutputTokens = 250
	}
	return &ChatService{completer: completer, engine: engine, config: cfg}
}

// BasePrompt returns the stock persona prompt for an entity.
func BasePrompt(entity Entity) string {
	if entity == EntityAni {
		return AniBasePrompt
	}
	return GrokBasePrompt
}

// Reply generates the entity's next message.
func (s *ChatService) Reply(ctx context.Context, userID string, entity Entity, history []ChatMessage, userMessage string) (string, error) {
	if !entity.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEntity, entity)
	}

	system := BasePrompt(entity)
	if s.engine != nil {
		system = s.engine.PersonalizedPrompt(ctx, userID, entity, system)
	}

	out, err := s.completer.Complete(ctx, CompletionRequest{
		Instructions: system,
		Input:        buildTranscript(truncateHistory(history, s.config.MaxHistoryTurns), userMessage),
		Temperature:  entityTemperatures[entity],
		MaxTokens:    s.config.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// truncateHistory keeps the most recent turns.
func truncateHistory(history []ChatMessage, max int) []ChatMessage {
	if len(history) <= max {
		return history
	}
	return history[len(history)-max:]
}

func buildTranscript(history []ChatMessage, userMessage string) string {
	var b strings.Builder
	for _, msg := range history {
		label := "User"
		if msg.Role == "assistant" {
			label = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", label, msg.Content)
	}
	fmt.Fprintf(&b, "User: %s", userMessage)
	return b.String()
}
