package aisdk

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestChatService_EntityTemperatures(t *testing.T) {
	completer := &stubCompleter{output: "reply"}
	s := NewChatService(completer, nil)

	if _, err := s.Reply(context.Background(), "u1", EntityGrok, nil, "hi"); err != nil {
		t.Fatal(err)
	}
	if completer.lastReq.Temperature != 0.3 {
		t.Fatalf("grok temperature: got %f", completer.lastReq.Temperature)
	}

	if _, err := s.Reply(context.Background(), "u1", EntityAni, nil, "hi"); err != nil {
		t.Fatal(err)
	}
	if completer.lastReq.Temperature != 0.7 {
		t.Fatalf("ani temperature: got %f", completer.lastReq.Temperature)
	}
	if completer.lastReq.MaxTokens != 250 {
		t.Fatalf("expected default 250 token cap, got %d", completer.lastReq.MaxTokens)
	}
}

func TestChatService_InvalidEntity(t *testing.T) {
	s := NewChatService(&stubCompleter{output: "x"}, nil)

	_, err := s.Reply(context.Background(), "u1", Entity("hal9000"), nil, "open the doors")
	if !errors.Is(err, ErrInvalidEntity) {
		t.Fatalf("expected ErrInvalidEntity, got %v", err)
	}
}

func TestChatService_PersonalizedSystemPrompt(t *testing.T) {
	store := NewInMemoryStore()
	engine := NewEvolutionEngine(store, positiveAnalyzer())

	profile := NewUserAiProfile("u1", EntityGrok)
	profile.CommunicationStyle = StyleTechnical
	if err := store.PutProfile(context.Background(), profile); err != nil {
		t.Fatal(err)
	}
	if err := store.PutPersonality(context.Background(), DefaultPersonalityState(EntityGrok)); err != nil {
		t.Fatal(err)
	}

	completer := &stubCompleter{output: "reply"}
	s := NewChatService(completer, engine)
	if _, err := s.Reply(context.Background(), "u1", EntityGrok, nil, "hi"); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(completer.lastReq.Instructions, GrokBasePrompt) {
		t.Fatal("system prompt must start from the grok base prompt")
	}
	if !strings.Contains(completer.lastReq.Instructions, styleDirectives[StyleTechnical]) {
		t.Fatal("system prompt missing the user's style directive")
	}
}

func TestChatService_HistoryTruncation(t *testing.T) {
	completer := &stubCompleter{output: "reply"}
	s := NewChatService(completer, nil, ChatConfig{MaxHistoryTurns: 2, MaxOutputTokens: 100})

	history := []ChatMessage{
		{Role: "user", Content: "turn one"},
		{Role: "assistant", Content: "turn two"},
		{Role: "user", Content: "turn three"},
	}
	if _, err := s.Reply(context.Background(), "u1", EntityGrok, history, "latest"); err != nil {
		t.Fatal(err)
	}

	input := completer.lastReq.Input
	if strings.Contains(input, "turn one") {
		t.Fatal("oldest turn must be truncated")
	}
	if !strings.Contains(input, "Assistant: turn two") || !strings.Contains(input, "User: turn three") {
		t.Fatalf("recent turns missing from transcript:\n%s", input)
	}
	if !strings.HasSuffix(input, "User: latest") {
		t.Fatalf("transcript must end with the new user message:\n%s", input)
	}
}

func TestChatService_TrimsReply(t *testing.T) {
	completer := &stubCompleter{output: "  spaced out  \n"}
	s := NewChatService(completer, nil)

	out, err := s.Reply(context.Background(), "u1", EntityAni, nil, "hi")
	if err != nil {
		t.Fatal(err)
	}
	if out != "spaced out" {
		t.Fatalf("expected trimmed reply, got %q", out)
	}
}

func TestChatService_CompleterErrorPropagates(t *testing.T) {
	boom := errors.New("rate limited")
	s := NewChatService(&stubCompleter{err: boom}, nil)

	_, err := s.Reply(context.Background(), "u1", EntityGrok, nil, "hi")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped completer error, got %v", err)
	}
}
