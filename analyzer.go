package aisdk

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// ──────────────────────────────────────────────
// Sentiment/Topic Analyzer — single-exchange LLM analysis
// ──────────────────────────────────────────────

// InteractionAnalysis is the derived view of one chat exchange.
type InteractionAnalysis struct {
	Sentiment     Sentiment `json:"sentiment" jsonschema:"enum=positive,enum=neutral,enum=negative"`
	Topics        []string  `json:"topics" jsonschema:"maxItems=3"`
	EmotionalTone float64   `json:"emotional_tone" jsonschema:"minimum=-1,maximum=1"`
}

// NeutralAnalysis is the documented fallback when analysis fails.
func NeutralAnalysis() InteractionAnalysis {
	return InteractionAnalysis{
		Sentiment:     SentimentNeutral,
		Topics:        []string{},
		EmotionalTone: 0,
	}
}

// InteractionAnalyzer is what the EvolutionEngine needs from an analyzer.
type InteractionAnalyzer interface {
	Analyze(ctx context.Context, userMessage, aiResponse string) InteractionAnalysis
}

var analysisSchema = GenerateSchema[InteractionAnalysis]()

const analyzerInstructions = `You analyze a single chat exchange between a user and an AI assistant.

Return strict JSON with exactly these fields:
- "sentiment": overall sentiment of the exchange, one of "positive", "neutral", "negative"
- "topics": up to 3 short lowercase topic labels the exchange is about
- "emotional_tone": the user's emotional tone as a number from -1 (very negative) to 1 (very positive)

Only return the JSON object, nothing else.`

const analyzerTemperature = 0.3

// Analyzer extracts sentiment, topics, and emotional tone from one chat
// exchange via a single best-effort LLM call. It never returns an error:
// any failure (network, timeout, malformed output) degrades to
// NeutralAnalysis so it can never block the caller's critical path.
type Analyzer struct {
	completer Completer
}

// NewAnalyzer creates an analyzer on top of a Completer.
func NewAnalyzer(completer Completer) *Analyzer {
	return &Analyzer{completer: completer}
}

// Analyze performs the analysis. One attempt, no retries.
func (a *Analyzer) Analyze(ctx context.Context, userMessage, aiResponse string) InteractionAnalysis {
	input := fmt.Sprintf("User: %s\n\nAssistant: %s", userMessage, aiResponse)
	out, err := a.completer.Complete(ctx, CompletionRequest{
		Instructions: analyzerInstructions,
		Input:        input,
		Temperature:  analyzerTemperature,
		MaxTokens:    200,
		SchemaName:   "interaction_analysis",
		Schema:       analysisSchema,
	})
	if err != nil {
		log.Printf("[Analyzer] analysis call failed: %v", err)
		return NeutralAnalysis()
	}

	var result InteractionAnalysis
	if err := decodeModelJSON(out, &result); err != nil {
		log.Printf("[Analyzer] malformed analysis output: %v", err)
		return NeutralAnalysis()
	}
	return sanitizeAnalysis(result)
}

// sanitizeAnalysis fails closed: anything outside the documented shape
// collapses back to the neutral default or is coerced into range.
func sanitizeAnalysis(in InteractionAnalysis) InteractionAnalysis {
	switch in.Sentiment {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return NeutralAnalysis()
	}

	topics := make([]string, 0, 3)
	for _, t := range in.Topics {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		topics = append(topics, t)
		if len(topics) == 3 {
			break
		}
	}
	in.Topics = topics

	if in.EmotionalTone < -1 {
		in.EmotionalTone = -1
	}
	if in.EmotionalTone > 1 {
		in.EmotionalTone = 1
	}
	return in
}
