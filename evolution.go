package aisdk

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ──────────────────────────────────────────────
// Personality Evolution Engine
// ──────────────────────────────────────────────

// EvolutionConfig controls the evolution cadence and step size.
type EvolutionConfig struct {
	// EvolutionInterval triggers a trait-evolution step every Nth
	// interaction for an entity. Default 50.
	EvolutionInterval int
	// AggregateWindow is how many recent interactions feed the
	// aggregate signals of an evolution step. Default 50.
	AggregateWindow int
	// LearningRate is the full-strength trait nudge. Default 0.05.
	LearningRate float64
}

// DefaultEvolutionConfig returns production defaults.
func DefaultEvolutionConfig() EvolutionConfig {
	return EvolutionConfig{
		EvolutionInterval: 50,
		AggregateWindow:   50,
		LearningRate:      0.05,
	}
}

// satisfactionStyleStep is the per-point style shift applied when a
// representative satisfaction rating is available.
const satisfactionStyleStep = 0.02

// EvolutionEngine maintains the per-entity personality states and the
// per-(user, entity) relationship profiles, drifting them incrementally
// from analyzed interaction signals.
//
// Every operation degrades silently: the engine sits on a best-effort
// enrichment path and must never surface a failure into the chat
// response it trails behind.
type EvolutionEngine struct {
	store    Store
	analyzer InteractionAnalyzer
	feedback *StyleFeedbackDetector
	config   EvolutionConfig
}

// NewEvolutionEngine creates an engine. A nil analyzer disables analysis
// (every interaction records the neutral default).
func NewEvolutionEngine(store Store, analyzer InteractionAnalyzer, config ...EvolutionConfig) *EvolutionEngine {
	cfg := DefaultEvolutionConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.EvolutionInterval <= 0 {
		cfg.EvolutionInterval = 50
	}
	if cfg.AggregateWindow <= 0 {
		cfg.AggregateWindow = 50
	}
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = 0.05
	}
	return &EvolutionEngine{
		store:    store,
		analyzer: analyzer,
		feedback: NewStyleFeedbackDetector(nil, 0, nil),
		config:   cfg,
	}
}

// SetStyleFeedbackDetector replaces the detector that maps explicit user
// phrasing feedback onto profile communication styles. Pass nil to
// disable detection.
func (e *EvolutionEngine) SetStyleFeedbackDetector(d *StyleFeedbackDetector) {
	e.feedback = d
}

// ProcessInteraction records one chat exchange and applies all derived
// updates: the interaction log, the user's profile, and (on cadence) the
// entity's personality. It never returns an error; internal failures are
// logged and leave previously persisted state unchanged.
func (e *EvolutionEngine) ProcessInteraction(ctx context.Context, userID string, entity Entity, userMessage, aiResponse string, responseTimeMs int, satisfaction *int) {
	if !entity.Valid() {
		log.Printf("[EvolutionEngine] dropping interaction for unknown entity %q", entity)
		return
	}

	analysis := NeutralAnalysis()
	if e.analyzer != nil {
		analysis = e.analyzer.Analyze(ctx, userMessage, aiResponse)
	}

	rec := &InteractionRecord{
		ID:             ulid.Make().String(),
		UserID:         userID,
		Entity:         entity,
		UserMessage:    userMessage,
		AiResponse:     aiResponse,
		Sentiment:      analysis.Sentiment,
		Topics:         analysis.Topics,
		EmotionalTone:  analysis.EmotionalTone,
		Satisfaction:   satisfaction,
		ResponseTimeMs: responseTimeMs,
		CreatedAt:      time.Now(),
	}
	if err := e.store.AppendInteraction(ctx, rec); err != nil {
		log.Printf("[EvolutionEngine] append interaction failed: %v", err)
	}

	if err := e.updateProfile(ctx, userID, entity, userMessage, analysis, satisfaction); err != nil {
		log.Printf("[EvolutionEngine] profile update failed for user=%s entity=%s: %v", userID, entity, err)
	}

	if err := e.updatePersonality(ctx, entity); err != nil {
		log.Printf("[EvolutionEngine] personality update failed for entity=%s: %v", entity, err)
	}
}

// ──────────────────────────────────────────────
// Profile updates
// ──────────────────────────────────────────────

func (e *EvolutionEngine) updateProfile(ctx context.Context, userID string, entity Entity, userMessage string, analysis InteractionAnalysis, satisfaction *int) error {
	profile, err := e.store.GetProfile(ctx, userID, entity)
	if errors.Is(err, ErrNotFound) {
		profile = NewUserAiProfile(userID, entity)
	} else if err != nil {
		return err
	}

	profile.TotalConversations++
	if satisfaction != nil {
		total := profile.AverageSatisfaction*float64(profile.RatingCount) + float64(*satisfaction)
		profile.RatingCount++
		profile.AverageSatisfaction = total / float64(profile.RatingCount)
	}
	for _, topic := range analysis.Topics {
		profile.TopicInterests[topic]++
	}

	if e.feedback != nil {
		if style, ok := e.feedback.Detect(userMessage); ok && style != profile.CommunicationStyle {
			log.Printf("[EvolutionEngine] style feedback detected for user=%s: %s -> %s", userID, profile.CommunicationStyle, style)
			profile.CommunicationStyle = style
			e.feedback.NotifyChange(userID, style)
		}
	}

	// One-way ratchet: the computed level only ever raises the stored one.
	computed := relationshipFor(profile.TotalConversations, profile.AverageSatisfaction)
	if computed.rank() > profile.RelationshipLevel.rank() {
		profile.RelationshipLevel = computed
	}

	profile.UpdatedAt = time.Now()
	return e.store.PutProfile(ctx, profile)
}

// relationshipFor maps conversation volume and satisfaction onto the
// familiarity ladder. Satisfaction gates use >= so a steady 4.0 rating
// can reach trusted_companion.
func relationshipFor(conversations int, avgSatisfaction float64) RelationshipLevel {
	switch {
	case conversations > 20 && avgSatisfaction >= 4:
		return RelationshipTrustedCompanion
	case conversations > 10 && avgSatisfaction >= 3.5:
		return RelationshipFriend
	case conversations > 5:
		return RelationshipAcquaintance
	default:
		return RelationshipStranger
	}
}

// ──────────────────────────────────────────────
// Personality updates
// ──────────────────────────────────────────────

// updatePersonality increments the entity's interaction counter and, on
// cadence, runs a trait-evolution step from aggregate recent signals.
// A lost version race is retried once against fresh state.
func (e *EvolutionEngine) updatePersonality(ctx context.Context, entity Entity) error {
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		err = e.applyPersonalityUpdate(ctx, entity)
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return err
}

func (e *EvolutionEngine) applyPersonalityUpdate(ctx context.Context, entity Entity) error {
	state, err := e.store.GetPersonality(ctx, entity)
	if errors.Is(err, ErrNotFound) {
		state = DefaultPersonalityState(entity)
	} else if err != nil {
		return err
	}

	state.TotalInteractions++

	if state.TotalInteractions%e.config.EvolutionInterval == 0 {
		recent, err := e.store.RecentInteractions(ctx, entity, e.config.AggregateWindow)
		if err != nil {
			log.Printf("[EvolutionEngine] skipping evolution step, recent interactions unavailable: %v", err)
		} else {
			e.evolveTraits(state, aggregateSignals(recent))
		}
	}

	state.EvolutionLevel = state.TotalInteractions/100 + 1
	state.LastEvolution = time.Now()
	return e.store.PutPersonality(ctx, state)
}

// aggregateSignal summarizes a window of recent interactions for one
// evolution step.
type aggregateSignal struct {
	Sentiment       Sentiment
	EmotionalTone   float64
	Topics          []string
	Satisfaction    float64
	HasSatisfaction bool
}

func aggregateSignals(recent []*InteractionRecord) aggregateSignal {
	agg := aggregateSignal{Sentiment: SentimentNeutral}
	if len(recent) == 0 {
		return agg
	}

	var positive, negative int
	var toneSum float64
	var ratingSum, ratingCount int
	seen := make(map[string]bool)
	for _, rec := range recent {
		switch rec.Sentiment {
		case SentimentPositive:
			positive++
		case SentimentNegative:
			negative++
		}
		toneSum += rec.EmotionalTone
		if rec.Satisfaction != nil {
			ratingSum += *rec.Satisfaction
			ratingCount++
		}
		for _, t := range rec.Topics {
			if !seen[t] {
				seen[t] = true
				agg.Topics = append(agg.Topics, t)
			}
		}
	}

	if positive > negative {
		agg.Sentiment = SentimentPositive
	} else if negative > positive {
		agg.Sentiment = SentimentNegative
	}
	agg.EmotionalTone = toneSum / float64(len(recent))
	if ratingCount > 0 {
		agg.Satisfaction = float64(ratingSum) / float64(ratingCount)
		agg.HasSatisfaction = true
	}
	return agg
}

func (s aggregateSignal) topicsMention(keywords ...string) bool {
	for _, topic := range s.Topics {
		for _, kw := range keywords {
			if strings.Contains(topic, kw) {
				return true
			}
		}
	}
	return false
}

// evolveTraits applies the entity-specific nudges. Every touched value
// is clamped back into [0,1].
func (e *EvolutionEngine) evolveTraits(state *PersonalityState, agg aggregateSignal) {
	lr := e.config.LearningRate

	switch state.Entity {
	case EntityGrok:
		if agg.Sentiment == SentimentPositive {
			state.Traits["analytical"] += lr
		} else if agg.Sentiment == SentimentNegative {
			// Negative signal pulls at half strength.
			state.Traits["analytical"] -= lr / 2
		}
		if agg.topicsMention("data", "analysis") {
			state.Traits["logical"] += lr
		}
		if agg.topicsMention("tech", "code") {
			state.Style.Technical += lr
		}
	case EntityAni:
		if agg.EmotionalTone > 0 {
			state.Traits["empathetic"] += lr
		}
		if agg.topicsMention("art", "creative") {
			state.Traits["creative"] += lr
		}
		if agg.Sentiment == SentimentPositive {
			state.Style.Warmth += lr
		}
	}

	if agg.HasSatisfaction {
		state.Style.Shift((agg.Satisfaction - 3) * satisfactionStyleStep)
	}

	for name, v := range state.Traits {
		state.Traits[name] = clamp01(v)
	}
	state.Style.Clamp()

	summary := "general conversation"
	if len(agg.Topics) > 0 {
		summary = "discussed " + strings.Join(agg.Topics, ", ")
	}
	switch agg.Sentiment {
	case SentimentPositive:
		state.Memory.SuccessfulResponses = appendBounded(state.Memory.SuccessfulResponses, summary, MaxSuccessfulResponses)
	case SentimentNegative:
		state.Memory.ProblemAreas = appendBounded(state.Memory.ProblemAreas, summary, MaxProblemAreas)
	}
	for _, topic := range agg.Topics {
		if !containsString(state.Memory.ConversationThemes, topic) {
			state.Memory.ConversationThemes = appendBounded(state.Memory.ConversationThemes, topic, MaxConversationThemes)
		}
	}
}

// appendBounded pushes v and keeps only the most recent max entries.
func appendBounded(list []string, v string, max int) []string {
	list = append(list, v)
	if len(list) > max {
		list = list[len(list)-max:]
	}
	return list
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
