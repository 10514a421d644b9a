package aisdk

import "time"

// ──────────────────────────────────────────────
// Core domain types — entities, personality, profiles
// ──────────────────────────────────────────────

// Entity identifies one of the two fixed AI personalities.
type Entity string

const (
	// EntityGrok is the logic-leaning personality.
	EntityGrok Entity = "grok"
	// EntityAni is the emotion-leaning personality.
	EntityAni Entity = "ani"
)

// Valid reports whether e is a known entity.
func (e Entity) Valid() bool {
	return e == EntityGrok || e == EntityAni
}

// Sentiment classifies a single chat exchange.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ConversationStyle is the five-dimension style vector shaping how an
// entity's prompt is phrased. Every dimension stays in [0,1].
type ConversationStyle struct {
	Formality  float64 `json:"formality"`
	Warmth     float64 `json:"warmth"`
	Technical  float64 `json:"technical"`
	Creativity float64 `json:"creativity"`
	Directness float64 `json:"directness"`
}

// Clamp forces every dimension back into [0,1].
func (s *ConversationStyle) Clamp() {
	s.Formality = clamp01(s.Formality)
	s.Warmth = clamp01(s.Warmth)
	s.Technical = clamp01(s.Technical)
	s.Creativity = clamp01(s.Creativity)
	s.Directness = clamp01(s.Directness)
}

// Shift adds delta to every dimension, then clamps.
func (s *ConversationStyle) Shift(delta float64) {
	s.Formality += delta
	s.Warmth += delta
	s.Technical += delta
	s.Creativity += delta
	s.Directness += delta
	s.Clamp()
}

// Memory bank bounds.
const (
	MaxSuccessfulResponses = 5
	MaxProblemAreas        = 3
	MaxConversationThemes  = 10
)

// MemoryBank holds the bounded lists an entity accumulates while evolving.
type MemoryBank struct {
	SuccessfulResponses []string          `json:"successful_responses"` // most-recent MaxSuccessfulResponses
	ProblemAreas        []string          `json:"problem_areas"`        // most-recent MaxProblemAreas
	UserPreferences     map[string]string `json:"user_preferences"`
	ConversationThemes  []string          `json:"conversation_themes"`
}

// PersonalityState is the shared evolving state of one AI entity.
// Only two rows exist (grok, ani); all mutation goes through the
// EvolutionEngine and writes are guarded by the Version field.
type PersonalityState struct {
	Entity            Entity             `json:"entity"`
	Traits            map[string]float64 `json:"traits"` // each in [0,1]
	Style             ConversationStyle  `json:"conversation_style"`
	Memory            MemoryBank         `json:"memory_bank"`
	EvolutionLevel    int                `json:"evolution_level"`    // floor(totalInteractions/100)+1
	TotalInteractions int                `json:"total_interactions"` // never decremented
	LastEvolution     time.Time          `json:"last_evolution"`
	Version           int64              `json:"version"` // optimistic-concurrency token
}

// DefaultPersonalityState returns the entity-specific initial state used
// when an entity is seen for the first time. Grok starts biased toward
// analysis and directness, Ani toward empathy and creativity.
func DefaultPersonalityState(entity Entity) *PersonalityState {
	state := &PersonalityState{
		Entity:         entity,
		EvolutionLevel: 1,
		Memory: MemoryBank{
			SuccessfulResponses: []string{},
			ProblemAreas:        []string{},
			UserPreferences:     map[string]string{},
			ConversationThemes:  []string{},
		},
		LastEvolution: time.Now(),
	}

	switch entity {
	case EntityAni:
		state.Traits = map[string]float64{
			"empathetic": 0.9,
			"creative":   0.85,
			"playful":    0.7,
			"supportive": 0.75,
			"analytical": 0.4,
		}
		state.Style = ConversationStyle{
			Formality:  0.3,
			Warmth:     0.9,
			Technical:  0.3,
			Creativity: 0.8,
			Directness: 0.5,
		}
	default: // EntityGrok
		state.Traits = map[string]float64{
			"analytical": 0.9,
			"logical":    0.85,
			"curious":    0.7,
			"witty":      0.6,
			"empathetic": 0.3,
		}
		state.Style = ConversationStyle{
			Formality:  0.5,
			Warmth:     0.4,
			Technical:  0.8,
			Creativity: 0.5,
			Directness: 0.8,
		}
	}
	return state
}

// Clone returns a deep copy.
func (p *PersonalityState) Clone() *PersonalityState {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Traits = make(map[string]float64, len(p.Traits))
	for k, v := range p.Traits {
		cp.Traits[k] = v
	}
	cp.Memory.SuccessfulResponses = append([]string(nil), p.Memory.SuccessfulResponses...)
	cp.Memory.ProblemAreas = append([]string(nil), p.Memory.ProblemAreas...)
	cp.Memory.ConversationThemes = append([]string(nil), p.Memory.ConversationThemes...)
	cp.Memory.UserPreferences = make(map[string]string, len(p.Memory.UserPreferences))
	for k, v := range p.Memory.UserPreferences {
		cp.Memory.UserPreferences[k] = v
	}
	return &cp
}

// ──────────────────────────────────────────────
// Per-user profiles
// ──────────────────────────────────────────────

// CommunicationStyle is the user's preferred reply register.
type CommunicationStyle string

const (
	StyleFormal     CommunicationStyle = "formal"
	StyleCasual     CommunicationStyle = "casual"
	StyleTechnical  CommunicationStyle = "technical"
	StyleCreative   CommunicationStyle = "creative"
	StyleSupportive CommunicationStyle = "supportive"
)

// RelationshipLevel is the ordered familiarity ladder between a user and
// an entity. It only ever advances (one-way ratchet).
type RelationshipLevel string

const (
	RelationshipStranger         RelationshipLevel = "stranger"
	RelationshipAcquaintance     RelationshipLevel = "acquaintance"
	RelationshipFriend           RelationshipLevel = "friend"
	RelationshipTrustedCompanion RelationshipLevel = "trusted_companion"
)

// rank orders relationship levels for monotonic comparison.
func (r RelationshipLevel) rank() int {
	switch r {
	case RelationshipAcquaintance:
		return 1
	case RelationshipFriend:
		return 2
	case RelationshipTrustedCompanion:
		return 3
	default:
		return 0
	}
}

// UserAiProfile tracks one user's relationship with one entity.
type UserAiProfile struct {
	UserID              string             `json:"user_id"`
	Entity              Entity             `json:"entity"`
	CommunicationStyle  CommunicationStyle `json:"communication_style"`
	RelationshipLevel   RelationshipLevel  `json:"relationship_level"`
	TopicInterests      map[string]int     `json:"topic_interests"`
	TotalConversations  int                `json:"total_conversations"`
	AverageSatisfaction float64            `json:"average_satisfaction"` // running mean over 1-5 ratings
	RatingCount         int                `json:"rating_count"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// NewUserAiProfile returns the default profile for a first interaction.
func NewUserAiProfile(userID string, entity Entity) *UserAiProfile {
	now := time.Now()
	return &UserAiProfile{
		UserID:             userID,
		Entity:             entity,
		CommunicationStyle: StyleCasual,
		RelationshipLevel:  RelationshipStranger,
		TopicInterests:     map[string]int{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Clone returns a deep copy.
func (p *UserAiProfile) Clone() *UserAiProfile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.TopicInterests = make(map[string]int, len(p.TopicInterests))
	for k, v := range p.TopicInterests {
		cp.TopicInterests[k] = v
	}
	return &cp
}

// ──────────────────────────────────────────────
// Interaction log
// ──────────────────────────────────────────────

// InteractionRecord is an immutable, append-only log entry for one chat
// exchange between a user and an entity.
type InteractionRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Entity         Entity    `json:"entity"`
	UserMessage    string    `json:"user_message"`
	AiResponse     string    `json:"ai_response"`
	Sentiment      Sentiment `json:"sentiment"`
	Topics         []string  `json:"topics"` // at most 3
	EmotionalTone  float64   `json:"emotional_tone"`
	Satisfaction   *int      `json:"satisfaction,omitempty"` // 1-5 when rated
	ResponseTimeMs int       `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// ──────────────────────────────────────────────
// Challenge validation
// ──────────────────────────────────────────────

// ChallengeType tags which rubric grades a submission.
type ChallengeType string

const (
	ChallengeAlgorithmic      ChallengeType = "algorithmic"
	ChallengeSecurityAnalysis ChallengeType = "security_analysis"
	ChallengeDesign           ChallengeType = "design"
	ChallengeCharacterDesign  ChallengeType = "character_design"
)

// ValidationResult is the structured outcome of grading one submission.
type ValidationResult struct {
	Score    int            `json:"score"` // 0-100
	Passed   bool           `json:"passed"`
	Feedback string         `json:"feedback"`
	Details  map[string]int `json:"details,omitempty"` // four 0-25 sub-scores
}

// ──────────────────────────────────────────────
// Loyalty & rewards
// ──────────────────────────────────────────────

// LoyaltyTier classifies a loyalty score into a reward multiplier band.
type LoyaltyTier string

const (
	TierBronze   LoyaltyTier = "bronze"
	TierSilver   LoyaltyTier = "silver"
	TierGold     LoyaltyTier = "gold"
	TierPlatinum LoyaltyTier = "platinum"
	TierDiamond  LoyaltyTier = "diamond"
)

// LoyaltyScore is the derived loyalty standing of a user.
type LoyaltyScore struct {
	Score      int         `json:"score"`
	Tier       LoyaltyTier `json:"tier"`
	Multiplier float64     `json:"multiplier"`
}

// DailyReward is what a user earns for one claimed streak day.
type DailyReward struct {
	Coins int    `json:"coins"`
	XP    int    `json:"xp"`
	Badge string `json:"badge,omitempty"`
	Title string `json:"title,omitempty"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
