package aisdk

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ──────────────────────────────────────────────
// Prompt Personalization Builder
// ──────────────────────────────────────────────

// styleDirectives phrase the user's communication preference for the
// system prompt.
var styleDirectives = map[CommunicationStyle]string{
	StyleFormal:     "Keep a polished, professional register. Avoid slang and filler.",
	StyleCasual:     "Keep it relaxed and conversational, like chatting with a friend.",
	StyleTechnical:  "Favor precision. Include technical detail, terminology, and concrete examples.",
	StyleCreative:   "Lean into vivid, imaginative phrasing. Surprise the user a little.",
	StyleSupportive: "Be warm and encouraging. Acknowledge effort before critique.",
}

// relationshipDirectives are appended only once a real rapport exists.
var relationshipDirectives = map[RelationshipLevel]string{
	RelationshipFriend:           "You know this user well. Reference shared context naturally and skip re-introductions.",
	RelationshipTrustedCompanion: "This user is a long-time companion. Be candid, personal, and comfortable with inside references.",
}

// PersonalizedPrompt composes basePrompt with user- and entity-specific
// modifiers. It is a pure read: no state is written. When no profile or
// personality exists yet for this (user, entity) pair, basePrompt is
// returned unchanged — first contact gets the stock persona.
func (e *EvolutionEngine) PersonalizedPrompt(ctx context.Context, userID string, entity Entity, basePrompt string) string {
	profile, err := e.store.GetProfile(ctx, userID, entity)
	if err != nil {
		return basePrompt
	}
	state, err := e.store.GetPersonality(ctx, entity)
	if err != nil {
		return basePrompt
	}

	var b strings.Builder
	b.WriteString(basePrompt)

	if directive, ok := styleDirectives[profile.CommunicationStyle]; ok {
		b.WriteString("\n\n")
		b.WriteString(directive)
	}
	if directive, ok := relationshipDirectives[profile.RelationshipLevel]; ok {
		b.WriteString("\n")
		b.WriteString(directive)
	}
	if topics := TopTopics(profile.TopicInterests, 3); len(topics) > 0 {
		b.WriteString("\nThe user is especially interested in: ")
		b.WriteString(strings.Join(topics, ", "))
		b.WriteString(".")
	}
	fmt.Fprintf(&b, "\nYou are at evolution level %d after %d interactions; let that accumulated experience show.",
		state.EvolutionLevel, state.TotalInteractions)

	return b.String()
}

// TopTopics returns up to n topics by descending count, ties broken
// alphabetically for determinism.
func TopTopics(interests map[string]int, n int) []string {
	topics := make([]string, 0, len(interests))
	for t := range interests {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if interests[topics[i]] != interests[topics[j]] {
			return interests[topics[i]] > interests[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > n {
		topics = topics[:n]
	}
	return topics
}
