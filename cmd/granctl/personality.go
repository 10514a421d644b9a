package main

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
)

var personalityCmd = &cobra.Command{
	Use:   "personality <grok|ani>",
	Short: "Show an entity's personality state",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonality,
}

func runPersonality(cmd *cobra.Command, args []string) error {
	entity := aisdk.Entity(args[0])
	if !entity.Valid() {
		return fmt.Errorf("unknown entity %q (want grok or ani)", args[0])
	}

	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	state, err := s.GetPersonality(context.Background(), entity)
	if errors.Is(err, aisdk.ErrNotFound) {
		fmt.Printf("No recorded interactions for %s yet; showing defaults.\n\n", entity)
		state = aisdk.DefaultPersonalityState(entity)
	} else if err != nil {
		return err
	}

	fmt.Printf("Entity:             %s\n", state.Entity)
	fmt.Printf("Evolution level:    %d\n", state.EvolutionLevel)
	fmt.Printf("Total interactions: %d\n", state.TotalInteractions)
	fmt.Printf("Last evolution:     %s\n", state.LastEvolution.Format(time.RFC3339))
	fmt.Printf("Version:            %d\n", state.Version)

	fmt.Println("\nTraits:")
	names := make([]string, 0, len(state.Traits))
	for name := range state.Traits {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-12s %.2f\n", name, state.Traits[name])
	}

	fmt.Println("\nConversation style:")
	fmt.Printf("  formality    %.2f\n", state.Style.Formality)
	fmt.Printf("  warmth       %.2f\n", state.Style.Warmth)
	fmt.Printf("  technical    %.2f\n", state.Style.Technical)
	fmt.Printf("  creativity   %.2f\n", state.Style.Creativity)
	fmt.Printf("  directness   %.2f\n", state.Style.Directness)

	if len(state.Memory.ConversationThemes) > 0 {
		fmt.Printf("\nThemes: %v\n", state.Memory.ConversationThemes)
	}
	return nil
}
