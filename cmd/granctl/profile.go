package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
)

var (
	profileUser   string
	profileEntity string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show a user's relationship profile with an entity",
	Long: `Show the stored relationship profile for one (user, entity) pair.

Example:
  granctl profile --user u123 --entity ani`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileUser, "user", "", "User ID (required)")
	profileCmd.Flags().StringVar(&profileEntity, "entity", "grok", "Entity (grok or ani)")
	profileCmd.MarkFlagRequired("user")
}

func runProfile(cmd *cobra.Command, args []string) error {
	entity := aisdk.Entity(profileEntity)
	if !entity.Valid() {
		return fmt.Errorf("unknown entity %q (want grok or ani)", profileEntity)
	}

	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	profile, err := s.GetProfile(context.Background(), profileUser, entity)
	if err != nil {
		return err
	}

	fmt.Printf("User:                %s\n", profile.UserID)
	fmt.Printf("Entity:              %s\n", profile.Entity)
	fmt.Printf("Communication style: %s\n", profile.CommunicationStyle)
	fmt.Printf("Relationship:        %s\n", profile.RelationshipLevel)
	fmt.Printf("Conversations:       %d\n", profile.TotalConversations)
	if profile.RatingCount > 0 {
		fmt.Printf("Avg satisfaction:    %.2f (%d ratings)\n", profile.AverageSatisfaction, profile.RatingCount)
	}
	if topics := aisdk.TopTopics(profile.TopicInterests, 5); len(topics) > 0 {
		fmt.Printf("Top topics:          %s\n", strings.Join(topics, ", "))
	}
	fmt.Printf("Last update:         %s\n", profile.UpdatedAt.Format(time.RFC3339))
	return nil
}
