package main

import (
	"fmt"

	"github.com/spf13/cobra"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
)

var loyaltyInput aisdk.LoyaltyInput

var loyaltyCmd = &cobra.Command{
	Use:   "loyalty",
	Short: "Compute a loyalty score from raw signals",
	Long: `Compute the tiered loyalty score for a set of user signals.

Example:
  granctl loyalty --faction-days 30 --streak 7 --faction-points 120`,
	RunE: runLoyalty,
}

func init() {
	loyaltyCmd.Flags().IntVar(&loyaltyInput.DaysInFaction, "faction-days", 0, "Days since joining the faction")
	loyaltyCmd.Flags().IntVar(&loyaltyInput.LoginStreak, "streak", 0, "Current login streak")
	loyaltyCmd.Flags().IntVar(&loyaltyInput.ConsecutiveDaysActive, "active-days", 0, "Consecutive active days")
	loyaltyCmd.Flags().IntVar(&loyaltyInput.FactionPoints, "faction-points", 0, "Points earned for the user's faction")
	loyaltyCmd.Flags().IntVar(&loyaltyInput.OtherFactionPoints, "other-points", 0, "Points earned for the other faction")
	loyaltyCmd.Flags().IntVar(&loyaltyInput.CompletedFactionChallenges, "challenges", 0, "Completed faction-aligned challenges")
}

func runLoyalty(cmd *cobra.Command, args []string) error {
	result := aisdk.ComputeLoyalty(loyaltyInput)
	fmt.Printf("Score:      %d\n", result.Score)
	fmt.Printf("Tier:       %s\n", result.Tier)
	fmt.Printf("Multiplier: %.2fx\n", result.Multiplier)
	return nil
}
