package main

import (
	"fmt"

	"github.com/spf13/cobra"

	aisdk "github.com/kushdevteam/grokani-ai-sdk-go"
)

var rewardStreak int

var rewardCmd = &cobra.Command{
	Use:   "reward",
	Short: "Show the daily reward for a streak day",
	Long: `Show the coins, XP, and any badge awarded for a login-streak day.

Example:
  granctl reward --streak 7`,
	RunE: runReward,
}

func init() {
	rewardCmd.Flags().IntVar(&rewardStreak, "streak", 1, "Streak day to look up")
}

func runReward(cmd *cobra.Command, args []string) error {
	r := aisdk.RewardForStreak(rewardStreak)
	fmt.Printf("Day %d\n", rewardStreak)
	fmt.Printf("Coins: %d\n", r.Coins)
	fmt.Printf("XP:    %d\n", r.XP)
	if r.Badge != "" {
		fmt.Printf("Badge: %s (%s)\n", r.Badge, r.Title)
	}
	return nil
}
