package main

import (
	"github.com/spf13/cobra"

	"github.com/kushdevteam/grokani-ai-sdk-go/store"
)

var cfgDBPath string

var rootCmd = &cobra.Command{
	Use:   "granctl",
	Short: "granctl - Grok & Ani AI core inspection CLI",
	Long: `granctl inspects and exercises the Grok & Ani AI core:
personality states, user profiles, loyalty scoring, and daily rewards.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDBPath, "db", "./data/grokani.db", "Path to the local SQLite store")

	rootCmd.AddCommand(loyaltyCmd)
	rootCmd.AddCommand(rewardCmd)
	rootCmd.AddCommand(personalityCmd)
	rootCmd.AddCommand(profileCmd)
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(cfgDBPath)
}
