package aisdk

import (
	"fmt"
	"time"
)

// ──────────────────────────────────────────────
// Daily Reward Calculator — streak table & calendar math
// ──────────────────────────────────────────────

// rewardTable holds the exact escalating schedule. Milestone days carry
// a named badge and title.
var rewardTable = map[int]DailyReward{
	1: {Coins: 15, XP: 10},
	2: {Coins: 20, XP: 12},
	3: {Coins: 25, XP: 15},
	4: {Coins: 30, XP: 18},
	5: {Coins: 35, XP: 22},
	6: {Coins: 40, XP: 25},
	7: {Coins: 50, XP: 30, Badge: "Week Warrior", Title: "Completed 7-day streak!"},
	14: {Coins: 100, XP: 60, Badge: "Fortnight Fighter", Title: "Two weeks without missing a day!"},
	30: {Coins: 150, XP: 90, Badge: "Monthly Master", Title: "A full month of dedication!"},
	100: {Coins: 400, XP: 240, Badge: "Century Champion", Title: "100 days! Legendary commitment!"},
}

// RewardForStreak maps a login-streak day to its reward. Exact table
// entries win; otherwise short streaks use a linear ramp and longer ones
// scale by completed weeks, with an "N-Day Hero" badge on each full week.
func RewardForStreak(streak int) DailyReward {
	if r, ok := rewardTable[streak]; ok {
		return r
	}
	if streak <= 7 {
		return DailyReward{Coins: 10 + 5*streak, XP: 5 + 3*streak}
	}

	weeks := streak / 7
	reward := DailyReward{Coins: 50 + 25*weeks, XP: 30 + 15*weeks}
	if streak%7 == 0 {
		reward.Badge = fmt.Sprintf("%d-Day Hero", streak)
		reward.Title = fmt.Sprintf("%d consecutive days!", streak)
	}
	return reward
}

// IsNewDay reports whether a daily reward can be claimed: lastLogin is
// unset, or its calendar date (in now's location) precedes today's.
func IsNewDay(lastLogin *time.Time, now time.Time) bool {
	if lastLogin == nil {
		return true
	}
	last := lastLogin.In(now.Location())
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	lastDay := time.Date(ly, lm, ld, 0, 0, 0, 0, now.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())
	return lastDay.Before(today)
}

// MissedDays counts fully skipped days since lastLogin. Logging in
// yesterday means nothing was missed.
func MissedDays(lastLogin *time.Time, now time.Time) int {
	if lastLogin == nil {
		return 0
	}
	days := int(now.Sub(*lastLogin).Hours() / 24)
	if days <= 1 {
		return 0
	}
	return days - 1
}

// NextStreak computes the streak value after a claim at time now.
// More than one fully missed day resets the streak to 1; claiming again
// on the same calendar day leaves it unchanged.
func NextStreak(lastLogin *time.Time, currentStreak int, now time.Time) int {
	if lastLogin == nil {
		return 1
	}
	if !IsNewDay(lastLogin, now) {
		return currentStreak
	}
	if MissedDays(lastLogin, now) > 1 {
		return 1
	}
	return currentStreak + 1
}
