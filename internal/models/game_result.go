package models

import (
	"strings"
	"time"
)

// GameStatus is the completion state reported by the results API.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusCompleted GameStatus = "completed"
	StatusUnknown   GameStatus = "unknown"
)

// ParseGameStatus maps free-form status text onto a GameStatus.
func ParseGameStatus(s string) GameStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "complete", "final", "finished":
		return StatusCompleted
	case "scheduled", "upcoming", "not started":
		return StatusScheduled
	default:
		return StatusUnknown
	}
}

// GameResult is the final (or latest known) state of one game.
type GameResult struct {
	Sport        string     `json:"sport"`
	SportKey     string     `json:"sport_key"`
	SportTitle   string     `json:"sport_title"`
	HomeTeam     string     `json:"home_team"`
	AwayTeam     string     `json:"away_team"`
	CommenceTime time.Time  `json:"commence_time"`
	HomeScore    *int       `json:"home_score"`
	AwayScore    *int       `json:"away_score"`
	Status       GameStatus `json:"status"`
	GameID       string     `json:"game_id"`
}

// Key returns the join key of the game.
func (r GameResult) Key() MatchKey {
	return NewMatchKey(r.Sport, r.HomeTeam, r.AwayTeam)
}

// IsCompleted reports whether the game has finished.
func (r GameResult) IsCompleted() bool {
	return r.Status == StatusCompleted
}
