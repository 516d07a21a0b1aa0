package models

import (
	"github.com/yourusername/sportsbook-performance/internal/oddsmath"
)

// MatchKey joins odds with results. Team and sport names are normalized so
// that whitespace and case differences between sources do not matter.
type MatchKey struct {
	Sport    string
	HomeTeam string
	AwayTeam string
}

// NewMatchKey builds a normalized key.
func NewMatchKey(sport, home, away string) MatchKey {
	return MatchKey{
		Sport:    oddsmath.NormalizeTeamName(sport),
		HomeTeam: oddsmath.NormalizeTeamName(home),
		AwayTeam: oddsmath.NormalizeTeamName(away),
	}
}

func (k MatchKey) String() string {
	return k.Sport + "|" + k.HomeTeam + "|" + k.AwayTeam
}

// GroupKey distinguishes rematches of the same teams by kickoff.
type GroupKey struct {
	MatchKey
	Kickoff string
}

func (k GroupKey) String() string {
	return k.MatchKey.String() + "|" + k.Kickoff
}
