package models

import (
	"github.com/shopspring/decimal"
)

// Side identifies a leg of a moneyline.
type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
	SideDraw Side = "draw"
)

// Outcome classifies a finished game from the favorite's point of view.
type Outcome string

const (
	OutcomeFavorite   Outcome = "Favorite"
	OutcomeUnderdog   Outcome = "Underdog"
	OutcomeDraw       Outcome = "Draw"
	OutcomeUnresolved Outcome = "Unresolved"
)

// ParseOutcome reads an outcome label back from a report.
func ParseOutcome(s string) Outcome {
	switch Outcome(s) {
	case OutcomeFavorite, OutcomeUnderdog, OutcomeDraw:
		return Outcome(s)
	default:
		return OutcomeUnresolved
	}
}

// ReconciledRecord joins one bookmaker's odds with the game result.
type ReconciledRecord struct {
	Odds     NormalizedOdds `json:"odds"`
	Result   GameResult     `json:"result"`
	Favorite Side           `json:"favorite"`
	Winner   Side           `json:"winner"`
	Outcome  Outcome        `json:"outcome"`
}

// Percentage is a two-place percentage. Valid is false when there was
// nothing to divide by.
type Percentage struct {
	Value decimal.Decimal
	Valid bool
}

// NewPercentage returns part/total*100 rounded to two places.
func NewPercentage(part, total int) Percentage {
	if total <= 0 {
		return Percentage{}
	}
	v := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
	return Percentage{Value: v, Valid: true}
}

func (p Percentage) String() string {
	if !p.Valid {
		return "n/a"
	}
	return p.Value.StringFixed(2)
}

// BookmakerSummary is the accuracy of one bookmaker's favorites.
type BookmakerSummary struct {
	Bookmaker    string     `json:"bookmaker"`
	Matches      int        `json:"matches"`
	Completed    int        `json:"completed"`
	FavoriteWins int        `json:"favorite_wins"`
	FavoritePct  Percentage `json:"favorite_pct"`
	UnderdogWins int        `json:"underdog_wins"`
	UnderdogPct  Percentage `json:"underdog_pct"`
	Draws        int        `json:"draws"`
	Unresolved   int        `json:"unresolved"`
}
