package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// KickoffLayout is the text form of a parsed kickoff in reports.
const KickoffLayout = "2006-01-02 15:04:05"

// MatchInfo identifies one match as scraped from the odds source.
type MatchInfo struct {
	Sport         string    `json:"sport"`
	Kickoff       time.Time `json:"kickoff"`
	KickoffRaw    string    `json:"kickoff_raw"`
	KickoffParsed bool      `json:"kickoff_parsed"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`
}

// Key returns the join key of the match.
func (m MatchInfo) Key() MatchKey {
	return NewMatchKey(m.Sport, m.HomeTeam, m.AwayTeam)
}

// GroupKey returns the key used to group scraped rows into one match.
func (m MatchInfo) GroupKey() GroupKey {
	return GroupKey{MatchKey: m.Key(), Kickoff: m.KickoffText()}
}

// Title renders the match as "Home vs Away".
func (m MatchInfo) Title() string {
	return m.HomeTeam + " vs " + m.AwayTeam
}

// KickoffText returns the converted kickoff, or the verbatim source text
// when it could not be parsed.
func (m MatchInfo) KickoffText() string {
	if m.KickoffParsed {
		return m.Kickoff.Format(KickoffLayout)
	}
	return m.KickoffRaw
}

// ParseKickoffText is the inverse of KickoffText for values read back from
// a report file.
func ParseKickoffText(text string, loc *time.Location) MatchInfo {
	if loc == nil {
		loc = time.UTC
	}
	m := MatchInfo{KickoffRaw: text}
	if t, err := time.ParseInLocation(KickoffLayout, text, loc); err == nil {
		m.Kickoff = t
		m.KickoffParsed = true
	}
	return m
}

// OddsRecord is one bookmaker's quoted price for one team in one match.
type OddsRecord struct {
	Match     MatchInfo `json:"match"`
	Team      string    `json:"team"`
	Price     string    `json:"price"`
	Bookmaker string    `json:"bookmaker"`
}

// NormalizedOdds is one bookmaker's complete moneyline for a match in
// decimal form.
type NormalizedOdds struct {
	Match      MatchInfo        `json:"match"`
	Bookmaker  string           `json:"bookmaker"`
	HomeOdds   decimal.Decimal  `json:"home_odds"`
	AwayOdds   decimal.Decimal  `json:"away_odds"`
	DrawOdds   *decimal.Decimal `json:"draw_odds,omitempty"`
	CompiledAt time.Time        `json:"compiled_at"`
}
