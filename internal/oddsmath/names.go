package oddsmath

import "strings"

// NormalizeTeamName trims, collapses inner whitespace and case-folds a name
// so that the odds page and the results API agree on it.
func NormalizeTeamName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SameTeam reports whether two names refer to the same team after normalization.
func SameTeam(a, b string) bool {
	return NormalizeTeamName(a) == NormalizeTeamName(b)
}
