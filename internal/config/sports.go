package config

import (
	"strings"

	"github.com/yourusername/sportsbook-performance/internal/oddsmath"
)

// SportConfig maps a league name, as shown on the odds page, to its results
// API key and odds page path.
type SportConfig struct {
	Name         string `mapstructure:"name" validate:"required"`
	Key          string `mapstructure:"key" validate:"required,sportkey"`
	Path         string `mapstructure:"path"`
	DrawEligible bool   `mapstructure:"draw_eligible"`
}

// DefaultSports is used when the config file lists no sports. Soccer
// leagues and test cricket quote a draw leg.
var DefaultSports = []SportConfig{
	{Name: "NFL", Key: "americanfootball_nfl"},
	{Name: "NCAAF", Key: "americanfootball_ncaaf"},
	{Name: "CFL", Key: "americanfootball_cfl"},
	{Name: "UFL", Key: "americanfootball_ufl"},
	{Name: "AFL", Key: "aussierules_afl"},
	{Name: "MLB", Key: "baseball_mlb"},
	{Name: "Basketball Euroleague", Key: "basketball_euroleague"},
	{Name: "NBA", Key: "basketball_nba"},
	{Name: "WNBA", Key: "basketball_wnba"},
	{Name: "NCAAB", Key: "basketball_ncaab"},
	{Name: "WNCAAB", Key: "basketball_wncaab"},
	{Name: "NBL", Key: "basketball_nbl"},
	{Name: "Boxing", Key: "boxing_boxing"},
	{Name: "Big Bash", Key: "cricket_big_bash"},
	{Name: "Test Matches", Key: "cricket_test_match", DrawEligible: true},
	{Name: "NHL", Key: "icehockey_nhl"},
	{Name: "SHL", Key: "icehockey_sweden_hockey_league"},
	{Name: "MMA", Key: "mma_mixed_martial_arts"},
	{Name: "NRL", Key: "rugbyleague_nrl"},
	{Name: "Primera División - Argentina", Key: "soccer_argentina_primera_division", DrawEligible: true},
	{Name: "A-League", Key: "soccer_australia_aleague", DrawEligible: true},
	{Name: "Austrian Football Bundesliga", Key: "soccer_austria_bundesliga", DrawEligible: true},
	{Name: "Belgium First Div", Key: "soccer_belgium_first_div", DrawEligible: true},
	{Name: "Brazil Série A", Key: "soccer_brazil_campeonato", DrawEligible: true},
	{Name: "Brazil Série B", Key: "soccer_brazil_serie_b", DrawEligible: true},
	{Name: "Primera División - Chile", Key: "soccer_chile_campeonato", DrawEligible: true},
	{Name: "Super League - China", Key: "soccer_china_superleague", DrawEligible: true},
	{Name: "Denmark Superliga", Key: "soccer_denmark_superliga", DrawEligible: true},
	{Name: "Championship", Key: "soccer_efl_champ", DrawEligible: true},
	{Name: "EFL Cup", Key: "soccer_england_efl_cup", DrawEligible: true},
	{Name: "League 1", Key: "soccer_england_league1", DrawEligible: true},
	{Name: "League 2", Key: "soccer_england_league2", DrawEligible: true},
	{Name: "EPL", Key: "soccer_epl", DrawEligible: true},
	{Name: "FA Cup", Key: "soccer_fa_cup", DrawEligible: true},
	{Name: "FIFA World Cup", Key: "soccer_fifa_world_cup", DrawEligible: true},
	{Name: "Veikkausliiga - Finland", Key: "soccer_finland_veikkausliiga", DrawEligible: true},
	{Name: "Ligue 1 - France", Key: "soccer_france_ligue_one", DrawEligible: true},
	{Name: "Ligue 2 - France", Key: "soccer_france_ligue_two", DrawEligible: true},
	{Name: "Bundesliga - Germany", Key: "soccer_germany_bundesliga", DrawEligible: true},
	{Name: "Bundesliga 2 - Germany", Key: "soccer_germany_bundesliga2", DrawEligible: true},
	{Name: "3. Liga - Germany", Key: "soccer_germany_liga3", DrawEligible: true},
	{Name: "Super League - Greece", Key: "soccer_greece_super_league", DrawEligible: true},
	{Name: "Serie A - Italy", Key: "soccer_italy_serie_a", DrawEligible: true},
	{Name: "Serie B - Italy", Key: "soccer_italy_serie_b", DrawEligible: true},
	{Name: "J League", Key: "soccer_japan_j_league", DrawEligible: true},
	{Name: "K League 1", Key: "soccer_korea_kleague1", DrawEligible: true},
	{Name: "League of Ireland", Key: "soccer_league_of_ireland", DrawEligible: true},
	{Name: "Liga MX", Key: "soccer_mexico_ligamx", DrawEligible: true},
	{Name: "Dutch Eredivisie", Key: "soccer_netherlands_eredivisie", DrawEligible: true},
	{Name: "Eliteserien - Norway", Key: "soccer_norway_eliteserien", DrawEligible: true},
	{Name: "Ekstraklasa - Poland", Key: "soccer_poland_ekstraklasa", DrawEligible: true},
	{Name: "Primeira Liga - Portugal", Key: "soccer_portugal_primeira_liga", DrawEligible: true},
	{Name: "La Liga - Spain", Key: "soccer_spain_la_liga", DrawEligible: true},
	{Name: "La Liga 2 - Spain", Key: "soccer_spain_segunda_division", DrawEligible: true},
	{Name: "Premiership - Scotland", Key: "soccer_spl", DrawEligible: true},
	{Name: "Allsvenskan - Sweden", Key: "soccer_sweden_allsvenskan", DrawEligible: true},
	{Name: "Superettan - Sweden", Key: "soccer_sweden_superettan", DrawEligible: true},
	{Name: "Swiss Superleague", Key: "soccer_switzerland_superleague", DrawEligible: true},
	{Name: "Turkey Super League", Key: "soccer_turkey_super_league", DrawEligible: true},
	{Name: "UEFA Europa Conference League", Key: "soccer_uefa_europa_conference_league", DrawEligible: true},
	{Name: "UEFA Champions League", Key: "soccer_uefa_champs_league", DrawEligible: true},
	{Name: "UEFA Champions League Qualification", Key: "soccer_uefa_champs_league_qualification", DrawEligible: true},
	{Name: "UEFA Europa League", Key: "soccer_uefa_europa_league", DrawEligible: true},
	{Name: "UEFA Euro 2024", Key: "soccer_uefa_european_championship", DrawEligible: true},
	{Name: "UEFA Euro Qualification", Key: "soccer_uefa_euro_qualification", DrawEligible: true},
	{Name: "Copa América", Key: "soccer_conmebol_copa_america", DrawEligible: true},
	{Name: "Copa Libertadores", Key: "soccer_conmebol_copa_libertadores", DrawEligible: true},
	{Name: "MLS", Key: "soccer_usa_mls", DrawEligible: true},
	{Name: "ATP Australian Open", Key: "tennis_atp_aus_open_singles"},
	{Name: "ATP Canadian Open", Key: "tennis_atp_canadian_open"},
	{Name: "ATP China Open", Key: "tennis_atp_china_open"},
	{Name: "ATP Cincinnati Open", Key: "tennis_atp_cincinnati_open"},
	{Name: "ATP French Open", Key: "tennis_atp_french_open"},
	{Name: "ATP Paris Masters", Key: "tennis_atp_paris_masters"},
	{Name: "ATP Shanghai Masters", Key: "tennis_atp_shanghai_masters"},
	{Name: "ATP US Open", Key: "tennis_atp_us_open"},
	{Name: "ATP Wimbledon", Key: "tennis_atp_wimbledon"},
	{Name: "WTA Australian Open", Key: "tennis_wta_aus_open_singles"},
	{Name: "WTA Canadian Open", Key: "tennis_wta_canadian_open"},
	{Name: "WTA China Open", Key: "tennis_wta_china_open"},
	{Name: "WTA Cincinnati Open", Key: "tennis_wta_cincinnati_open"},
	{Name: "WTA French Open", Key: "tennis_wta_french_open"},
	{Name: "WTA US Open", Key: "tennis_wta_us_open"},
	{Name: "WTA Wimbledon", Key: "tennis_wta_wimbledon"},
	{Name: "WTA Wuhan Open", Key: "tennis_wta_wuhan_open"},
}

// SportTable looks sports up by league name, ignoring case and spacing.
type SportTable struct {
	sports []SportConfig
	byName map[string]SportConfig
}

// NewSportTable indexes sports. Later duplicates of a name are ignored.
func NewSportTable(sports []SportConfig) *SportTable {
	t := &SportTable{byName: make(map[string]SportConfig, len(sports))}
	for _, s := range sports {
		k := oddsmath.NormalizeTeamName(s.Name)
		if _, ok := t.byName[k]; ok {
			continue
		}
		t.byName[k] = s
		t.sports = append(t.sports, s)
	}
	return t
}

// Lookup returns the configuration of a sport.
func (t *SportTable) Lookup(name string) (SportConfig, bool) {
	s, ok := t.byName[oddsmath.NormalizeTeamName(name)]
	return s, ok
}

// SportKey returns the results API key of a sport.
func (t *SportTable) SportKey(name string) (string, bool) {
	s, ok := t.Lookup(name)
	if !ok {
		return "", false
	}
	return s.Key, true
}

// IsDrawEligible reports whether the sport quotes a draw leg.
func (t *SportTable) IsDrawEligible(name string) bool {
	s, ok := t.Lookup(name)
	return ok && s.DrawEligible
}

// Path returns the odds page path of a sport, defaulting to the moneyline
// page of its key.
func (t *SportTable) Path(name string) string {
	s, ok := t.Lookup(name)
	if !ok {
		return ""
	}
	if s.Path != "" {
		return s.Path
	}
	return "/odds/" + s.Key + "/moneyline"
}

// Sports returns the table in configured order.
func (t *SportTable) Sports() []SportConfig {
	out := make([]SportConfig, len(t.sports))
	copy(out, t.sports)
	return out
}

// Select narrows the table to the named sports. Unknown names are returned
// separately so callers can warn about them.
func (t *SportTable) Select(names []string) (selected []SportConfig, unknown []string) {
	if len(names) == 0 {
		return t.Sports(), nil
	}
	for _, name := range names {
		if s, ok := t.Lookup(strings.TrimSpace(name)); ok {
			selected = append(selected, s)
		} else {
			unknown = append(unknown, name)
		}
	}
	return selected, unknown
}
