// Package extractor turns odds comparison markup into flat odds records.
package extractor

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/yourusername/sportsbook-performance/internal/models"
)

// Selectors for the odds comparer page layout.
const (
	GameSelector      = "div.m-5.flex.flex-col.shadow-lg"
	TitleSelector     = "h2.text-3xl"
	KickoffSelector   = "p.text-cyan-700.text-sm"
	TeamSelector      = "div.p-3"
	QuoteSelector     = "div.grid.grid-flow-row.p-3"
	BookmakerSelector = "span.text-xl"
)

// KickoffLayout is the kickoff format on the page. Times are published in UTC.
const KickoffLayout = "Jan 2, 2006, 3:04 PM"

const titleSeparator = " vs "

// Extraction is the result of parsing one page.
type Extraction struct {
	Records  []models.OddsRecord
	Warnings []models.Warning
	Matches  int
}

// Extract parses a page for one sport. Kickoffs are converted into loc.
// Only an unreadable document is an error; problems with individual match
// blocks are returned as warnings.
func Extract(r io.Reader, sport string, loc *time.Location) (*Extraction, error) {
	if loc == nil {
		loc = time.UTC
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	out := &Extraction{Records: make([]models.OddsRecord, 0)}

	doc.Find(GameSelector).Each(func(_ int, game *goquery.Selection) {
		title := cleanText(game.Find(TitleSelector).First().Text())
		home, away, err := SplitTitle(title)
		if err != nil {
			out.Warnings = append(out.Warnings, models.Warning{
				Kind:    models.WarningMalformedMatchTitle,
				Sport:   sport,
				Match:   title,
				Message: err.Error(),
			})
			return
		}

		match := models.MatchInfo{Sport: sport, HomeTeam: home, AwayTeam: away}
		match.KickoffRaw = cleanText(game.Find(KickoffSelector).First().Text())
		if kickoff, err := ParseKickoff(match.KickoffRaw, loc); err == nil {
			match.Kickoff = kickoff
			match.KickoffParsed = true
		} else {
			out.Warnings = append(out.Warnings, models.Warning{
				Kind:    models.WarningKickoffUnparsed,
				Sport:   sport,
				Match:   match.Title(),
				Message: fmt.Sprintf("kickoff %q kept verbatim", match.KickoffRaw),
			})
		}
		out.Matches++

		// Quote items carry the p-3 class too; they are not team blocks.
		game.Find(TeamSelector).Not(QuoteSelector).Each(func(_ int, section *goquery.Selection) {
			team := cleanText(section.Find("span").First().Text())
			section.Find(QuoteSelector).Each(func(_ int, quote *goquery.Selection) {
				out.Records = append(out.Records, models.OddsRecord{
					Match:     match,
					Team:      team,
					Price:     cleanText(quote.Find("span").First().Text()),
					Bookmaker: cleanText(quote.Find(BookmakerSelector).First().Text()),
				})
			})
		})
	})

	return out, nil
}

// SplitTitle splits "Home vs Away" into its two teams.
func SplitTitle(title string) (home, away string, err error) {
	parts := strings.Split(title, titleSeparator)
	if len(parts) != 2 {
		return "", "", &models.MalformedMatchTitleError{Title: title}
	}
	home, away = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return "", "", &models.MalformedMatchTitleError{Title: title}
	}
	return home, away, nil
}

// ParseKickoff reads a UTC kickoff from the page and converts it into loc.
func ParseKickoff(text string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(KickoffLayout, text, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
