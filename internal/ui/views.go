package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/kinox/internal/genres"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	brandName        = "Kino Xplorer"
	trendingTitle    = "Trending Movies"
	watchlistTitle   = "Your Watchlist"
	loadingText      = "Loading movies..."
	errorTitle       = "Something went wrong"
	retryHint        = "press r to try again"
	emptyWatchlist   = "No movies in watchlist"
	emptyWatchlistHi = "press w to browse movies"
	emptyResults     = "No movies found"
	emptyResultsHint = "Try adjusting your search or filters"
	longDateLayout   = "January 2, 2006"
)

var printer = message.NewPrinter(language.English)

// displayMovies is the list the grid shows: the watchlist while it is toggled on, otherwise the catalog results
// narrowed by the genre selection.
func displayMovies(remote, saved []models.Movie, sel genres.Selection, showWatchlist bool) []models.Movie {
	if showWatchlist {
		return saved
	}
	return genres.Filter(remote, sel)
}

func sectionTitle(showWatchlist bool, state services.CatalogState) string {
	switch {
	case showWatchlist:
		return watchlistTitle
	case state.Kind == services.FetchSearch && state.Query != "":
		return fmt.Sprintf("Search Results for %q", state.Query)
	default:
		return trendingTitle
	}
}

func countLabel(n int, showWatchlist bool) string {
	if showWatchlist {
		return fmt.Sprintf("%d movies saved", n)
	}
	return fmt.Sprintf("%d movies found", n)
}

// formatVotes groups thousands, e.g. 1234 -> "1,234".
func formatVotes(n int) string {
	return printer.Sprintf("%d", n)
}

// ratingLine renders "7.3/10 (1,234 votes)".
func ratingLine(m models.Movie) string {
	return fmt.Sprintf("%s/10 (%s votes)", m.Rating(), formatVotes(m.VoteCount))
}

func longReleaseDate(m models.Movie) string {
	t, ok := m.ReleaseTime()
	if !ok {
		return ""
	}
	return t.Format(longDateLayout)
}

func renderHeader(search string, saved int, showWatchlist bool) string {
	label := "♥ Watchlist"
	if showWatchlist {
		label = "← Browse"
	}
	if saved > 0 {
		label = fmt.Sprintf("%s %s", label, styles.badge.Render(fmt.Sprintf("%d", saved)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, styles.brand.Render(brandName), "  ", search, "  ", label)
}

func renderChips(sel genres.Selection, cursor int, focused bool) string {
	chips := genres.Filterable()
	rendered := make([]string, len(chips))
	for i, g := range chips {
		label := g.Name
		if i < len(chipKeys) {
			label = fmt.Sprintf("%s %s", chipKeys[i], g.Name)
		}

		style := styles.chip
		if sel.Has(g.ID) {
			style = styles.chipOn
		}
		if focused && i == cursor {
			style = style.Underline(true).Bold(true)
		}
		rendered[i] = style.Render(label)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderSection(title, count string) string {
	return fmt.Sprintf("%s  %s", styles.title.UnsetMarginBottom().Render(title), styles.sectionHint.Render(count))
}

func renderLoading(spin string) string {
	return fmt.Sprintf("\n  %s %s\n", spin, loadingText)
}

func renderError(msg string) string {
	body := fmt.Sprintf("%s\n\n%s\n\n%s", styles.err.Render(errorTitle), msg, styles.help.Render(retryHint))
	return styles.errorCard.Render(body)
}

func renderEmpty(showWatchlist bool) string {
	if showWatchlist {
		return fmt.Sprintf("\n  %s\n  %s\n", styles.warn.Render(emptyWatchlist), styles.help.Render(emptyWatchlistHi))
	}
	return fmt.Sprintf("\n  %s\n  %s\n", styles.warn.Render(emptyResults), styles.help.Render(emptyResultsHint))
}

// renderDetails builds the details overlay body for m.
func renderDetails(m models.Movie, saved bool, images services.Images) string {
	var b strings.Builder

	fmt.Fprintf(&b, "backdrop: %s\n", images.Backdrop(m.BackdropPath))
	fmt.Fprintf(&b, "poster:   %s\n\n", images.Poster(m.PosterPath))

	title := m.Title
	if year := m.Year(); year != "" {
		title = fmt.Sprintf("%s (%s)", m.Title, year)
	}
	b.WriteString(styles.title.Render(title))
	b.WriteString("\n")

	if m.HasRating() {
		fmt.Fprintf(&b, "★ %s\n", ratingLine(m))
	}
	if date := longReleaseDate(m); date != "" {
		fmt.Fprintf(&b, "Released %s\n", date)
	}

	if len(m.GenreIDs) > 0 {
		badges := make([]string, len(m.GenreIDs))
		for i, name := range genres.Names(m.GenreIDs) {
			badges[i] = styles.genre.Render(name)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, badges...))
		b.WriteString("\n")
	}

	if m.Overview != "" {
		fmt.Fprintf(&b, "\n%s\n%s\n", styles.ok.Render("Overview"), m.Overview)
	}

	fmt.Fprintf(&b, "\n%s\n", watchlistMarker(saved))
	fmt.Fprintf(&b, "%s\n", styles.help.Render(services.MoviePageURL(m.ID)))
	return b.String()
}
