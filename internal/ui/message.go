package ui

import (
	"github.com/desertthunder/kinox/internal/services"
)

// catalogSettledMsg reports that a started catalog request finished. The outcome is already applied to (or
// discarded by) the catalog client; the model re-reads its snapshot.
type catalogSettledMsg struct {
	req services.Request
	err error
}

// watchlistChangedMsg reports that the watchlist slot was replaced outside this process.
type watchlistChangedMsg struct{}

// browserOpenedMsg reports the result of opening a movie page.
type browserOpenedMsg struct {
	url string
	err error
}
