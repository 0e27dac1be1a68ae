// Package ui implements the Kino Xplorer terminal interface using bubbletea's Elm architecture.
//
// The explorer screen is one [Model] with three focus regions:
//  1. [FocusSearch] : the search box; enter submits, an empty query returns to trending
//  2. [FocusGenres] : the genre chip row; space toggles the chip under the cursor
//  3. [FocusGrid] : the movie cards; enter opens the details overlay, a toggles the watchlist
//
// Catalog fetches run as commands against a [services.CatalogClient] and report back with a settled message; the
// client discards results of superseded requests, so the model only ever re-reads its snapshot. The list of cards is
// recomputed from the catalog results, the watchlist, the genre selection and the watchlist toggle whenever any of
// them changes.
//
// Keyboard navigation uses vim-style bindings (j/k, h/l, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help. Digits 1-9, 0 and - toggle the chips directly.
package ui
