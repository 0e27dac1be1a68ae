package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/genres"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/services"
	"github.com/desertthunder/kinox/internal/shared"
	"github.com/desertthunder/kinox/internal/watchlist"
)

// Focus is the region of the explorer receiving key presses.
type Focus int

const (
	FocusGrid Focus = iota
	FocusSearch
	FocusGenres
)

func (f Focus) String() string {
	switch f {
	case FocusSearch:
		return "search"
	case FocusGenres:
		return "genres"
	default:
		return "grid"
	}
}

// chrome is the number of terminal rows taken by everything but the grid.
const chrome = 10

// Options are the explorer's dependencies.
type Options struct {
	Catalog   *services.CatalogClient
	Watchlist *watchlist.Store
	Images    services.Images
	Logger    *log.Logger
	OpenURL   func(url string) error // defaults to [shared.OpenBrowser]
	Changes   <-chan struct{}        // signals watchlist slot changes made by other processes
}

// Model is the explorer screen.
type Model struct {
	ctx       context.Context
	catalog   *services.CatalogClient
	watchlist *watchlist.Store
	images    services.Images
	logger    *log.Logger
	openURL   func(string) error
	changes   <-chan struct{}

	width  int
	height int

	focus          Focus
	searchInput    textinput.Model
	selectedGenres genres.Selection
	selectedMovie  *models.Movie
	showWatchlist  bool
	chipCursor     int

	state   services.CatalogState
	status  string
	grid    list.Model
	details viewport.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates the explorer. Catalog and Watchlist are required.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}
	if opts.Images.BaseURL == "" {
		opts.Images = services.NewImages("")
	}

	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.Prompt = "/ "
	input.CharLimit = 120
	input.Width = 40

	grid := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	grid.SetShowTitle(false)
	grid.SetShowHelp(false)
	grid.SetShowStatusBar(false)
	grid.SetFilteringEnabled(false)
	grid.DisableQuitKeybindings()

	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok))

	return &Model{
		ctx:         ctx,
		catalog:     opts.Catalog,
		watchlist:   opts.Watchlist,
		images:      opts.Images,
		logger:      opts.Logger,
		openURL:     opts.OpenURL,
		changes:     opts.Changes,
		focus:       FocusGrid,
		searchInput: input,
		grid:        grid,
		details:     viewport.New(0, 0),
		spinner:     spin,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init starts the trending fetch.
func (m *Model) Init() tea.Cmd {
	req := m.catalog.Start(services.FetchTrending, "")
	m.state = m.catalog.Snapshot()
	return tea.Batch(m.run(req), m.spinner.Tick, textinput.Blink, m.waitForChange())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case catalogSettledMsg:
		m.state = m.catalog.Snapshot()
		if msg.req.Generation != m.state.Generation {
			m.logger.Debug("ignoring superseded catalog result", "request_id", msg.req.ID)
		}
		return m, m.syncGrid()

	case watchlistChangedMsg:
		if err := m.watchlist.Reload(); err != nil {
			m.logger.Warn("reloading watchlist", "error", err)
		}
		return m, tea.Batch(m.syncGrid(), m.waitForChange())

	case browserOpenedMsg:
		if msg.err != nil {
			m.logger.Warn("opening browser", "url", msg.url, "error", msg.err)
			m.status = fmt.Sprintf("could not open %s", msg.url)
		} else {
			m.status = fmt.Sprintf("opened %s", msg.url)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == FocusSearch {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the explorer, or the details overlay when a movie is selected.
func (m *Model) View() string {
	if m.selectedMovie != nil {
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.save, m.keys.browse, m.keys.up, m.keys.down})
		return styles.overlay.Render(fmt.Sprintf("%s\n\n%s", m.details.View(), helpView))
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.searchInput.View(), m.watchlist.Len(), m.showWatchlist))
	b.WriteString("\n\n")

	if !m.showWatchlist {
		b.WriteString(renderChips(m.selectedGenres, m.chipCursor, m.focus == FocusGenres))
		b.WriteString("\n\n")
	}

	movies := m.displayed()
	count := len(movies)
	b.WriteString(renderSection(sectionTitle(m.showWatchlist, m.state), countLabel(count, m.showWatchlist)))
	b.WriteString("\n")

	switch {
	case m.state.Loading:
		b.WriteString(renderLoading(m.spinner.View()))
	case m.state.Err != "":
		b.WriteString(renderError(m.state.Err))
	case count == 0:
		b.WriteString(renderEmpty(m.showWatchlist))
	default:
		b.WriteString(m.grid.View())
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(styles.help.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.helpKeys()))
	return b.String()
}

// Focus returns the focused region.
func (m *Model) Focus() Focus { return m.focus }

// SelectedGenres returns the active genre filter.
func (m *Model) SelectedGenres() genres.Selection { return m.selectedGenres }

// SelectedMovie returns the movie shown in the details overlay, or nil.
func (m *Model) SelectedMovie() *models.Movie { return m.selectedMovie }

// ShowWatchlist reports whether the grid shows the watchlist instead of catalog results.
func (m *Model) ShowWatchlist() bool { return m.showWatchlist }

// Displayed returns the movies the grid currently shows.
func (m *Model) Displayed() []models.Movie { return m.displayed() }

// State returns the catalog state last applied to the screen.
func (m *Model) State() services.CatalogState { return m.state }

func (m *Model) displayed() []models.Movie {
	return displayMovies(m.state.Movies, m.watchlist.Movies(), m.selectedGenres, m.showWatchlist)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.forceQuit) {
		return m, tea.Quit
	}

	if m.selectedMovie != nil {
		return m.handleDetailsKeys(msg)
	}

	switch m.focus {
	case FocusSearch:
		return m.handleSearchKeys(msg)
	case FocusGenres:
		return m.handleGenreKeys(msg)
	default:
		return m.handleGridKeys(msg)
	}
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.submit):
		req := m.catalog.StartSubmit(m.searchInput.Value())
		m.state = m.catalog.Snapshot()
		m.setFocus(FocusGrid)
		return m, tea.Batch(m.run(req), m.syncGrid())
	case msg.String() == "esc":
		m.setFocus(FocusGrid)
		return m, nil
	case key.Matches(msg, m.keys.focus):
		m.cycleFocus()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleGenreKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chips := genres.Filterable()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.left):
		if m.chipCursor > 0 {
			m.chipCursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.right):
		if m.chipCursor < len(chips)-1 {
			m.chipCursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.chip):
		return m, m.toggleGenre(chips[m.chipCursor].ID)
	case key.Matches(msg, m.keys.back):
		m.setFocus(FocusGrid)
		return m, nil
	}
	return m.handleCommonKeys(msg)
}

func (m *Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.open):
		if movie, ok := m.current(); ok {
			m.openDetails(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.save):
		if movie, ok := m.current(); ok {
			return m, m.toggleWatchlist(movie)
		}
		return m, nil
	case key.Matches(msg, m.keys.browse):
		if movie, ok := m.current(); ok {
			return m, m.browse(movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}
	return m.handleCommonKeys(msg)
}

// handleCommonKeys covers the bindings shared by the grid and the chip row.
func (m *Model) handleCommonKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.search):
		m.setFocus(FocusSearch)
		return m, textinput.Blink
	case key.Matches(msg, m.keys.focus):
		m.cycleFocus()
		return m, nil
	case key.Matches(msg, m.keys.watchlist):
		m.showWatchlist = !m.showWatchlist
		if m.showWatchlist && m.focus == FocusGenres {
			m.setFocus(FocusGrid)
		}
		return m, m.syncGrid()
	case key.Matches(msg, m.keys.retry):
		if m.state.Err == "" || m.state.Loading {
			return m, nil
		}
		req := m.catalog.StartRetry()
		m.state = m.catalog.Snapshot()
		return m, tea.Batch(m.run(req), m.syncGrid())
	}

	if !m.showWatchlist {
		if i := chipIndex(msg.String()); i >= 0 {
			return m, m.toggleGenre(genres.Filterable()[i].ID)
		}
	}
	return m, nil
}

func (m *Model) handleDetailsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.selectedMovie = nil
		return m, nil
	case key.Matches(msg, m.keys.save):
		cmd := m.toggleWatchlist(*m.selectedMovie)
		m.refreshDetails()
		return m, cmd
	case key.Matches(msg, m.keys.browse):
		return m, m.browse(m.selectedMovie.ID)
	case msg.String() == "q":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.details, cmd = m.details.Update(msg)
	return m, cmd
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusSearch {
		m.searchInput.Focus()
	} else {
		m.searchInput.Blur()
	}
}

// cycleFocus moves focus search -> genres -> grid, skipping the hidden chip row.
func (m *Model) cycleFocus() {
	next := FocusGrid
	switch m.focus {
	case FocusSearch:
		next = FocusGenres
		if m.showWatchlist {
			next = FocusGrid
		}
	case FocusGrid:
		next = FocusSearch
	}
	m.setFocus(next)
}

func (m *Model) toggleGenre(id int) tea.Cmd {
	m.selectedGenres = genres.Toggle(id, m.selectedGenres)
	return m.syncGrid()
}

func (m *Model) toggleWatchlist(movie models.Movie) tea.Cmd {
	added, err := m.watchlist.Toggle(movie)
	switch {
	case err != nil:
		m.logger.Error("updating watchlist", "movie_id", movie.ID, "error", err)
		m.status = fmt.Sprintf("could not update watchlist: %v", err)
	case added:
		m.status = fmt.Sprintf("added %q to watchlist", movie.Title)
	default:
		m.status = fmt.Sprintf("removed %q from watchlist", movie.Title)
	}
	return m.syncGrid()
}

func (m *Model) openDetails(movie models.Movie) {
	m.selectedMovie = &movie
	m.refreshDetails()
	m.details.GotoTop()
}

func (m *Model) refreshDetails() {
	if m.selectedMovie == nil {
		return
	}
	m.details.SetContent(renderDetails(*m.selectedMovie, m.watchlist.Contains(m.selectedMovie.ID), m.images))
}

// current returns the movie under the grid cursor.
func (m *Model) current() (models.Movie, bool) {
	if m.state.Loading || (!m.showWatchlist && m.state.Err != "") {
		return models.Movie{}, false
	}
	item, ok := m.grid.SelectedItem().(movieItem)
	if !ok {
		return models.Movie{}, false
	}
	return item.movie, true
}

// syncGrid rebuilds the grid cards from the derived movie list.
func (m *Model) syncGrid() tea.Cmd {
	cmd := m.grid.SetItems(movieItems(m.displayed(), m.watchlist.Contains, m.images))
	m.refreshDetails()
	return cmd
}

func (m *Model) resize() {
	m.grid.SetSize(max(m.width-4, 20), max(m.height-chrome, 4))
	m.details.Width = max(m.width-4, 20)
	m.details.Height = max(m.height-6, 4)
	m.help.Width = m.width
	m.refreshDetails()
}

func (m *Model) helpKeys() []key.Binding {
	switch m.focus {
	case FocusSearch:
		return []key.Binding{m.keys.submit, m.keys.back, m.keys.focus}
	case FocusGenres:
		return []key.Binding{m.keys.left, m.keys.right, m.keys.chip, m.keys.focus, m.keys.quit}
	}

	bindings := []key.Binding{m.keys.up, m.keys.down, m.keys.open, m.keys.save, m.keys.search, m.keys.watchlist}
	if m.state.Err != "" {
		bindings = append(bindings, m.keys.retry)
	}
	return append(bindings, m.keys.quit)
}

// run performs req off the update loop.
func (m *Model) run(req services.Request) tea.Cmd {
	return func() tea.Msg {
		err := m.catalog.Run(m.ctx, req)
		return catalogSettledMsg{req: req, err: err}
	}
}

func (m *Model) browse(id int) tea.Cmd {
	url := services.MoviePageURL(id)
	open := m.openURL
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: open(url)}
	}
}

// waitForChange blocks until the watchlist slot changes on disk.
func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return watchlistChangedMsg{}
	}
}

// chipIndex maps a digit shortcut to its chip position, or -1.
func chipIndex(s string) int {
	for i, k := range chipKeys {
		if k == s {
			return i
		}
	}
	return -1
}
