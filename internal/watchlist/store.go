package watchlist

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
)

// DefaultSlot is the slot name the watchlist is stored under.
const DefaultSlot = "kino-xplorer-watchlist"

// Options configures a [Store].
type Options struct {
	Slot   string      // defaults to [DefaultSlot]
	Logger *log.Logger // nil discards log output
}

// Store is the in-memory watchlist mirrored to a [Backend] slot. It is safe for concurrent use.
type Store struct {
	backend Backend
	slot    string
	logger  *log.Logger

	mu     sync.RWMutex
	movies []models.Movie
}

// NewStore loads the slot once. An absent, unreadable or malformed slot yields an empty watchlist.
func NewStore(backend Backend, opts Options) *Store {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Store{
		backend: backend,
		slot:    opts.Slot,
		logger:  opts.Logger.With("slot", opts.Slot),
		movies:  []models.Movie{},
	}

	movies, err := s.load()
	if err != nil {
		s.logger.Warn("starting with an empty watchlist", "error", err)
		return s
	}
	s.movies = movies
	return s
}

// Slot returns the slot name.
func (s *Store) Slot() string { return s.slot }

// load reads and decodes the slot. An absent slot is an empty list.
func (s *Store) load() ([]models.Movie, error) {
	text, ok, err := s.backend.GetText(s.slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []models.Movie{}, nil
	}
	return Decode(text)
}

// Decode parses slot text. Duplicate ids keep their first occurrence.
func Decode(text string) ([]models.Movie, error) {
	var movies []models.Movie
	if err := json.Unmarshal([]byte(text), &movies); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMalformedRecord, err)
	}

	seen := make(map[int]bool, len(movies))
	out := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out, nil
}

// Encode serializes movies to slot text. A nil slice encodes as "[]".
func Encode(movies []models.Movie) (string, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	data, err := json.Marshal(movies)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// persist writes next to the backend. Callers hold the write lock.
func (s *Store) persist(next []models.Movie) error {
	text, err := Encode(next)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}
	if err := s.backend.SetText(s.slot, text); err != nil {
		s.logger.Error("failed to write watchlist", "error", err)
		return fmt.Errorf("%w: %v", shared.ErrPersist, err)
	}
	return nil
}

// Add appends movie unless a movie with the same id is already saved.
func (s *Store) Add(movie models.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(movie.ID) >= 0 {
		return nil
	}

	next := append(slices.Clone(s.movies), movie)
	if err := s.persist(next); err != nil {
		return err
	}
	s.movies = next
	s.logger.Debug("added movie", "id", movie.ID, "title", movie.Title)
	return nil
}

// Remove deletes the movie with id. Nothing is written when it is not saved.
func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.movies), i, i+1)
	if err := s.persist(next); err != nil {
		return err
	}
	s.movies = next
	s.logger.Debug("removed movie", "id", id)
	return nil
}

// Toggle removes movie when saved and adds it otherwise. added reports the resulting membership.
func (s *Store) Toggle(movie models.Movie) (added bool, err error) {
	if s.Contains(movie.ID) {
		return false, s.Remove(movie.ID)
	}
	return true, s.Add(movie)
}

// Contains reports whether a movie with id is saved.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Movies returns a copy of the watchlist in insertion order.
func (s *Store) Movies() []models.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.movies)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Reload re-reads the slot. On failure the current list is kept and the error returned.
func (s *Store) Reload() error {
	movies, err := s.load()
	if err != nil {
		s.logger.Warn("keeping current watchlist", "error", err)
		return err
	}

	s.mu.Lock()
	s.movies = movies
	s.mu.Unlock()
	return nil
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.movies, func(m models.Movie) bool { return m.ID == id })
}
