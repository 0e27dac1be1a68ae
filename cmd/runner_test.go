package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/kinox/internal/models"
	"github.com/desertthunder/kinox/internal/shared"
	tu "github.com/desertthunder/kinox/internal/testing"
	"github.com/desertthunder/kinox/internal/watchlist"
)

type testEnv struct {
	runner  *Runner
	output  *bytes.Buffer
	catalog *tu.MockCatalog
	backend *watchlist.MemoryBackend
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	movies := tu.SampleMovies()
	env := &testEnv{
		output:  &bytes.Buffer{},
		catalog: &tu.MockCatalog{TrendingMovies: movies, SearchMovies: movies[:1]},
		backend: watchlist.NewMemoryBackend(),
	}

	config := shared.DefaultConfig()
	config.Watchlist.Backend = shared.BackendMemory

	env.runner = NewRunner(RunnerOpts{
		Config:  config,
		Catalog: env.catalog,
		Lookup: &tu.MockLookup{Movies: map[int]models.Movie{
			movies[0].ID: movies[0],
			movies[1].ID: movies[1],
		}},
		Backend: env.backend,
		Logger:  log.New(&bytes.Buffer{}),
		Output:  env.output,
	})
	return env
}

func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	return newApp(e.runner).Run(context.Background(), append([]string{"kinox"}, args...))
}

func (e *testEnv) saved(t *testing.T) []models.Movie {
	t.Helper()
	text, ok, err := e.backend.GetText(watchlist.DefaultSlot)
	if err != nil {
		t.Fatalf("failed to read slot: %v", err)
	}
	if !ok {
		return nil
	}
	movies, err := watchlist.Decode(text)
	if err != nil {
		t.Fatalf("failed to decode slot: %v", err)
	}
	return movies
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalog{}
			backend := watchlist.NewMemoryBackend()

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				Catalog:    catalog,
				Backend:    backend,
			})

			if runner.config != config || !runner.configLoaded {
				t.Error("expected config to be set and marked loaded")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.backend != backend {
				t.Error("expected backend to be set")
			}
		})

		t.Run("with nil config uses defaults until loaded", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.configLoaded {
				t.Error("expected config file to still be read")
			}
		})

		t.Run("with nil logger and output uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"setup", "trending", "search", "movie", "genres", "watchlist", "tui"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})
}

func TestBefore(t *testing.T) {
	writeConfig := func(t *testing.T, body string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		return path
	}

	newRunner := func() *Runner {
		return NewRunner(RunnerOpts{
			Logger: log.New(&bytes.Buffer{}),
			Output: &bytes.Buffer{},
		})
	}

	t.Run("loads the file named by --config", func(t *testing.T) {
		t.Setenv(shared.EnvAPIKey, "")
		path := writeConfig(t, "[watchlist]\nbackend = \"memory\"\n\n[tmdb]\napi_key = \"from-file\"\n")
		runner := newRunner()

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "--config", path, "genres"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if runner.config.Watchlist.Backend != shared.BackendMemory {
			t.Errorf("expected memory backend, got %s", runner.config.Watchlist.Backend)
		}
		if runner.config.TMDB.APIKey != "from-file" {
			t.Errorf("expected api key from file, got %q", runner.config.TMDB.APIKey)
		}
		if runner.config.Watchlist.Slot != watchlist.DefaultSlot {
			t.Errorf("expected default slot to survive partial config, got %q", runner.config.Watchlist.Slot)
		}
	})

	t.Run("missing file uses defaults", func(t *testing.T) {
		runner := newRunner()
		missing := filepath.Join(t.TempDir(), "absent.toml")

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "-c", missing, "genres"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !runner.configLoaded {
			t.Error("expected config to be marked loaded")
		}
	})

	t.Run("environment overrides backend", func(t *testing.T) {
		t.Setenv(shared.EnvWatchlistBackend, shared.BackendMemory)
		runner := newRunner()
		missing := filepath.Join(t.TempDir(), "absent.toml")

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "-c", missing, "genres"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.config.Watchlist.Backend != shared.BackendMemory {
			t.Errorf("expected env backend, got %s", runner.config.Watchlist.Backend)
		}
	})

	t.Run("invalid backend fails", func(t *testing.T) {
		path := writeConfig(t, "[watchlist]\nbackend = \"floppy\"\n")
		runner := newRunner()

		err := newApp(runner).Run(context.Background(), []string{"kinox", "--config", path, "genres"})
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("debug flag lowers the log level", func(t *testing.T) {
		runner := newRunner()
		missing := filepath.Join(t.TempDir(), "absent.toml")

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "-c", missing, "--debug", "genres"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if runner.logger.GetLevel() != log.DebugLevel {
			t.Errorf("expected debug level, got %v", runner.logger.GetLevel())
		}
	})
}

func TestMovieCommands(t *testing.T) {
	t.Run("trending as JSON", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "trending", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output, got %q: %v", env.output.String(), err)
		}
		if len(movies) != 2 || movies[0].ID != 438631 {
			t.Errorf("unexpected movies %+v", movies)
		}
	})

	t.Run("trending as text", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "trending"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Trending Movies", "2 movies found", "Dune (2021) ★ 7.8", "Sci-Fi, Adventure"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("trending failure is wrapped", func(t *testing.T) {
		env := newTestEnv(t)
		env.catalog.TrendingErr = fmt.Errorf("%w: connection refused", shared.ErrNetwork)

		err := env.run(t, "trending")
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		config := shared.DefaultConfig()
		runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(&bytes.Buffer{}), Output: &bytes.Buffer{}})

		err := newApp(runner).Run(context.Background(), []string{"kinox", "trending"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("search joins arguments into one query", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "search", "--json", "dune", "part", "two"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, queries := env.catalog.Calls()
		if len(queries) != 1 || queries[0] != "dune part two" {
			t.Errorf("expected joined query, got %v", queries)
		}
	})

	t.Run("search without query", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(t, "search")
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("movie details", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "movie", "438631"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		for _, want := range []string{"Dune (2021)", "Rating: 7.8/10", "September 15, 2021", "Watchlist: not saved"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("movie with a bad id", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(t, "movie", "abc")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("genres marks filterable entries", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "genres"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := env.output.String()
		if !strings.Contains(out, "*    28  Action") {
			t.Errorf("expected Action to be marked filterable:\n%s", out)
		}
		if !strings.Contains(out, "     99  Documentary") {
			t.Errorf("expected Documentary to be unmarked:\n%s", out)
		}
	})
}

func TestWatchlistCommands(t *testing.T) {
	t.Run("add persists the fetched movie", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "watchlist", "add", "550"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		saved := env.saved(t)
		if len(saved) != 1 || saved[0].ID != 550 || saved[0].Title != "Fight Club" {
			t.Errorf("unexpected watchlist %+v", saved)
		}
		if !strings.Contains(env.output.String(), "Added Fight Club") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("add twice is a no-op", func(t *testing.T) {
		env := newTestEnv(t)

		for range 2 {
			if err := env.run(t, "watchlist", "add", "550"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		if saved := env.saved(t); len(saved) != 1 {
			t.Errorf("expected one saved movie, got %d", len(saved))
		}
		if !strings.Contains(env.output.String(), "already in the watchlist") {
			t.Errorf("expected already-saved notice, got %q", env.output.String())
		}
	})

	t.Run("add unknown movie fails", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(t, "watchlist", "add", "1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
		if saved := env.saved(t); len(saved) != 0 {
			t.Errorf("expected nothing saved, got %+v", saved)
		}
	})

	t.Run("remove", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "watchlist", "add", "550"); err != nil {
			t.Fatal(err)
		}
		if err := env.run(t, "watchlist", "remove", "550"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved := env.saved(t); len(saved) != 0 {
			t.Errorf("expected empty watchlist, got %+v", saved)
		}

		if err := env.run(t, "watchlist", "rm", "550"); err != nil {
			t.Fatalf("expected removing an absent id to succeed, got %v", err)
		}
		if !strings.Contains(env.output.String(), "not in the watchlist") {
			t.Errorf("expected not-saved notice, got %q", env.output.String())
		}
	})

	t.Run("list as JSON keeps insertion order", func(t *testing.T) {
		env := newTestEnv(t)

		for _, id := range []string{"550", "438631"} {
			if err := env.run(t, "watchlist", "add", id); err != nil {
				t.Fatal(err)
			}
		}
		env.output.Reset()

		if err := env.run(t, "watchlist", "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var movies []models.Movie
		if err := json.Unmarshal(env.output.Bytes(), &movies); err != nil {
			t.Fatalf("expected JSON output: %v", err)
		}
		if len(movies) != 2 || movies[0].ID != 550 || movies[1].ID != 438631 {
			t.Errorf("unexpected order %+v", movies)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		env := newTestEnv(t)

		if err := env.run(t, "watchlist", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(env.output.String(), "No movies in watchlist") {
			t.Errorf("unexpected output %q", env.output.String())
		}
	})

	t.Run("export writes the requested format", func(t *testing.T) {
		env := newTestEnv(t)
		if err := env.run(t, "watchlist", "add", "438631"); err != nil {
			t.Fatal(err)
		}

		out := filepath.Join(t.TempDir(), "saved.csv")
		if err := env.run(t, "watchlist", "export", "--format", "csv", "--output", out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, out)
		if content := tu.MustReadFile(t, out); !strings.Contains(content, "Dune") {
			t.Errorf("expected Dune in export, got %q", content)
		}
	})

	t.Run("export downloads posters", func(t *testing.T) {
		env := newTestEnv(t)
		env.runner.download = func(ctx context.Context, url string) ([]byte, error) {
			return []byte("jpeg"), nil
		}
		for _, id := range []string{"438631", "550"} {
			if err := env.run(t, "watchlist", "add", id); err != nil {
				t.Fatal(err)
			}
		}

		dir := t.TempDir()
		out := filepath.Join(dir, "saved.md")
		posters := filepath.Join(dir, "posters")
		if err := env.run(t, "watchlist", "export", "-f", "markdown", "-o", out, "--posters", posters, "--rate", "100"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(posters, "438631.jpg"))
		if !strings.Contains(env.output.String(), "1 downloaded, 0 failed, 1 without poster") {
			t.Errorf("unexpected summary %q", env.output.String())
		}
	})

	t.Run("export rejects unknown format", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(t, "watchlist", "export", "--format", "pdf")
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("history needs sqlite", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.run(t, "watchlist", "history")
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("history lists sqlite writes", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Watchlist.Backend = shared.BackendSQLite
		config.Database.Path = filepath.Join(t.TempDir(), "kinox.db")

		output := &bytes.Buffer{}
		movies := tu.SampleMovies()
		runner := NewRunner(RunnerOpts{
			Config:  config,
			Catalog: &tu.MockCatalog{},
			Lookup:  &tu.MockLookup{Movies: map[int]models.Movie{550: movies[1]}},
			Logger:  log.New(&bytes.Buffer{}),
			Output:  output,
		})

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "watchlist", "add", "550"}); err != nil {
			t.Fatalf("expected add to succeed, got %v", err)
		}

		// the first run closed the database; open it again for the second
		runner.backend, runner.slots, runner.store = nil, nil, nil
		if err := newApp(runner).Run(context.Background(), []string{"kinox", "watchlist", "history"}); err != nil {
			t.Fatalf("expected history to succeed, got %v", err)
		}

		if !strings.Contains(output.String(), "History of "+watchlist.DefaultSlot) {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}

func TestSetup(t *testing.T) {
	t.Run("creates config from the template", func(t *testing.T) {
		t.Setenv(shared.EnvWatchlistBackend, shared.BackendMemory)
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		config := shared.DefaultConfig()
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(&bytes.Buffer{}), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "-c", configPath, "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, configPath)
		out := output.String()
		if !strings.Contains(out, "Created "+configPath) || !strings.Contains(out, "in-memory watchlist") {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("keeps an existing config", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(configPath, []byte("# mine\n"), 0644); err != nil {
			t.Fatal(err)
		}

		config := shared.DefaultConfig()
		config.Watchlist.Backend = shared.BackendMemory
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Logger: log.New(&bytes.Buffer{}), Output: output})

		if err := newApp(runner).Run(context.Background(), []string{"kinox", "-c", configPath, "setup"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := tu.MustReadFile(t, configPath); got != "# mine\n" {
			t.Errorf("expected config to be untouched, got %q", got)
		}
		if !strings.Contains(output.String(), "in-memory watchlist") {
			t.Errorf("unexpected output %q", output.String())
		}
	})
}
