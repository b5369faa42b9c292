package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/book"
	"github.com/fwojciec/refbook/fs"
	"github.com/fwojciec/refbook/goldmark"
	"github.com/fwojciec/refbook/goquery"
	"github.com/fwojciec/refbook/htmltomarkdown"
	refhttp "github.com/fwojciec/refbook/http"
	"github.com/fwojciec/refbook/mirror"
	"github.com/fwojciec/refbook/rod"
	refslog "github.com/fwojciec/refbook/slog"
	"github.com/fwojciec/refbook/sqlite"
	"github.com/google/uuid"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database, opened when the sqlite store driver is configured.
	DB *sqlite.DB

	// Fetcher replaces the configured transport for end-to-end testing.
	Fetcher refbook.Fetcher

	fetcher refbook.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.fetcher != nil {
		errs = append(errs, m.fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("refbook"),
		kong.Description("Build a printable C++ reference from the identifiers linked in your notes"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'refbook --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}
	cfg.Override(cli.Content, cli.Store)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", refbook.ErrorMessage(err))
		return err
	}

	runID := uuid.New().String()
	logger := newLogger(stderr, cli.Verbose).With("run_id", runID)

	deps := &Dependencies{
		Ctx:       ctx,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    logger,
		Config:    cfg,
		Sources:   fs.Sources(cfg.Content),
		Extractor: goldmark.NewExtractor(cfg.BaseURL),
	}

	if err := m.openStore(cfg, deps); err != nil {
		fmt.Fprintf(stderr, "Hint: check store.path in %s or set REFBOOK_STORE\n", cli.Config)
		return fmt.Errorf("failed to open %s store at %q: %w", cfg.Store.Driver, cfg.StorePath(), err)
	}
	defer m.Close()

	normalizer := newNormalizer(cfg)

	// Wire command-specific dependencies based on command
	switch kongCtx.Command() {
	case "sync":
		fetcher, err := m.openFetcher(cfg)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed when fetch.browser is set")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		deps.Syncer = &mirror.Syncer{
			Fetcher:     refslog.NewLoggingFetcher(fetcher, logger),
			Normalizer:  normalizer,
			Store:       deps.Store,
			RateLimiter: mirror.NewDomainLimiter(cfg.Fetch.Rate),
			Concurrency: cfg.Fetch.Concurrency,
			OnRetry: func(url string, attempt int, err error) {
				logger.Warn("retrying fetch", "url", url, "attempt", attempt, "err", err)
			},
			RunID: runID,
		}
	case "print":
		deps.Binder = &book.Binder{
			Store:      deps.Store,
			Normalizer: normalizer,
			Title:      cfg.Output.Title,
		}
		deps.Converter = htmltomarkdown.NewConverter()
	}

	return kongCtx.Run(deps)
}

// openStore opens the configured document store and, for sqlite, the run history.
func (m *Main) openStore(cfg *Config, deps *Dependencies) error {
	path := cfg.StorePath()

	var store refbook.DocumentStore
	switch cfg.Store.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		m.DB = sqlite.NewDB(path)
		if err := m.DB.Open(); err != nil {
			return err
		}
		store = sqlite.NewDocumentStore(m.DB)
		deps.Runs = sqlite.NewRunStore(m.DB)
	default:
		store = fs.NewDocumentStore(path)
	}

	deps.Store = refslog.NewLoggingDocumentStore(store, deps.Logger)
	return nil
}

// openFetcher returns the injected fetcher or starts the configured transport.
func (m *Main) openFetcher(cfg *Config) (refbook.Fetcher, error) {
	if m.Fetcher != nil {
		return m.Fetcher, nil
	}

	if cfg.Fetch.Browser {
		f, err := rod.NewFetcher(rod.WithTimeout(cfg.Fetch.Timeout))
		if err != nil {
			return nil, err
		}
		m.fetcher = f
		return f, nil
	}

	m.fetcher = refhttp.NewFetcher(
		refhttp.WithTimeout(cfg.Fetch.Timeout),
		refhttp.WithUserAgent(cfg.Fetch.UserAgent),
	)
	return m.fetcher, nil
}

func newNormalizer(cfg *Config) *goquery.Normalizer {
	var opts []goquery.Option
	if len(cfg.Normalize.Furniture) > 0 {
		opts = append(opts, goquery.WithFurniture(cfg.Normalize.Furniture))
	}
	if len(cfg.Normalize.Highlight) > 0 {
		opts = append(opts, goquery.WithHighlight(cfg.Normalize.Highlight))
	}
	return goquery.NewNormalizer(opts...)
}

// newLogger writes text records to w when verbose is set and discards them otherwise.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
