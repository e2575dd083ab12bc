package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/roster"
	"github.com/fwojciec/roster/dedupe"
	"github.com/fwojciec/roster/gemini"
	"github.com/fwojciec/roster/goquery"
	rosterhttp "github.com/fwojciec/roster/http"
	"github.com/fwojciec/roster/rod"
	"github.com/fwojciec/roster/scrape"
	rosterslog "github.com/fwojciec/roster/slog"
	"github.com/fwojciec/roster/sqlite"
	"github.com/fwojciec/roster/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when --db and ROSTER_DB are not set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// GeminiAPIKey enables the semantic index and the ask command.
	GeminiAPIKey string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath:       defaultDBPath(),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("roster"),
		kong.Description("Scrape team pages into a searchable profile directory."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		fmt.Fprintln(stderr, "error: no command specified")
		return fmt.Errorf("no command specified. Run 'roster --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return err
	}
	cmd := kongCtx.Selected().Name

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", roster.ErrorMessage(err))
		return err
	}
	logger := newLogger(stderr, cli.Verbose)

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "error: failed to open database at %q: %v\n", dbPath, err)
		fmt.Fprintln(stderr, "Hint: Set ROSTER_DB to use a different database path")
		return err
	}
	defer m.Close()

	profiles := sqlite.NewProfileService(m.DB)
	embeddings := sqlite.NewEmbeddingService(m.DB)
	deps.Profiles = profiles

	var client *genai.Client
	if cmd == "ask" || cmd == "reindex" || cmd == "scrape" {
		client, err = m.geminiClient(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return err
		}
		if client == nil && cmd != "scrape" {
			fmt.Fprintln(stderr, "error: GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			return roster.Errorf(roster.EINVALID, "GEMINI_API_KEY not set")
		}
	}
	if client != nil {
		embedder := gemini.NewEmbedder(client, "")
		indexer := &gemini.Indexer{
			Profiles:   profiles,
			Embeddings: embeddings,
			Embedder:   embedder,
			Model:      embedder.Model(),
		}
		deps.Indexer = rosterslog.NewLoggingIndexer(indexer, logger)

		var opts []gemini.AskerOption
		if counter, err := gemini.NewTokenCounter(""); err == nil {
			opts = append(opts, gemini.WithTokenBudget(counter, maxPromptTokens))
		} else {
			logger.Warn("token counting disabled", "err", err)
		}
		deps.Asker = gemini.NewAsker(client, profiles, embeddings, embedder, opts...)
	}

	if cmd == "scrape" || cmd == "links" {
		render := cli.Scrape.Render
		if cmd == "links" {
			render = cli.Links.Render
		}
		scraper, closeFn, err := newScraper(cfg, profiles, deps.Indexer, render, logger)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			if render {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			}
			return err
		}
		defer closeFn()
		deps.Scraper = scraper
	}

	return kongCtx.Run(deps)
}

// maxPromptTokens bounds the profiles sent with a question.
const maxPromptTokens = 30000

func (m *Main) geminiClient(ctx context.Context) (*genai.Client, error) {
	if m.GeminiAPIKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  m.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return client, nil
}

// newScraper wires the scrape pipeline. The returned function releases the
// fetchers.
func newScraper(cfg Config, sink roster.ProfileSink, indexer roster.Indexer, render bool, logger *slog.Logger) (*scrape.Scraper, func(), error) {
	httpFetcher := rosterhttp.NewFetcher(rosterhttp.WithTimeout(cfg.Scrape.FetchTimeout))
	closers := []func() error{httpFetcher.Close}
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	var fetcher roster.Fetcher = httpFetcher
	if render {
		rf, err := rod.NewFetcher(rod.WithFetchTimeout(cfg.Scrape.FetchTimeout))
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		closers = append(closers, rf.Close)
		fetcher = rf
	}
	fetcher = rosterslog.NewLoggingFetcher(fetcher, logger)

	links := goquery.NewLinkDiscoverer(cfg.Heuristics)
	retry := cfg.Scrape.RetryPolicy()
	finder := &scrape.TeamPageFinder{
		Prober:       rosterslog.NewLoggingProber(httpFetcher, logger),
		Fetcher:      fetcher,
		Links:        links,
		Sitemaps:     rosterslog.NewLoggingSitemapService(rosterhttp.NewSitemapService(httpFetcher.Client()), logger),
		Paths:        cfg.Heuristics.TeamPaths,
		Keywords:     cfg.Heuristics.TeamKeywords,
		ProbeTimeout: cfg.Scrape.ProbeTimeout,
		FetchTimeout: cfg.Scrape.FetchTimeout,
		Retry:        &retry,
		Logger:       logger,
	}

	s := &scrape.Scraper{
		Fetcher:      fetcher,
		Discoverer:   rosterslog.NewLoggingTeamPageDiscoverer(finder, logger),
		Links:        links,
		Extractor:    goquery.NewExtractor(cfg.Heuristics, goquery.WithContentExtractor(trafilatura.NewExtractor())),
		Deduplicator: dedupe.New(cfg.Scrape.DedupThreshold, cfg.Scrape.MergeStrategy),
		Sink:         sink,
		Indexer:      indexer,
		Config:       cfg.Scrape,
		Logger:       logger,
	}
	return s, closeAll, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("ROSTER_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "roster.db"
	}
	dir := filepath.Join(home, ".roster")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "roster.db")
}
