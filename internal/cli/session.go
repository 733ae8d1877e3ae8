package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/thenoetrevino/labelschema/internal/config"
	"github.com/thenoetrevino/labelschema/internal/database"
	"github.com/thenoetrevino/labelschema/internal/loader"
	"github.com/thenoetrevino/labelschema/internal/logging"
	"github.com/thenoetrevino/labelschema/internal/schema"
	"github.com/thenoetrevino/labelschema/internal/transport"
	"github.com/thenoetrevino/labelschema/internal/updater"
)

var errNoUpdateURL = errors.New("no update URL configured")

const noUpdateURLHint = "Pass --update-url, set LABELSCHEMA_UPDATE_URL, or load the schema from its hosting page"

// sessionOptions controls how a schema is opened
type sessionOptions struct {
	// sync builds an updater; it requires an update URL
	sync bool
	// resume prefers the saved draft over the source contents
	resume bool
}

// session is an opened schema: its source, the document being edited, the
// local store and, when syncing, the updater.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	repo    *database.Repository
	src     *loader.Source
	key     string
	doc     *schema.Document
	updater *updater.Updater

	mu      sync.Mutex
	results []updater.Result
}

// openSession loads location and prepares it for editing.
func openSession(ctx context.Context, location string, opts sessionOptions) (*session, error) {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		key:    draftKey(location),
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	src, err := loader.Load(ctx, httpClient, location)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.src = src

	state := src.State
	if opts.resume {
		draft, err := repo.LoadDraft(ctx, s.key)
		switch {
		case err == nil:
			logger.Info("resuming draft", "key", s.key, "savedAt", draft.SavedAt)
			state = draft.State
		case errors.Is(err, database.ErrDraftNotFound):
			logger.Debug("no draft to resume", "key", s.key)
		default:
			s.Close()
			return nil, err
		}
	}
	s.doc = schema.FromState(state)

	if opts.sync {
		if err := s.startUpdater(); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

func openRepository(ctx context.Context, cfg *config.Config) (*database.Repository, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := database.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := database.InitDB(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return database.NewRepository(db), nil
}

// draftKey identifies a schema in the local store: the absolute path of a
// file or the URL of a page.
func draftKey(location string) string {
	if loader.IsRemote(location) {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}

// updateURL is the configured endpoint, falling back to the one the
// hosting page advertised.
func (s *session) updateURL() string {
	if s.cfg.UpdateURL != "" {
		return s.cfg.UpdateURL
	}
	if s.src != nil {
		return s.src.UpdateURL
	}
	return ""
}

func (s *session) startUpdater() error {
	url := s.updateURL()
	if url == "" {
		return &CodedError{Code: ExitUsage, Err: errNoUpdateURL, Hint: noUpdateURLHint}
	}

	opts := []transport.Option{
		transport.WithTimeout(s.cfg.RequestTimeout),
		transport.WithLogger(s.logger),
	}
	if s.cfg.CSRFToken != "" {
		opts = append(opts, transport.WithCSRFToken(s.cfg.CSRFToken))
	}

	client, err := transport.NewClient(url, opts...)
	if err != nil {
		return &CodedError{Code: ExitUsage, Err: err}
	}

	s.updater = updater.New(s.doc, client,
		updater.WithDelay(s.cfg.Debounce),
		updater.WithRetry(s.cfg.MaxRetries, s.cfg.RetryDelay),
		updater.WithStore(s.repo, s.key),
		updater.WithLogger(s.logger),
	)
	s.updater.OnResult(s.collect)
	return nil
}

func (s *session) collect(r updater.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

// takeResults returns the results collected since the last call
func (s *session) takeResults() []updater.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.results
	s.results = nil
	return out
}

// sync sends pending edits now and returns the joined failures together
// with how many ids the server remapped.
func (s *session) sync() (int, error) {
	if s.updater == nil {
		return 0, nil
	}
	s.updater.Flush()
	return summarize(s.takeResults())
}

// push sends both subtrees regardless of pending edits
func (s *session) push(ctx context.Context) (int, error) {
	if s.updater == nil {
		return 0, nil
	}
	err := s.updater.Push(ctx)
	remapped, _ := summarize(s.takeResults())
	return remapped, err
}

func summarize(results []updater.Result) (int, error) {
	remapped := 0
	var errs []error
	for _, r := range results {
		remapped += r.Remapped
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return remapped, errors.Join(errs...)
}

// save writes the document back to a local JSON or YAML source and stores
// it as the draft. Pages and remote sources only get the draft.
func (s *session) save(ctx context.Context) error {
	state := s.doc.State()

	if err := s.repo.SaveDraft(ctx, s.key, state); err != nil {
		s.logger.Warn("failed to save draft", "key", s.key, "error", err)
	}

	if !s.writable() {
		return nil
	}
	if err := loader.Save(s.src.Origin, state); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.src.Origin, err)
	}
	s.logger.Debug("schema written", "path", s.src.Origin)
	return nil
}

// writable reports whether the source is a local file save can rewrite
func (s *session) writable() bool {
	if s.src == nil || loader.IsRemote(s.src.Origin) {
		return false
	}
	return s.src.Format == loader.FormatJSON || s.src.Format == loader.FormatYAML
}

// Close stops the updater and closes the store
func (s *session) Close() {
	if s.updater != nil {
		s.updater.Close()
	}
	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			s.logger.Warn("failed to close database", "error", err)
		}
	}
}
