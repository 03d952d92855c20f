package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytplay/internal/player"
	"github.com/desertthunder/ytplay/internal/repositories"
	"github.com/desertthunder/ytplay/internal/services"
	"github.com/desertthunder/ytplay/internal/shared"
	"github.com/desertthunder/ytplay/internal/state"
	"github.com/desertthunder/ytplay/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer

	db       *sql.DB
	source   tasks.TrackSource
	notifier services.Notifier
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Source and Notifier default to a [services.TracksService] built from the API config; DB defaults
// to the configured SQLite database, opened on first use.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
	Source     tasks.TrackSource
	Notifier   services.Notifier
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
		source:     opts.Source,
		notifier:   opts.Notifier,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tracksCommand, playCommand, stateCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by commands and the services built after the call.
func (r *Runner) SetLogger(l *log.Logger) {
	l.SetLevel(r.logger.GetLevel())
	r.logger = l
}

// Close releases the database opened by the runner.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// configure loads the file named by the --config flag when it differs from the loaded one.
// A missing file keeps the current configuration.
func (r *Runner) configure(cmd *cli.Command) error {
	path := cmd.String("config")
	if path == "" || path == r.configPath {
		return nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		r.logger.Debug("config file not found, keeping current config", "path", path)
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	r.config = config
	r.configPath = path
	r.logger.SetLevel(config.LogLevel())
	return nil
}

// database opens the configured database and applies migrations on first use.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
	}
	r.db = db
	return db, nil
}

// api returns the track source and play notifier, building the HTTP service when either is unset.
func (r *Runner) api() (tasks.TrackSource, services.Notifier) {
	if r.source != nil && r.notifier != nil {
		return r.source, r.notifier
	}

	svc := services.NewTracksService(r.config.API, r.logger)
	if r.source == nil {
		r.source = svc
	}
	if r.notifier == nil {
		r.notifier = svc
	}
	return r.source, r.notifier
}

// stateStore returns the persisted player namespace backed by the database.
func (r *Runner) stateStore() (*state.Store, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	return state.New(repositories.NewStateRepository(db), r.config.Player.StatePrefix, r.logger), nil
}

// feeds wires the feed engine to the API and the track cache.
func (r *Runner) feeds() (*tasks.FeedEngine, *repositories.TrackRepository, error) {
	db, err := r.database()
	if err != nil {
		return nil, nil, err
	}

	repo := repositories.NewTrackRepository(db)
	source, _ := r.api()
	engine := tasks.NewFeedEngine(source, repositories.NewTrackCacheAdapter(repo), repo.Tracks, r.logger)
	return engine, repo, nil
}

// playerOptions assembles controller options shared by the headless player and the TUI.
func (r *Runner) playerOptions(resource player.Resource, view player.View) (player.Options, error) {
	store, err := r.stateStore()
	if err != nil {
		return player.Options{}, err
	}

	_, notifier := r.api()
	repo := repositories.NewTrackRepository(r.db)

	opts := player.ConfigOptions(r.config.Player)
	opts.Resource = resource
	opts.View = view
	opts.Store = store
	opts.Notifier = services.NewPlayCounter(notifier, repo, r.logger)
	opts.Logger = r.logger
	return opts, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
