package main

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/bioflow/internal/api"
	"github.com/desertthunder/bioflow/internal/history"
	"github.com/desertthunder/bioflow/internal/session"
	"github.com/desertthunder/bioflow/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	session    *session.Session
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Session    *session.Session
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: time.Duration(opts.Config.API.TimeoutSeconds) * time.Second,
		}
	}

	return &Runner{
		config:     opts.Config,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

// SetLogger swaps the Runner's logger, used when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, configCommand, analyzeCommand, jobsCommand, healthCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// apiBase resolves the effective API base address. Precedence: session
// override saved with `config set-api`, then the config file's base_url,
// then the session's build-time/built-in defaults.
func (r *Runner) apiBase() string {
	if base := r.session.StoredAPIBase(); base != "" {
		return base
	}
	if r.config.API.BaseURL != "" {
		return r.config.API.BaseURL
	}
	return r.session.APIBase()
}

// client builds an API client from the effective base address and the
// session's token. The session is read fresh on every operation, so a login
// in one invocation is visible to the next without restarting anything.
func (r *Runner) client() *api.Client {
	return api.NewClient(r.apiBase(), r.session.Token(), r.httpClient)
}

// openHistory opens the local history database, running migrations.
// The returned closer must be called when done.
func (r *Runner) openHistory() (*history.Store, func(), error) {
	path, err := shared.ExpandHome(r.config.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}

	return history.NewStore(db), func() { db.Close() }, nil
}

// confirm asks a yes/no question on the runner's input. Anything other than
// "y"/"yes" declines.
func (r *Runner) confirm(format string, args ...any) bool {
	r.writePlain(format+" [y/N] ", args...)

	scanner := bufio.NewScanner(r.input)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
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
	return r.writePlain(format+"\n", args...)
}
