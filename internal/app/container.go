// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/runoshun/issue-bot/internal/domain"
	"github.com/runoshun/issue-bot/internal/infra/actions"
	"github.com/runoshun/issue-bot/internal/infra/git"
	"github.com/runoshun/issue-bot/internal/infra/github"
	"github.com/runoshun/issue-bot/internal/infra/logging"
	"github.com/runoshun/issue-bot/internal/infra/template"
	"github.com/runoshun/issue-bot/internal/usecase"
)

// Config holds the operational settings of a run.
// Fields are ordered to minimize memory padding.
type Config struct {
	Stdout     io.Writer // Destination for outputs when no output file is set
	Stderr     io.Writer // Destination for log output
	Token      string    // API token
	Repository string    // owner/name; detected from the origin remote when empty
	APIURL     string    // REST base URL override
	GraphQLURL string    // GraphQL endpoint override
	LogLevel   string    // debug, info, warn or error
	WorkDir    string    // Directory used to detect the repository
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Tracker  domain.IssueTracker
	Renderer domain.BodyRenderer
	Logger   domain.Logger
	Outputs  domain.OutputWriter

	// Configuration
	Repository domain.Repository
	Config     Config
}

// New creates a new Container talking to the configured repository.
func New(ctx context.Context, cfg Config) (*Container, error) {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}

	repo, err := ResolveRepository(cfg)
	if err != nil {
		return nil, err
	}

	tracker, err := github.NewClient(ctx, github.Options{
		Repository: repo,
		Token:      cfg.Token,
		APIURL:     cfg.APIURL,
		GraphQLURL: cfg.GraphQLURL,
	})
	if err != nil {
		return nil, err
	}

	return &Container{
		Tracker:    tracker,
		Renderer:   template.NewRenderer(),
		Logger:     logging.New(cfg.Stderr, logging.ParseLevel(cfg.LogLevel)),
		Outputs:    actions.NewWriterFromEnv(cfg.Stdout),
		Repository: repo,
		Config:     cfg,
	}, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, tracker domain.IssueTracker, renderer domain.BodyRenderer, logger domain.Logger, outputs domain.OutputWriter) *Container {
	return &Container{
		Tracker:  tracker,
		Renderer: renderer,
		Logger:   logger,
		Outputs:  outputs,
		Config:   cfg,
	}
}

// ResolveRepository returns the configured repository, falling back to the
// origin remote of the working directory.
func ResolveRepository(cfg Config) (domain.Repository, error) {
	if cfg.Repository != "" {
		return domain.ParseRepository(cfg.Repository)
	}

	dir := cfg.WorkDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return domain.Repository{}, errors.Wrap(err, "get working directory")
		}
		dir = wd
	}
	return git.DetectRepository(dir)
}

// UseCase factory methods

// CreateIssueUseCase returns a new CreateIssue use case.
func (c *Container) CreateIssueUseCase() *usecase.CreateIssue {
	return usecase.NewCreateIssue(c.Tracker, c.Renderer, c.Logger)
}
