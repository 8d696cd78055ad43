package domain

import "context"

// IssueTracker is the remote issue tracker the run operates on.
// All methods are blocking round trips.
type IssueTracker interface {
	// FindLatestOpenIssue returns the most recent open issue carrying every label.
	// Returns nil if no issue matches.
	FindLatestOpenIssue(ctx context.Context, labels []string) (*PreviousIssue, error)

	// CreateIssue creates a new issue.
	CreateIssue(ctx context.Context, req IssueRequest) (*NewIssue, error)

	// CloseIssue closes an issue by number.
	CloseIssue(ctx context.Context, number int) error

	// AddComment posts a comment on an issue.
	AddComment(ctx context.Context, number int, body string) error

	// AddToProjectColumn adds the issue to the named column of a project.
	// Returns ErrProjectNotFound or ErrColumnNotFound if either does not exist.
	AddToProjectColumn(ctx context.Context, issue *NewIssue, project, column string) error

	// SetMilestone attaches an issue to a milestone.
	SetMilestone(ctx context.Context, number, milestone int) error

	// IsPinned checks whether the issue is pinned to the repository.
	IsPinned(ctx context.Context, nodeID string) (bool, error)

	// PinIssue pins an issue.
	PinIssue(ctx context.Context, nodeID string) error

	// UnpinIssue unpins an issue.
	UnpinIssue(ctx context.Context, nodeID string) error
}

// BodyRenderer renders the issue body template.
type BodyRenderer interface {
	Render(template string, data BodyData) (string, error)
}

// Logger provides leveled structured logging.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
}

// OutputWriter publishes run results to the invoking process.
type OutputWriter interface {
	// SetOutput records a named output value.
	SetOutput(name, value string) error

	// AppendSummary appends markdown to the run summary.
	AppendSummary(markdown string) error
}

// NopLogger discards all log entries.
type NopLogger struct{}

// Debug implements Logger.
func (NopLogger) Debug(string, ...any) {}

// Info implements Logger.
func (NopLogger) Info(string, ...any) {}

// Warn implements Logger.
func (NopLogger) Warn(string, ...any) {}

// Error implements Logger.
func (NopLogger) Error(string, ...any) {}
