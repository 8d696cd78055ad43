// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/issue-bot/internal/domain"
)

// MockIssueTracker is a test double for domain.IssueTracker.
// It records every call in Calls, in order, as "Method(args)".
// Fields are ordered to minimize memory padding.
type MockIssueTracker struct {
	Previous  *domain.PreviousIssue
	Created   *domain.NewIssue
	PinnedIDs map[string]bool
	Comments  map[int][]string
	Closed    []int
	Calls     []string
	Requests  []domain.IssueRequest
	// Errors keyed by method name make that method fail.
	Errors         map[string]error
	Milestones     map[int]int
	ProjectColumns map[string][]string // project -> columns
	Cards          map[string][]int    // "project/column" -> issue numbers
	NextNumber     int
}

// NewMockIssueTracker creates a new MockIssueTracker that assigns numbers from next.
func NewMockIssueTracker(next int) *MockIssueTracker {
	return &MockIssueTracker{
		PinnedIDs:      make(map[string]bool),
		Comments:       make(map[int][]string),
		Errors:         make(map[string]error),
		Milestones:     make(map[int]int),
		ProjectColumns: make(map[string][]string),
		Cards:          make(map[string][]int),
		NextNumber:     next,
	}
}

func (m *MockIssueTracker) record(method string, args ...any) error {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	m.Calls = append(m.Calls, method+"("+strings.Join(parts, ", ")+")")
	return m.Errors[method]
}

// CallNames returns the recorded method names without arguments.
func (m *MockIssueTracker) CallNames() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		name, _, _ := strings.Cut(c, "(")
		names = append(names, name)
	}
	return names
}

// FindLatestOpenIssue returns the configured Previous issue.
func (m *MockIssueTracker) FindLatestOpenIssue(_ context.Context, labels []string) (*domain.PreviousIssue, error) {
	if err := m.record("FindLatestOpenIssue", strings.Join(labels, ",")); err != nil {
		return nil, err
	}
	return m.Previous, nil
}

// CreateIssue records the request and returns a new issue numbered NextNumber.
func (m *MockIssueTracker) CreateIssue(_ context.Context, req domain.IssueRequest) (*domain.NewIssue, error) {
	if err := m.record("CreateIssue", req.Title); err != nil {
		return nil, err
	}
	m.Requests = append(m.Requests, req)
	n := m.NextNumber
	m.NextNumber++
	m.Created = &domain.NewIssue{
		Number: n,
		ID:     int64(n) * 1000,
		NodeID: fmt.Sprintf("I_%d", n),
		URL:    fmt.Sprintf("https://github.com/octo-org/weekly/issues/%d", n),
	}
	return m.Created, nil
}

// CloseIssue records the closed issue number.
func (m *MockIssueTracker) CloseIssue(_ context.Context, number int) error {
	if err := m.record("CloseIssue", number); err != nil {
		return err
	}
	m.Closed = append(m.Closed, number)
	return nil
}

// AddComment records the comment.
func (m *MockIssueTracker) AddComment(_ context.Context, number int, body string) error {
	if err := m.record("AddComment", number, body); err != nil {
		return err
	}
	m.Comments[number] = append(m.Comments[number], body)
	return nil
}

// AddToProjectColumn adds a card if the project and column are known.
func (m *MockIssueTracker) AddToProjectColumn(_ context.Context, issue *domain.NewIssue, project, column string) error {
	if err := m.record("AddToProjectColumn", issue.Number, project, column); err != nil {
		return err
	}
	columns, ok := m.ProjectColumns[project]
	if !ok {
		return domain.ErrProjectNotFound
	}
	for _, c := range columns {
		if c == column {
			key := project + "/" + column
			m.Cards[key] = append(m.Cards[key], issue.Number)
			return nil
		}
	}
	return domain.ErrColumnNotFound
}

// SetMilestone records the milestone.
func (m *MockIssueTracker) SetMilestone(_ context.Context, number, milestone int) error {
	if err := m.record("SetMilestone", number, milestone); err != nil {
		return err
	}
	m.Milestones[number] = milestone
	return nil
}

// IsPinned reports whether nodeID is in PinnedIDs.
func (m *MockIssueTracker) IsPinned(_ context.Context, nodeID string) (bool, error) {
	if err := m.record("IsPinned", nodeID); err != nil {
		return false, err
	}
	return m.PinnedIDs[nodeID], nil
}

// PinIssue marks nodeID as pinned.
func (m *MockIssueTracker) PinIssue(_ context.Context, nodeID string) error {
	if err := m.record("PinIssue", nodeID); err != nil {
		return err
	}
	m.PinnedIDs[nodeID] = true
	return nil
}

// UnpinIssue fails like the real tracker when nodeID is not pinned.
func (m *MockIssueTracker) UnpinIssue(_ context.Context, nodeID string) error {
	if err := m.record("UnpinIssue", nodeID); err != nil {
		return err
	}
	if !m.PinnedIDs[nodeID] {
		return fmt.Errorf("issue %s is not pinned", nodeID)
	}
	delete(m.PinnedIDs, nodeID)
	return nil
}

// MockBodyRenderer is a test double for domain.BodyRenderer.
// It returns the template followed by the data it was called with.
type MockBodyRenderer struct {
	Err  error
	Data []domain.BodyData
}

// Render records data and returns a deterministic rendering.
func (m *MockBodyRenderer) Render(template string, data domain.BodyData) (string, error) {
	m.Data = append(m.Data, data)
	if m.Err != nil {
		return "", m.Err
	}
	prev := domain.PreviousIssueSentinel
	if data.PreviousIssueNumber != nil {
		prev = fmt.Sprint(*data.PreviousIssueNumber)
	}
	return fmt.Sprintf("%s [previous=%s assignees=%s]", template, prev, strings.Join(data.Assignees, ",")), nil
}

// MockOutputWriter is a test double for domain.OutputWriter.
type MockOutputWriter struct {
	Outputs   map[string]string
	Summary   []string
	OutputErr error
}

// NewMockOutputWriter creates a new MockOutputWriter.
func NewMockOutputWriter() *MockOutputWriter {
	return &MockOutputWriter{Outputs: make(map[string]string)}
}

// SetOutput records the output.
func (m *MockOutputWriter) SetOutput(name, value string) error {
	if m.OutputErr != nil {
		return m.OutputErr
	}
	m.Outputs[name] = value
	return nil
}

// AppendSummary records the summary.
func (m *MockOutputWriter) AppendSummary(markdown string) error {
	m.Summary = append(m.Summary, markdown)
	return nil
}
