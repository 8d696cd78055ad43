package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/runoshun/issue-bot/internal/domain"
	"github.com/runoshun/issue-bot/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCreateIssue(tracker *testutil.MockIssueTracker) (*CreateIssue, *testutil.MockBodyRenderer) {
	renderer := &testutil.MockBodyRenderer{}
	return NewCreateIssue(tracker, renderer, nil), renderer
}

func TestCreateIssue_Execute_NoPreviousIssue(t *testing.T) {
	// Setup
	tracker := testutil.NewMockIssueTracker(7)
	uc, renderer := newTestCreateIssue(tracker)

	// Execute
	out, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:     "Weekly Sync",
		Body:      "Agenda",
		Labels:    []string{"sync"},
		Assignees: []string{"alice", "bob"},
	}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, out.IssueNumber)
	assert.Equal(t, 0, out.PreviousIssueNumber)
	assert.Equal(t, []string{"CreateIssue"}, tracker.CallNames())

	require.Len(t, tracker.Requests, 1)
	req := tracker.Requests[0]
	assert.Equal(t, "Weekly Sync", req.Title)
	assert.Equal(t, []string{"sync"}, req.Labels)
	assert.Equal(t, []string{"alice", "bob"}, req.Assignees)
	assert.Equal(t, "Agenda [previous=unknown assignees=alice,bob]", req.Body)

	require.Len(t, renderer.Data, 1)
	assert.Nil(t, renderer.Data[0].PreviousIssueNumber)
}

func TestCreateIssue_Execute_InvalidConfigMakesNoCalls(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.RunConfig
		want error
	}{
		{"empty title", domain.RunConfig{Labels: []string{"sync"}}, domain.ErrEmptyTitle},
		{"pinned without labels", domain.RunConfig{Title: "t", Pinned: true}, domain.ErrLabelsRequired},
		{"rotate without assignees", domain.RunConfig{Title: "t", Labels: []string{"a"}, RotateAssignees: true}, domain.ErrAssigneesRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := testutil.NewMockIssueTracker(1)
			uc, _ := newTestCreateIssue(tracker)

			_, err := uc.Execute(context.Background(), CreateIssueInput{Config: tt.cfg})

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, tracker.Calls)
		})
	}
}

func TestCreateIssue_Execute_LooksUpPreviousOnlyWhenNeeded(t *testing.T) {
	flags := map[string]func(*domain.RunConfig){
		"pinned":           func(c *domain.RunConfig) { c.Pinned = true },
		"close-previous":   func(c *domain.RunConfig) { c.ClosePrevious = true },
		"rotate-assignees": func(c *domain.RunConfig) { c.RotateAssignees = true },
		"linked-comments":  func(c *domain.RunConfig) { c.LinkedComments = true },
	}

	for name, set := range flags {
		t.Run(name, func(t *testing.T) {
			tracker := testutil.NewMockIssueTracker(1)
			uc, _ := newTestCreateIssue(tracker)
			cfg := domain.RunConfig{Title: "t", Labels: []string{"sync"}, Assignees: []string{"alice"}}
			set(&cfg)

			_, err := uc.Execute(context.Background(), CreateIssueInput{Config: cfg})

			require.NoError(t, err)
			assert.Equal(t, "FindLatestOpenIssue", tracker.CallNames()[0])
		})
	}
}

func TestCreateIssue_Execute_RotatesAssignee(t *testing.T) {
	// Setup: previous issue #42 assigned to alice
	tracker := testutil.NewMockIssueTracker(43)
	tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42", Assignees: []string{"alice"}}
	uc, renderer := newTestCreateIssue(tracker)

	// Execute
	out, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:           "Weekly Sync",
		Body:            "Host: {{assignees}}",
		Labels:          []string{"sync"},
		Assignees:       []string{"alice", "bob"},
		RotateAssignees: true,
	}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 43, out.IssueNumber)
	assert.Equal(t, 42, out.PreviousIssueNumber)
	assert.Equal(t, []string{"bob"}, out.Assignees)
	require.Len(t, tracker.Requests, 1)
	assert.Equal(t, []string{"bob"}, tracker.Requests[0].Assignees)

	require.Len(t, renderer.Data, 1)
	require.NotNil(t, renderer.Data[0].PreviousIssueNumber)
	assert.Equal(t, 42, *renderer.Data[0].PreviousIssueNumber)
	assert.Equal(t, []string{"bob"}, renderer.Data[0].Assignees)

	// Neither linking nor closing was requested
	assert.Equal(t, []string{"FindLatestOpenIssue", "CreateIssue"}, tracker.CallNames())
}

func TestCreateIssue_Execute_RotatesToFirstWithoutPreviousIssue(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(1)
	uc, _ := newTestCreateIssue(tracker)

	out, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:           "t",
		Labels:          []string{"sync"},
		Assignees:       []string{"A", "B", "C"},
		RotateAssignees: true,
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, out.Assignees)
}

func TestCreateIssue_Execute_SkipsLinkAndCloseWithoutPreviousIssue(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(1)
	uc, _ := newTestCreateIssue(tracker)

	out, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:          "t",
		Labels:         []string{"sync"},
		LinkedComments: true,
		ClosePrevious:  true,
		Pinned:         true,
	}})

	require.NoError(t, err)
	assert.Equal(t, 1, out.IssueNumber)
	assert.Equal(t, []string{"FindLatestOpenIssue", "CreateIssue"}, tracker.CallNames())
	assert.Empty(t, tracker.Comments)
	assert.Empty(t, tracker.Closed)
	assert.Empty(t, tracker.PinnedIDs)
}

func TestCreateIssue_Execute_LinkedComments(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(11)
	tracker.Previous = &domain.PreviousIssue{Number: 10, NodeID: "I_10"}
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:          "t",
		Labels:         []string{"sync"},
		LinkedComments: true,
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Previous: #10"}, tracker.Comments[11])
	assert.Equal(t, []string{"Next: #11"}, tracker.Comments[10])
	assert.Empty(t, tracker.Closed)
}

func TestCreateIssue_Execute_ClosePreviousAndPinWhenPreviousNotPinned(t *testing.T) {
	// Setup
	tracker := testutil.NewMockIssueTracker(43)
	tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42"}
	uc, _ := newTestCreateIssue(tracker)

	// Execute
	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:         "t",
		Labels:        []string{"sync"},
		ClosePrevious: true,
		Pinned:        true,
	}})

	// Assert: closed, unpin skipped, new issue pinned
	require.NoError(t, err)
	assert.Equal(t, []int{42}, tracker.Closed)
	assert.Equal(t, []string{
		"FindLatestOpenIssue",
		"CreateIssue",
		"CloseIssue",
		"IsPinned",
		"PinIssue",
	}, tracker.CallNames())
	assert.NotContains(t, tracker.CallNames(), "UnpinIssue")
	assert.True(t, tracker.PinnedIDs["I_43"])
}

func TestCreateIssue_Execute_MovesPinFromPreviousIssue(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(43)
	tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42"}
	tracker.PinnedIDs["I_42"] = true
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:         "t",
		Labels:        []string{"sync"},
		ClosePrevious: true,
		Pinned:        true,
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"IsPinned(I_42)", "UnpinIssue(I_42)", "PinIssue(I_43)"}, tracker.Calls[3:])
	assert.False(t, tracker.PinnedIDs["I_42"])
	assert.True(t, tracker.PinnedIDs["I_43"])
}

func TestCreateIssue_Execute_ClosePreviousWithoutPin(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(43)
	tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42"}
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:         "t",
		Labels:        []string{"sync"},
		ClosePrevious: true,
	}})

	require.NoError(t, err)
	assert.Equal(t, []int{42}, tracker.Closed)
	assert.NotContains(t, tracker.CallNames(), "IsPinned")
	assert.NotContains(t, tracker.CallNames(), "PinIssue")
}

func TestCreateIssue_Execute_PinnedWithoutClosePreviousDoesNotPin(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(43)
	tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42"}
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:  "t",
		Labels: []string{"sync"},
		Pinned: true,
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"FindLatestOpenIssue", "CreateIssue"}, tracker.CallNames())
}

func TestCreateIssue_Execute_ProjectColumnAndMilestone(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(5)
	tracker.ProjectColumns["Planning"] = []string{"To do", "Done"}
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:     "t",
		Project:   "Planning",
		Column:    "To do",
		Milestone: "3",
	}})

	require.NoError(t, err)
	assert.Equal(t, []int{5}, tracker.Cards["Planning/To do"])
	assert.Equal(t, 3, tracker.Milestones[5])
	assert.Equal(t, []string{"CreateIssue", "AddToProjectColumn", "SetMilestone"}, tracker.CallNames())
}

func TestCreateIssue_Execute_MissingColumnFails(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(5)
	tracker.ProjectColumns["Planning"] = []string{"Done"}
	tracker.Previous = &domain.PreviousIssue{Number: 4, NodeID: "I_4"}
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:         "t",
		Labels:        []string{"sync"},
		Project:       "Planning",
		Column:        "To do",
		ClosePrevious: true,
	}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
	assert.Contains(t, err.Error(), `column "To do"`)
	// The issue stays created; later steps do not run
	assert.Len(t, tracker.Requests, 1)
	assert.Empty(t, tracker.Closed)
}

func TestCreateIssue_Execute_ProjectWithoutColumnIsSkipped(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(5)
	uc, _ := newTestCreateIssue(tracker)

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
		Title:   "t",
		Project: "Planning",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"CreateIssue"}, tracker.CallNames())
}

func TestCreateIssue_Execute_ErrorsAbortRun(t *testing.T) {
	errBoom := errors.New("boom")

	tests := []struct {
		method  string
		wantMsg string
		after   []string // calls that must not happen
	}{
		{"FindLatestOpenIssue", "find previous issue: boom", []string{"CreateIssue"}},
		{"CreateIssue", "create issue: boom", []string{"AddComment", "CloseIssue"}},
		{"AddComment", "comment on issue #43: boom", []string{"CloseIssue"}},
		{"CloseIssue", "close issue #42: boom", []string{"IsPinned", "PinIssue"}},
		{"IsPinned", "check pin state of issue #42: boom", []string{"PinIssue"}},
		{"PinIssue", "pin issue #43: boom", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			tracker := testutil.NewMockIssueTracker(43)
			tracker.Previous = &domain.PreviousIssue{Number: 42, NodeID: "I_42"}
			tracker.Errors[tt.method] = errBoom
			uc, _ := newTestCreateIssue(tracker)

			out, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{
				Title:          "t",
				Labels:         []string{"sync"},
				LinkedComments: true,
				ClosePrevious:  true,
				Pinned:         true,
			}})

			require.Error(t, err)
			assert.Nil(t, out)
			assert.ErrorIs(t, err, errBoom)
			assert.Equal(t, tt.wantMsg, err.Error())
			for _, m := range tt.after {
				assert.NotContains(t, tracker.CallNames(), m)
			}
		})
	}
}

func TestCreateIssue_Execute_RenderError(t *testing.T) {
	tracker := testutil.NewMockIssueTracker(1)
	renderer := &testutil.MockBodyRenderer{Err: errors.New("bad template")}
	uc := NewCreateIssue(tracker, renderer, domain.NopLogger{})

	_, err := uc.Execute(context.Background(), CreateIssueInput{Config: domain.RunConfig{Title: "t"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "render body")
	assert.Empty(t, tracker.Calls)
}
