// Package usecase contains application use cases.
package usecase

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/runoshun/issue-bot/internal/domain"
)

// CreateIssueInput contains the parameters for a run.
type CreateIssueInput struct {
	Config domain.RunConfig
}

// CreateIssueOutput contains the result of a run.
// Fields are ordered to minimize memory padding.
type CreateIssueOutput struct {
	IssueURL            string   // Web URL of the new issue
	Assignees           []string // Assignees the new issue was created with
	IssueNumber         int      // Number of the new issue
	PreviousIssueNumber int      // Number of the previous issue (0 = none)
}

// CreateIssue is the use case that creates the next issue of a recurring series
// and rotates the previous one out.
type CreateIssue struct {
	tracker  domain.IssueTracker
	renderer domain.BodyRenderer
	logger   domain.Logger
}

// NewCreateIssue creates a new CreateIssue use case.
func NewCreateIssue(tracker domain.IssueTracker, renderer domain.BodyRenderer, logger domain.Logger) *CreateIssue {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &CreateIssue{
		tracker:  tracker,
		renderer: renderer,
		logger:   logger,
	}
}

// Execute runs the issue lifecycle once.
// The first failing step aborts the run; steps already applied on the tracker are kept.
func (uc *CreateIssue) Execute(ctx context.Context, in CreateIssueInput) (*CreateIssueOutput, error) {
	cfg := in.Config

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	milestone, err := cfg.MilestoneNumber()
	if err != nil {
		return nil, err
	}

	// Look up the previous issue only when a feature depends on it
	var previous *domain.PreviousIssue
	if cfg.NeedsPreviousIssue() {
		previous, err = uc.tracker.FindLatestOpenIssue(ctx, cfg.Labels)
		if err != nil {
			return nil, errors.Wrap(err, "find previous issue")
		}
		if previous != nil {
			uc.logger.Debug("found previous issue", "number", previous.Number, "assignee", previous.FirstAssignee())
		} else {
			uc.logger.Debug("no previous issue", "labels", cfg.Labels)
		}
	}

	assignees := cfg.Assignees
	if cfg.RotateAssignees {
		assignees = domain.NextAssignee(cfg.Assignees, previous.FirstAssignee())
		uc.logger.Debug("rotated assignees", "previous", previous.FirstAssignee(), "next", assignees)
	}

	data := domain.BodyData{Assignees: assignees}
	if previous != nil {
		n := previous.Number
		data.PreviousIssueNumber = &n
	}
	body, err := uc.renderer.Render(cfg.Body, data)
	if err != nil {
		return nil, errors.Wrap(err, "render body")
	}

	issue, err := uc.tracker.CreateIssue(ctx, domain.IssueRequest{
		Title:     cfg.Title,
		Body:      body,
		Labels:    cfg.Labels,
		Assignees: assignees,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create issue")
	}
	uc.logger.Info("created issue", "number", issue.Number, "url", issue.URL)

	if err := uc.place(ctx, cfg, issue, milestone); err != nil {
		return nil, err
	}

	out := &CreateIssueOutput{
		IssueURL:    issue.URL,
		Assignees:   assignees,
		IssueNumber: issue.Number,
	}
	if previous == nil {
		return out, nil
	}
	out.PreviousIssueNumber = previous.Number

	if cfg.LinkedComments {
		if err := uc.link(ctx, previous, issue); err != nil {
			return nil, err
		}
	}

	if cfg.ClosePrevious {
		if err := uc.rotate(ctx, previous, issue, cfg.Pinned); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// place adds the new issue to the configured project column and milestone.
func (uc *CreateIssue) place(ctx context.Context, cfg domain.RunConfig, issue *domain.NewIssue, milestone int) error {
	switch {
	case cfg.HasPlacement():
		if err := uc.tracker.AddToProjectColumn(ctx, issue, cfg.Project, cfg.Column); err != nil {
			return errors.Wrapf(err, "add issue #%d to project %q column %q", issue.Number, cfg.Project, cfg.Column)
		}
		uc.logger.Info("added issue to project", "number", issue.Number, "project", cfg.Project, "column", cfg.Column)
	case cfg.Project != "" || cfg.Column != "":
		uc.logger.Warn("project and column must both be set; skipping project placement",
			"project", cfg.Project, "column", cfg.Column)
	}

	if milestone > 0 {
		if err := uc.tracker.SetMilestone(ctx, issue.Number, milestone); err != nil {
			return errors.Wrapf(err, "set milestone %d on issue #%d", milestone, issue.Number)
		}
		uc.logger.Info("set milestone", "number", issue.Number, "milestone", milestone)
	}
	return nil
}

// link posts comments on both issues pointing at each other.
func (uc *CreateIssue) link(ctx context.Context, previous *domain.PreviousIssue, issue *domain.NewIssue) error {
	if err := uc.tracker.AddComment(ctx, issue.Number, fmt.Sprintf("Previous: #%d", previous.Number)); err != nil {
		return errors.Wrapf(err, "comment on issue #%d", issue.Number)
	}
	if err := uc.tracker.AddComment(ctx, previous.Number, fmt.Sprintf("Next: #%d", issue.Number)); err != nil {
		return errors.Wrapf(err, "comment on issue #%d", previous.Number)
	}
	uc.logger.Info("linked issues", "previous", previous.Number, "next", issue.Number)
	return nil
}

// rotate closes the previous issue and, when pinned, moves the pin to the new issue.
func (uc *CreateIssue) rotate(ctx context.Context, previous *domain.PreviousIssue, issue *domain.NewIssue, pinned bool) error {
	uc.logger.Debug("closing previous issue", "number", previous.Number)
	if err := uc.tracker.CloseIssue(ctx, previous.Number); err != nil {
		return errors.Wrapf(err, "close issue #%d", previous.Number)
	}
	uc.logger.Info("closed previous issue", "number", previous.Number)

	if !pinned {
		return nil
	}

	// Unpinning an issue that is not pinned fails, so check first
	isPinned, err := uc.tracker.IsPinned(ctx, previous.NodeID)
	if err != nil {
		return errors.Wrapf(err, "check pin state of issue #%d", previous.Number)
	}
	if isPinned {
		if err := uc.tracker.UnpinIssue(ctx, previous.NodeID); err != nil {
			return errors.Wrapf(err, "unpin issue #%d", previous.Number)
		}
		uc.logger.Info("unpinned previous issue", "number", previous.Number)
	} else {
		uc.logger.Debug("previous issue not pinned; skipping unpin", "number", previous.Number)
	}

	if err := uc.tracker.PinIssue(ctx, issue.NodeID); err != nil {
		return errors.Wrapf(err, "pin issue #%d", issue.Number)
	}
	uc.logger.Info("pinned issue", "number", issue.Number)
	return nil
}
