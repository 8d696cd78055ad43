package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/issue-bot/internal/domain"
)

// ValidateInputsInput contains the input for the ValidateInputs use case.
type ValidateInputsInput struct {
	Config domain.RunConfig
}

// ValidateInputsOutput contains the output of the ValidateInputs use case.
type ValidateInputsOutput struct {
	Steps []string // Human-readable plan of what a run would do
}

// ValidateInputs checks a RunConfig and describes the run it would perform
// without calling the tracker.
type ValidateInputs struct{}

// NewValidateInputs creates a new ValidateInputs use case.
func NewValidateInputs() *ValidateInputs {
	return &ValidateInputs{}
}

// Execute validates the config and builds the plan.
func (uc *ValidateInputs) Execute(_ context.Context, in ValidateInputsInput) (*ValidateInputsOutput, error) {
	cfg := in.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	milestone, err := cfg.MilestoneNumber()
	if err != nil {
		return nil, err
	}

	var steps []string
	if cfg.NeedsPreviousIssue() {
		steps = append(steps, fmt.Sprintf("find latest open issue labeled %s", strings.Join(cfg.Labels, ", ")))
	}
	if cfg.RotateAssignees {
		steps = append(steps, fmt.Sprintf("rotate assignees among %s", strings.Join(cfg.Assignees, ", ")))
	}
	steps = append(steps, fmt.Sprintf("create issue %q", cfg.Title))
	switch {
	case cfg.HasPlacement():
		steps = append(steps, fmt.Sprintf("add to project %q column %q", cfg.Project, cfg.Column))
	case cfg.Project != "" || cfg.Column != "":
		steps = append(steps, "skip project placement (project and column must both be set)")
	}
	if milestone > 0 {
		steps = append(steps, fmt.Sprintf("attach milestone %d", milestone))
	}
	if cfg.LinkedComments {
		steps = append(steps, "comment on new and previous issue")
	}
	if cfg.ClosePrevious {
		steps = append(steps, "close previous issue")
		if cfg.Pinned {
			steps = append(steps, "move pin from previous issue to new issue")
		}
	}

	return &ValidateInputsOutput{Steps: steps}, nil
}
