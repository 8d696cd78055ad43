package domain

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// RunConfig holds the inputs of a single issue-bot run.
// Fields are ordered to minimize memory padding.
type RunConfig struct {
	Labels          []string // Labels applied to the new issue and used to find the previous one
	Assignees       []string // Assignees (rotation candidates when RotateAssignees is set)
	Title           string   // Title of the new issue (required)
	Body            string   // Body template rendered with BodyData
	Project         string   // Project number or name (optional, needs Column)
	Column          string   // Project column name (optional, needs Project)
	Milestone       string   // Milestone number (optional)
	Pinned          bool     // Pin the new issue and unpin the previous one
	ClosePrevious   bool     // Close the previous issue
	RotateAssignees bool     // Assign the next person in Assignees after the previous assignee
	LinkedComments  bool     // Comment on both issues pointing at each other
}

// NeedsPreviousIssue reports whether any enabled feature depends on the previous issue.
func (c RunConfig) NeedsPreviousIssue() bool {
	return c.Pinned || c.ClosePrevious || c.RotateAssignees || c.LinkedComments
}

// HasPlacement reports whether both project and column are configured.
func (c RunConfig) HasPlacement() bool {
	return c.Project != "" && c.Column != ""
}

// MilestoneNumber returns the configured milestone number, or 0 if none is set.
func (c RunConfig) MilestoneNumber() (int, error) {
	if c.Milestone == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.Milestone))
	if err != nil || n <= 0 {
		return 0, errors.Wrapf(ErrInvalidMilestone, "got %q", c.Milestone)
	}
	return n, nil
}

// Validate checks the required combinations of inputs.
// It returns nil or a *ValidationError listing every violation.
func (c RunConfig) Validate() error {
	var violations []error

	if strings.TrimSpace(c.Title) == "" {
		violations = append(violations, ErrEmptyTitle)
	}

	noLabels := len(c.Labels) == 0
	if c.Pinned && noLabels {
		violations = append(violations, errors.Wrap(ErrLabelsRequired, "pinned"))
	}
	if c.ClosePrevious && noLabels {
		violations = append(violations, errors.Wrap(ErrLabelsRequired, "close-previous"))
	}
	if c.LinkedComments && noLabels {
		violations = append(violations, errors.Wrap(ErrLabelsRequired, "linked-comments"))
	}
	if c.RotateAssignees {
		if noLabels {
			violations = append(violations, errors.Wrap(ErrLabelsRequired, "rotate-assignees"))
		}
		if len(c.Assignees) == 0 {
			violations = append(violations, errors.Wrap(ErrAssigneesRequired, "rotate-assignees"))
		}
	}

	if _, err := c.MilestoneNumber(); err != nil {
		violations = append(violations, err)
	}

	if len(violations) == 0 {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// ValidationError reports all input constraints a RunConfig failed.
type ValidationError struct {
	Violations []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Error())
	}
	return "invalid inputs: " + strings.Join(msgs, "; ")
}

// Unwrap returns the individual violations so errors.Is matches each sentinel.
func (e *ValidationError) Unwrap() []error {
	return e.Violations
}
