package domain

// PreviousIssue is the most recent open issue carrying the configured labels.
// Fields are ordered to minimize memory padding.
type PreviousIssue struct {
	NodeID    string   // Opaque GraphQL node ID
	Assignees []string // Assignee logins in tracker order
	Number    int
}

// FirstAssignee returns the login of the first assignee, or "" if unassigned.
func (p *PreviousIssue) FirstAssignee() string {
	if p == nil || len(p.Assignees) == 0 {
		return ""
	}
	return p.Assignees[0]
}

// NewIssue is an issue created by the run.
type NewIssue struct {
	NodeID string // Opaque GraphQL node ID
	URL    string // Web URL
	ID     int64  // REST ID (project cards reference it)
	Number int
}

// IssueRequest describes the issue to create.
type IssueRequest struct {
	Title     string
	Body      string
	Labels    []string
	Assignees []string
}

// NextAssignee returns the single assignee following previous in assignees, cyclically.
// If previous is empty or not in the list, the first entry is chosen.
func NextAssignee(assignees []string, previous string) []string {
	if len(assignees) == 0 {
		return nil
	}
	index := 0
	for i, a := range assignees {
		if previous != "" && a == previous {
			index = (i + 1) % len(assignees)
			break
		}
	}
	return []string{assignees[index]}
}

// PreviousIssueSentinel is rendered in place of the previous issue number when there is none.
const PreviousIssueSentinel = "unknown"

// BodyData holds the values available to the issue body template.
type BodyData struct {
	PreviousIssueNumber *int // nil when there is no previous issue
	Assignees           []string
}
