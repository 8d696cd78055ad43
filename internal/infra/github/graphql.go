package github

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/shurcooL/githubv4"
)

// maxPinnedIssues bounds the pinnedIssues query; repositories allow only a few pins.
const maxPinnedIssues = 10

// PinIssueInput is the input of the pinIssue mutation.
type PinIssueInput struct {
	IssueID githubv4.ID `json:"issueId"`
}

// UnpinIssueInput is the input of the unpinIssue mutation.
type UnpinIssueInput struct {
	IssueID githubv4.ID `json:"issueId"`
}

// IsPinned reports whether the issue with nodeID is pinned to the repository.
func (c *Client) IsPinned(ctx context.Context, nodeID string) (bool, error) {
	var q struct {
		Repository struct {
			PinnedIssues struct {
				Nodes []struct {
					Issue struct {
						ID string
					}
				}
			} `graphql:"pinnedIssues(first: $first)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]any{
		"owner": githubv4.String(c.repo.Owner),
		"name":  githubv4.String(c.repo.Name),
		"first": githubv4.Int(maxPinnedIssues),
	}
	if err := c.graphql.Query(ctx, &q, vars); err != nil {
		return false, errors.Wrap(err, "query pinned issues")
	}

	for _, node := range q.Repository.PinnedIssues.Nodes {
		if node.Issue.ID == nodeID {
			return true, nil
		}
	}
	return false, nil
}

// PinIssue pins an issue to the repository.
func (c *Client) PinIssue(ctx context.Context, nodeID string) error {
	var m struct {
		PinIssue struct {
			Issue struct {
				ID string
			}
		} `graphql:"pinIssue(input: $input)"`
	}
	return c.graphql.Mutate(ctx, &m, PinIssueInput{IssueID: githubv4.ID(nodeID)}, nil)
}

// UnpinIssue unpins an issue from the repository.
func (c *Client) UnpinIssue(ctx context.Context, nodeID string) error {
	var m struct {
		UnpinIssue struct {
			Issue struct {
				ID string
			}
		} `graphql:"unpinIssue(input: $input)"`
	}
	return c.graphql.Mutate(ctx, &m, UnpinIssueInput{IssueID: githubv4.ID(nodeID)}, nil)
}

// issueNodeID fetches the GraphQL node ID of an issue by number.
func (c *Client) issueNodeID(ctx context.Context, number int) (string, error) {
	var q struct {
		Repository struct {
			Issue struct {
				ID string
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]any{
		"owner":  githubv4.String(c.repo.Owner),
		"name":   githubv4.String(c.repo.Name),
		"number": githubv4.Int(number),
	}
	if err := c.graphql.Query(ctx, &q, vars); err != nil {
		return "", err
	}
	return q.Repository.Issue.ID, nil
}
