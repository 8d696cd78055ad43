// Package github implements domain.IssueTracker on the GitHub REST and GraphQL APIs.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-github/v59/github"
	"github.com/runoshun/issue-bot/internal/domain"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Ensure Client implements domain.IssueTracker.
var _ domain.IssueTracker = (*Client)(nil)

const (
	defaultPerPage = 100
	contentIssue   = "Issue"
)

// Options configures a Client.
// Fields are ordered to minimize memory padding.
type Options struct {
	HTTPClient *http.Client      // Overrides the token transport when set
	Repository domain.Repository // Repository all calls operate on
	Token      string            // API token
	APIURL     string            // REST base URL (default: https://api.github.com/)
	GraphQLURL string            // GraphQL endpoint (default: derived from APIURL)
}

// Client talks to one GitHub repository.
// REST covers issues, comments and projects; pinning is only available over GraphQL.
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	repo    domain.Repository
}

// NewClient creates a new Client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.Token == "" {
			return nil, domain.ErrNoToken
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}))
	}

	rest := github.NewClient(httpClient)
	if opts.APIURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, errors.Wrapf(err, "parse api url %q", opts.APIURL)
		}
		rest.BaseURL = baseURL
	}

	graphqlURL := resolveGraphQLURL(opts.APIURL, opts.GraphQLURL)
	var gql *githubv4.Client
	if graphqlURL == "" {
		gql = githubv4.NewClient(httpClient)
	} else {
		gql = githubv4.NewEnterpriseClient(graphqlURL, httpClient)
	}

	return &Client{
		rest:    rest,
		graphql: gql,
		repo:    opts.Repository,
	}, nil
}

// resolveGraphQLURL returns the GraphQL endpoint, or "" for github.com.
// GitHub Enterprise serves REST at /api/v3 and GraphQL at /api/graphql.
func resolveGraphQLURL(apiURL, graphqlURL string) string {
	if graphqlURL != "" {
		return graphqlURL
	}
	apiURL = strings.TrimSuffix(apiURL, "/")
	if apiURL == "" || apiURL == "https://api.github.com" {
		return ""
	}
	if strings.HasSuffix(apiURL, "/api/v3") {
		return strings.TrimSuffix(apiURL, "/v3") + "/graphql"
	}
	return apiURL + "/graphql"
}

// FindLatestOpenIssue returns the open issue with the highest number carrying every label.
// Pull requests are skipped.
func (c *Client) FindLatestOpenIssue(ctx context.Context, labels []string) (*domain.PreviousIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Labels:      labels,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: defaultPerPage},
	}

	for {
		issues, resp, err := c.rest.Issues.ListByRepo(ctx, c.repo.Owner, c.repo.Name, opts)
		if err != nil {
			return nil, errors.Wrap(err, "list issues")
		}

		var latest *github.Issue
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			if latest == nil || issue.GetNumber() > latest.GetNumber() {
				latest = issue
			}
		}
		if latest != nil {
			return toPreviousIssue(latest), nil
		}

		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

func toPreviousIssue(issue *github.Issue) *domain.PreviousIssue {
	assignees := make([]string, 0, len(issue.Assignees))
	for _, u := range issue.Assignees {
		assignees = append(assignees, u.GetLogin())
	}
	return &domain.PreviousIssue{
		Number:    issue.GetNumber(),
		NodeID:    issue.GetNodeID(),
		Assignees: assignees,
	}
}

// CreateIssue creates an issue and returns its identifiers.
func (c *Client) CreateIssue(ctx context.Context, req domain.IssueRequest) (*domain.NewIssue, error) {
	request := &github.IssueRequest{
		Title: github.String(req.Title),
		Body:  github.String(req.Body),
	}
	if len(req.Labels) > 0 {
		labels := req.Labels
		request.Labels = &labels
	}
	if len(req.Assignees) > 0 {
		assignees := req.Assignees
		request.Assignees = &assignees
	}

	issue, _, err := c.rest.Issues.Create(ctx, c.repo.Owner, c.repo.Name, request)
	if err != nil {
		return nil, err
	}

	created := &domain.NewIssue{
		Number: issue.GetNumber(),
		ID:     issue.GetID(),
		NodeID: issue.GetNodeID(),
		URL:    issue.GetHTMLURL(),
	}
	if created.NodeID == "" {
		nodeID, err := c.issueNodeID(ctx, created.Number)
		if err != nil {
			return nil, errors.Wrapf(err, "fetch node id of issue #%d", created.Number)
		}
		created.NodeID = nodeID
	}
	return created, nil
}

// CloseIssue closes an issue.
func (c *Client) CloseIssue(ctx context.Context, number int) error {
	_, _, err := c.rest.Issues.Edit(ctx, c.repo.Owner, c.repo.Name, number, &github.IssueRequest{
		State: github.String("closed"),
	})
	return err
}

// SetMilestone attaches an issue to a milestone.
func (c *Client) SetMilestone(ctx context.Context, number, milestone int) error {
	_, _, err := c.rest.Issues.Edit(ctx, c.repo.Owner, c.repo.Name, number, &github.IssueRequest{
		Milestone: github.Int(milestone),
	})
	return err
}

// AddComment posts a comment on an issue.
func (c *Client) AddComment(ctx context.Context, number int, body string) error {
	_, _, err := c.rest.Issues.CreateComment(ctx, c.repo.Owner, c.repo.Name, number, &github.IssueComment{
		Body: github.String(body),
	})
	return err
}

// AddToProjectColumn adds the issue as a card to a column of a repository project.
// project is matched against the project number first, then its name.
func (c *Client) AddToProjectColumn(ctx context.Context, issue *domain.NewIssue, project, column string) error {
	projectID, err := c.findProject(ctx, project)
	if err != nil {
		return err
	}
	columnID, err := c.findColumn(ctx, projectID, column)
	if err != nil {
		return err
	}

	_, _, err = c.rest.Projects.CreateProjectCard(ctx, columnID, &github.ProjectCardOptions{
		ContentID:   issue.ID,
		ContentType: contentIssue,
	})
	if err != nil {
		return errors.Wrap(err, "create project card")
	}
	return nil
}

func (c *Client) findProject(ctx context.Context, project string) (int64, error) {
	number, numErr := strconv.Atoi(project)
	opts := &github.ProjectListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: defaultPerPage},
	}

	for {
		projects, resp, err := c.rest.Repositories.ListProjects(ctx, c.repo.Owner, c.repo.Name, opts)
		if err != nil {
			return 0, errors.Wrap(err, "list projects")
		}
		for _, p := range projects {
			if numErr == nil && p.GetNumber() == number {
				return p.GetID(), nil
			}
			if strings.EqualFold(p.GetName(), project) {
				return p.GetID(), nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return 0, domain.ErrProjectNotFound
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) findColumn(ctx context.Context, projectID int64, column string) (int64, error) {
	opts := &github.ListOptions{PerPage: defaultPerPage}

	for {
		columns, resp, err := c.rest.Projects.ListProjectColumns(ctx, projectID, opts)
		if err != nil {
			return 0, errors.Wrap(err, "list project columns")
		}
		for _, col := range columns {
			if strings.EqualFold(col.GetName(), column) {
				return col.GetID(), nil
			}
		}
		if resp == nil || resp.NextPage == 0 {
			return 0, domain.ErrColumnNotFound
		}
		opts.Page = resp.NextPage
	}
}
