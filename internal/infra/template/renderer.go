// Package template renders issue body templates with Handlebars syntax.
package template

import (
	"strings"

	"github.com/aymerick/raymond"
	"github.com/cockroachdb/errors"
	"github.com/runoshun/issue-bot/internal/domain"
)

// Ensure Renderer implements domain.BodyRenderer.
var _ domain.BodyRenderer = (*Renderer)(nil)

// Renderer renders bodies using raymond.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render substitutes BodyData into tpl.
//
// Available variables:
//
//	{{previousIssueNumber}}  number of the previous issue, or "unknown"
//	{{hasPreviousIssue}}     true when there is a previous issue
//	{{assignees}}            assignee logins (iterate with {{#each assignees}})
//	{{mentions assignees}}   "@alice @bob"
func (r *Renderer) Render(tpl string, data domain.BodyData) (string, error) {
	if tpl == "" {
		return "", nil
	}

	parsed, err := raymond.Parse(tpl)
	if err != nil {
		return "", errors.Wrap(err, "parse body template")
	}
	parsed.RegisterHelper("mentions", mentions)

	out, err := parsed.Exec(templateContext(data))
	if err != nil {
		return "", errors.Wrap(err, "execute body template")
	}
	return out, nil
}

// assigneeList renders comma-joined when used as a plain value and still
// iterates as a slice in {{#each}}.
type assigneeList []string

// String implements fmt.Stringer, which raymond prefers when printing a value.
func (a assigneeList) String() string {
	return strings.Join(a, ",")
}

func templateContext(data domain.BodyData) map[string]any {
	assignees := assigneeList(data.Assignees)
	if assignees == nil {
		assignees = assigneeList{}
	}
	ctx := map[string]any{
		"previousIssueNumber": domain.PreviousIssueSentinel,
		"hasPreviousIssue":    false,
		"assignees":           assignees,
	}
	if data.PreviousIssueNumber != nil {
		ctx["previousIssueNumber"] = *data.PreviousIssueNumber
		ctx["hasPreviousIssue"] = true
	}
	return ctx
}

// mentions renders a list of logins as space-separated @mentions.
func mentions(logins any) string {
	var parts []string
	switch v := logins.(type) {
	case assigneeList:
		for _, l := range v {
			parts = append(parts, "@"+l)
		}
	case []string:
		for _, l := range v {
			parts = append(parts, "@"+l)
		}
	case []any:
		for _, l := range v {
			parts = append(parts, "@"+raymond.Str(l))
		}
	case string:
		if v != "" {
			parts = append(parts, "@"+v)
		}
	}
	return strings.Join(parts, " ")
}
