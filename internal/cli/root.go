// Package cli provides the command-line interface for issue-bot.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/runoshun/issue-bot/internal/app"
	"github.com/runoshun/issue-bot/internal/infra/config"
	"github.com/runoshun/issue-bot/internal/usecase"
)

// Step output names.
const (
	outputIssueNumber         = "issue-number"
	outputPreviousIssueNumber = "previous-issue-number"
)

// ContainerFactory builds the container once operational settings are resolved.
type ContainerFactory func(ctx context.Context, cfg app.Config) (*app.Container, error)

// NewRootCommand creates the root command for issue-bot.
// Running it without a subcommand performs one issue run.
func NewRootCommand(newContainer ContainerFactory, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "issue-bot",
		Short: "Create the next issue of a recurring series",
		Long: `issue-bot creates a GitHub issue from a template and optionally rotates
the previous issue of the same series out: assignees are rotated, both issues
are linked with comments, the previous issue is closed and the pin is moved.

The previous issue is the most recent open issue carrying all of --labels.

Inputs are read from flags, INPUT_* environment variables (as set by the
GitHub Actions runner) and an optional --config file, in that order of
precedence.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	addInputFlags(root.PersistentFlags())

	root.RunE = func(cmd *cobra.Command, _ []string) error {
		in, err := resolveCommandInputs(cmd)
		if err != nil {
			return err
		}

		// Fail on bad inputs before touching the token or repository
		if err := in.Run.Validate(); err != nil {
			return err
		}

		c, err := newContainer(cmd.Context(), in.App)
		if err != nil {
			return err
		}
		for _, w := range in.Warnings {
			c.Logger.Warn("config file", "warning", w)
		}

		out, err := c.CreateIssueUseCase().Execute(cmd.Context(), usecase.CreateIssueInput{Config: in.Run})
		if err != nil {
			return err
		}
		return publish(c, out)
	}

	root.AddCommand(newValidateCommand())
	return root
}

// resolveCommandInputs resolves inputs from the flags of cmd.
func resolveCommandInputs(cmd *cobra.Command) (*resolvedInputs, error) {
	v, err := newInputViper(cmd.Flags())
	if err != nil {
		return nil, err
	}
	return resolveInputs(v, config.NewLoader())
}

// publish writes the run result as step outputs and a summary line.
func publish(c *app.Container, out *usecase.CreateIssueOutput) error {
	if err := c.Outputs.SetOutput(outputIssueNumber, strconv.Itoa(out.IssueNumber)); err != nil {
		return errors.Wrap(err, "write outputs")
	}
	if out.PreviousIssueNumber > 0 {
		if err := c.Outputs.SetOutput(outputPreviousIssueNumber, strconv.Itoa(out.PreviousIssueNumber)); err != nil {
			return errors.Wrap(err, "write outputs")
		}
	}
	if err := c.Outputs.AppendSummary(summaryLine(out)); err != nil {
		return errors.Wrap(err, "write summary")
	}
	return nil
}

func summaryLine(out *usecase.CreateIssueOutput) string {
	line := fmt.Sprintf("Created issue [#%d](%s)", out.IssueNumber, out.IssueURL)
	if out.PreviousIssueNumber > 0 {
		line += fmt.Sprintf(", following #%d", out.PreviousIssueNumber)
	}
	if len(out.Assignees) > 0 {
		line += " assigned to " + mentionList(out.Assignees)
	}
	return line
}

func mentionList(logins []string) string {
	return "@" + strings.Join(logins, ", @")
}

// printWarnings writes config file warnings the way the root command logs them.
func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
