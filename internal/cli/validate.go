package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/runoshun/issue-bot/internal/usecase"
)

// validatedInputs is the TOML rendering of resolved inputs.
// Fields are ordered to minimize memory padding.
type validatedInputs struct {
	Labels          []string `toml:"labels"`
	Assignees       []string `toml:"assignees"`
	Title           string   `toml:"title"`
	Body            string   `toml:"body,multiline"`
	Project         string   `toml:"project,omitempty"`
	Column          string   `toml:"column,omitempty"`
	Milestone       string   `toml:"milestone,omitempty"`
	Repository      string   `toml:"repository"`
	Pinned          bool     `toml:"pinned"`
	ClosePrevious   bool     `toml:"close-previous"`
	RotateAssignees bool     `toml:"rotate-assignees"`
	LinkedComments  bool     `toml:"linked-comments"`
}

// newValidateCommand creates the validate command.
func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check inputs and show the planned run",
		Long: `Resolve inputs from every source, validate them and print the resolved
inputs and the steps a run would perform. No API calls are made.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := resolveCommandInputs(cmd)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), in.Warnings)

			// No container: validation needs no tracker, token or repository
			out, err := usecase.NewValidateInputs().Execute(cmd.Context(), usecase.ValidateInputsInput{Config: in.Run})
			if err != nil {
				return err
			}

			repo := in.App.Repository
			if repo == "" {
				repo = "(origin remote)"
			}
			data, err := toml.Marshal(validatedInputs{
				Labels:          in.Run.Labels,
				Assignees:       in.Run.Assignees,
				Title:           in.Run.Title,
				Body:            in.Run.Body,
				Project:         in.Run.Project,
				Column:          in.Run.Column,
				Milestone:       in.Run.Milestone,
				Repository:      repo,
				Pinned:          in.Run.Pinned,
				ClosePrevious:   in.Run.ClosePrevious,
				RotateAssignees: in.Run.RotateAssignees,
				LinkedComments:  in.Run.LinkedComments,
			})
			if err != nil {
				return errors.Wrap(err, "encode inputs")
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "[Resolved inputs]")
			_, _ = fmt.Fprintln(w, string(data))
			_, _ = fmt.Fprintln(w, "[Plan]")
			for i, step := range out.Steps {
				_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, step)
			}
			return nil
		},
	}
}
