package cli

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/runoshun/issue-bot/internal/app"
	"github.com/runoshun/issue-bot/internal/domain"
	"github.com/runoshun/issue-bot/internal/infra/config"
)

// Flags that are never read from a config file.
const (
	keyConfig = "config"
	keyToken  = "token"
)

// Fallback environment variables set by the Actions runner.
var runnerEnv = map[string]string{
	keyToken:             "GITHUB_TOKEN",
	config.KeyRepository: "GITHUB_REPOSITORY",
	config.KeyAPIURL:     "GITHUB_API_URL",
	config.KeyGraphQLURL: "GITHUB_GRAPHQL_URL",
}

// resolvedInputs is the result of merging every input source.
type resolvedInputs struct {
	Warnings []string         // Config file problems worth reporting
	App      app.Config       // Operational settings
	Run      domain.RunConfig // Inputs of the issue run
}

// addInputFlags registers the flags shared by every command that resolves inputs.
func addInputFlags(flags *pflag.FlagSet) {
	flags.StringP(keyConfig, "c", "", "Config file (.toml, .yaml or .yml)")

	flags.String(config.KeyTitle, "", "Title of the new issue")
	flags.String(config.KeyBody, "", "Body template (Handlebars syntax)")
	flags.String(config.KeyLabels, "", "Comma-separated labels; also used to find the previous issue")
	flags.String(config.KeyAssignees, "", "Comma-separated assignees")
	flags.String(config.KeyProject, "", "Project number or name to add the issue to")
	flags.String(config.KeyColumn, "", "Project column name")
	flags.String(config.KeyMilestone, "", "Milestone number")
	flags.Bool(config.KeyPinned, false, "Pin the new issue and unpin the previous one")
	flags.Bool(config.KeyClosePrevious, false, "Close the previous issue")
	flags.Bool(config.KeyRotateAssignees, false, "Assign the person after the previous issue's assignee")
	flags.Bool(config.KeyLinkedComments, false, "Comment on both issues linking them")

	flags.String(keyToken, "", "GitHub token (default $GITHUB_TOKEN)")
	flags.String(config.KeyRepository, "", "Repository as owner/name (default: origin remote)")
	flags.String(config.KeyAPIURL, "", "REST API base URL for GitHub Enterprise")
	flags.String(config.KeyGraphQLURL, "", "GraphQL endpoint for GitHub Enterprise")
	flags.String(config.KeyLogLevel, "info", "Log level: debug, info, warn or error")
}

// newInputViper binds every input key to its flag and environment variables.
// Precedence: flag > INPUT_* env > runner env > config file > flag default.
func newInputViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()

	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Name == "help" || f.Name == "version" {
			return
		}
		if err := v.BindPFlag(f.Name, f); err != nil {
			bindErr = errors.Wrapf(err, "bind flag %s", f.Name)
			return
		}
		if err := v.BindEnv(envNames(f.Name)...); err != nil {
			bindErr = errors.Wrapf(err, "bind env for %s", f.Name)
		}
	})
	return v, bindErr
}

// envNames returns the viper key followed by the environment variables it reads.
// The runner exports inputs as INPUT_<NAME> with hyphens kept; the underscore form
// is accepted too.
func envNames(key string) []string {
	upper := strings.ToUpper(key)
	names := []string{key, "INPUT_" + upper}
	if underscored := strings.ReplaceAll(upper, "-", "_"); underscored != upper {
		names = append(names, "INPUT_"+underscored)
	}
	if fallback, ok := runnerEnv[key]; ok {
		names = append(names, fallback)
	}
	return names
}

// resolveInputs merges the config file into v and reads back every input.
func resolveInputs(v *viper.Viper, loader *config.Loader) (*resolvedInputs, error) {
	in := &resolvedInputs{}

	if path := v.GetString(keyConfig); path != "" {
		f, err := loader.Load(path)
		if err != nil {
			return nil, errors.Wrap(err, "load config file")
		}
		if err := v.MergeConfigMap(f.Values); err != nil {
			return nil, errors.Wrap(err, "merge config file")
		}
		in.Warnings = f.Warnings
	}

	in.Run = domain.RunConfig{
		Labels:          listValue(v, config.KeyLabels),
		Assignees:       listValue(v, config.KeyAssignees),
		Title:           v.GetString(config.KeyTitle),
		Body:            v.GetString(config.KeyBody),
		Project:         strings.TrimSpace(v.GetString(config.KeyProject)),
		Column:          strings.TrimSpace(v.GetString(config.KeyColumn)),
		Milestone:       strings.TrimSpace(v.GetString(config.KeyMilestone)),
		Pinned:          v.GetBool(config.KeyPinned),
		ClosePrevious:   v.GetBool(config.KeyClosePrevious),
		RotateAssignees: v.GetBool(config.KeyRotateAssignees),
		LinkedComments:  v.GetBool(config.KeyLinkedComments),
	}

	logLevel := v.GetString(config.KeyLogLevel)
	if os.Getenv("RUNNER_DEBUG") == "1" {
		logLevel = "debug"
	}
	in.App = app.Config{
		Token:      strings.TrimSpace(v.GetString(keyToken)),
		Repository: strings.TrimSpace(v.GetString(config.KeyRepository)),
		APIURL:     strings.TrimSpace(v.GetString(config.KeyAPIURL)),
		GraphQLURL: strings.TrimSpace(v.GetString(config.KeyGraphQLURL)),
		LogLevel:   logLevel,
	}
	return in, nil
}

// listValue reads a list input given either as a comma-separated string or a list.
func listValue(v *viper.Viper, key string) []string {
	switch value := v.Get(key).(type) {
	case []string:
		return config.SplitList(strings.Join(value, ","))
	case []any:
		return config.SplitList(strings.Join(v.GetStringSlice(key), ","))
	default:
		return config.SplitList(v.GetString(key))
	}
}
