// Package config loads issue-bot inputs from a TOML or YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Keys accepted in a config file. They match the command-line flag names.
const (
	KeyTitle           = "title"
	KeyBody            = "body"
	KeyLabels          = "labels"
	KeyAssignees       = "assignees"
	KeyProject         = "project"
	KeyColumn          = "column"
	KeyMilestone       = "milestone"
	KeyPinned          = "pinned"
	KeyClosePrevious   = "close-previous"
	KeyRotateAssignees = "rotate-assignees"
	KeyLinkedComments  = "linked-comments"
	KeyRepository      = "repository"
	KeyAPIURL          = "api-url"
	KeyGraphQLURL      = "graphql-url"
	KeyLogLevel        = "log-level"
)

var (
	stringKeys = []string{KeyTitle, KeyBody, KeyProject, KeyColumn, KeyMilestone, KeyRepository, KeyAPIURL, KeyGraphQLURL, KeyLogLevel}
	listKeys   = []string{KeyLabels, KeyAssignees}
	boolKeys   = []string{KeyPinned, KeyClosePrevious, KeyRotateAssignees, KeyLinkedComments}
)

// ErrUnsupportedFormat is returned for config files that are neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config file format (use .toml, .yaml or .yml)")

// File is a decoded config file.
type File struct {
	Values   map[string]any // Normalized values keyed by flag name
	Warnings []string       // Problems that did not prevent loading
}

// Loader loads config files.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and normalizes the file at path. The format is chosen by extension.
// Keys may use hyphens or underscores. Unknown keys produce warnings.
func (l *Loader) Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return normalize(raw), nil
}

// normalize converts raw decoded values into strings, string slices and bools.
func normalize(raw map[string]any) *File {
	f := &File{Values: make(map[string]any)}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rawKey := range keys {
		value := raw[rawKey]
		key := strings.ReplaceAll(strings.ToLower(rawKey), "_", "-")

		switch {
		case contains(stringKeys, key):
			switch v := value.(type) {
			case string, int, int64, uint64, float64:
				f.Values[key] = fmt.Sprint(v)
			default:
				f.Warnings = append(f.Warnings, fmt.Sprintf("%s: expected a string, got %T", rawKey, value))
			}
		case contains(listKeys, key):
			list, ok := toStringSlice(value)
			if !ok {
				f.Warnings = append(f.Warnings, fmt.Sprintf("%s: expected a list or comma-separated string, got %T", rawKey, value))
				continue
			}
			f.Values[key] = list
		case contains(boolKeys, key):
			b, ok := value.(bool)
			if !ok {
				f.Warnings = append(f.Warnings, fmt.Sprintf("%s: expected true or false, got %v", rawKey, value))
				continue
			}
			f.Values[key] = b
		default:
			f.Warnings = append(f.Warnings, fmt.Sprintf("unknown key: %s", rawKey))
		}
	}
	return f
}

// SplitList splits a comma-separated input, trimming entries and dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toStringSlice(value any) ([]string, bool) {
	switch v := value.(type) {
	case string:
		return SplitList(v), true
	case []string:
		return SplitList(strings.Join(v, ",")), true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
