package domain

import (
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
)

// Repository identifies a repository on the tracker host.
type Repository struct {
	Owner string
	Name  string
}

// String returns the owner/name form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepository parses an "owner/name" string.
func ParseRepository(s string) (Repository, error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(s), "/")
	name = strings.TrimSuffix(name, ".git")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repository{}, errors.Wrapf(ErrInvalidRepository, "got %q", s)
	}
	return Repository{Owner: owner, Name: name}, nil
}

// ParseRemoteURL extracts the repository from a git remote URL.
// Supports scp-like SSH (git@host:owner/name.git), ssh:// and http(s):// URLs.
func ParseRemoteURL(remote string) (Repository, error) {
	remote = strings.TrimSpace(remote)

	if !strings.Contains(remote, "://") {
		// scp-like syntax: user@host:owner/name.git
		_, path, ok := strings.Cut(remote, ":")
		if !ok {
			return Repository{}, errors.Wrapf(ErrInvalidRepository, "unsupported remote %q", remote)
		}
		return ParseRepository(strings.TrimPrefix(path, "/"))
	}

	u, err := url.Parse(remote)
	if err != nil {
		return Repository{}, errors.Wrapf(ErrInvalidRepository, "parse remote %q: %v", remote, err)
	}
	return ParseRepository(strings.Trim(u.Path, "/"))
}
