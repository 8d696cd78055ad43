// Package git reads repository metadata from the local git checkout.
package git

import (
	"github.com/cockroachdb/errors"
	gogit "github.com/go-git/go-git/v5"

	"github.com/runoshun/issue-bot/internal/domain"
)

// DefaultRemote is the remote consulted when no repository is configured.
const DefaultRemote = "origin"

// Client provides read-only access to a local git repository.
type Client struct {
	repo *gogit.Repository
}

// NewClient opens the repository containing dir, searching parent directories.
// Returns domain.ErrNoRepository if dir is not inside a git repository.
func NewClient(dir string) (*Client, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, errors.Wrapf(domain.ErrNoRepository, "%s is not a git repository", dir)
		}
		return nil, errors.Wrap(err, "open git repository")
	}
	return &Client{repo: repo}, nil
}

// RemoteURL returns the first URL configured for the named remote.
func (c *Client) RemoteURL(name string) (string, error) {
	remote, err := c.repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", errors.Wrapf(domain.ErrNoRepository, "remote %q not found", name)
		}
		return "", errors.Wrapf(err, "read remote %q", name)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", errors.Wrapf(domain.ErrNoRepository, "remote %q has no URL", name)
	}
	return urls[0], nil
}

// Repository derives the owner/name pair from the origin remote.
func (c *Client) Repository() (domain.Repository, error) {
	url, err := c.RemoteURL(DefaultRemote)
	if err != nil {
		return domain.Repository{}, err
	}
	return domain.ParseRemoteURL(url)
}

// DetectRepository opens the repository containing dir and reads its origin remote.
func DetectRepository(dir string) (domain.Repository, error) {
	client, err := NewClient(dir)
	if err != nil {
		return domain.Repository{}, err
	}
	return client.Repository()
}
