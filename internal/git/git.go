// Package git clones formula repositories with go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Common Git errors
var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrEmptyURL           = errors.New("repository url cannot be empty")
	ErrDestinationExists  = errors.New("clone destination already exists")
)

// CloneOptions controls how much history is fetched.
type CloneOptions struct {
	Depth        int  // 0 fetches full history
	SingleBranch bool // fetch only the default branch
}

// Cloner is the interface for cloning remote repositories.
type Cloner interface {
	Clone(ctx context.Context, url, dest string, opts CloneOptions) error
}

// Client implements Cloner with go-git.
type Client struct {
	auth transport.AuthMethod
}

// NewClient creates a Client. HTTP credentials are taken from GITHUB_TOKEN,
// GITLAB_TOKEN or GIT_TOKEN when present so private formula repositories
// can be cloned.
func NewClient() *Client {
	return &Client{auth: tokenAuth(os.Getenv)}
}

// Clone clones url into dest, which must not exist yet. A failed clone leaves
// nothing behind at dest.
func (c *Client) Clone(ctx context.Context, url, dest string, opts CloneOptions) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if url == "" {
		return ErrEmptyURL
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent directory: %w", err)
	}

	var auth transport.AuthMethod
	if strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://") {
		auth = c.auth
	}

	_, err := gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:          url,
		Auth:         auth,
		Depth:        opts.Depth,
		SingleBranch: opts.SingleBranch,
	})
	if err != nil {
		_ = os.RemoveAll(dest)
		if isNotFound(err) {
			return fmt.Errorf("clone %s: %w", url, ErrRepositoryNotFound)
		}
		return fmt.Errorf("clone %s: %w", url, err)
	}

	return nil
}

// HeadCommit returns the commit hash checked out in the repository at path.
func HeadCommit(path string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository: %w", err)
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("get HEAD: %w", err)
	}

	return ref.Hash().String(), nil
}

// isNotFound reports whether a clone error means the repository does not
// exist. Hosts such as GitHub answer unauthenticated requests for missing
// repositories with an authentication challenge.
func isNotFound(err error) bool {
	return errors.Is(err, transport.ErrRepositoryNotFound) ||
		errors.Is(err, transport.ErrAuthenticationRequired) ||
		errors.Is(err, gogit.ErrRepositoryNotExists)
}

func tokenAuth(getenv func(string) string) transport.AuthMethod {
	if token := getenv("GITHUB_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "x-access-token", Password: token}
	}
	if token := getenv("GITLAB_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "gitlab-ci-token", Password: token}
	}
	if token := getenv("GIT_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "git", Password: token}
	}
	return nil
}
