// Package github provides the hosting-API collaborator for elkhorn.
// Commit, push, and PR operations live with the caller; the cache only needs
// repository metadata and clone credentials.
package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps the GitHub API for elkhorn's needs.
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a GitHub client using go-gh (automatic auth).
func NewClient() (*Client, error) {
	client, err := api.DefaultRESTClient()
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// NewClientWithToken creates a GitHub client with explicit token.
func NewClientWithToken(token string) (*Client, error) {
	client, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: token,
	})
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// NewUnauthenticatedClient creates a GitHub client without authentication.
// This works for public repositories only and has lower rate limits (60/hour).
func NewUnauthenticatedClient() (*Client, error) {
	client, err := api.NewRESTClient(api.ClientOptions{})
	if err != nil {
		return nil, err
	}
	return &Client{rest: client}, nil
}

// GetDefaultBranch returns the repo's default branch.
func (c *Client) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	endpoint := fmt.Sprintf("repos/%s/%s", owner, repo)

	var response struct {
		DefaultBranch string `json:"default_branch"`
	}

	err := c.rest.Get(endpoint, &response)
	if err != nil {
		return "", err
	}

	return response.DefaultBranch, nil
}

// RepoExists checks if a repository exists and is accessible.
func (c *Client) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	endpoint := fmt.Sprintf("repos/%s/%s", owner, repo)

	var response struct {
		ID int `json:"id"`
	}

	err := c.rest.Get(endpoint, &response)
	if err != nil {
		// Check if it's a 404
		if httpErr, ok := err.(*api.HTTPError); ok {
			if httpErr.StatusCode == http.StatusNotFound {
				return false, nil
			}
		}
		return false, err
	}

	return true, nil
}

// CloneURL builds the https clone URL for a repository. When token is
// non-empty it is embedded for private repository access.
func CloneURL(owner, repo, token string) string {
	if token != "" {
		return fmt.Sprintf("https://x-access-token:%s@github.com/%s/%s.git", token, owner, repo)
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)
}
