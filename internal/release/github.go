package release

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/yapb/amxx-release/internal/config"
)

const (
	// TokenEnvVar names the environment variable holding the API token.
	TokenEnvVar = "GITHUB_TOKEN"

	userAgent = "amxx-release"
	assetType = "application/octet-stream"
)

// GitHubHost implements Host against the GitHub REST API.
type GitHubHost struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubHost creates a GitHubHost for the repository named in cfg. An
// empty token sends unauthenticated requests and lets the API reject them.
// A nil httpClient uses a default client.
func NewGitHubHost(cfg *config.Config, token string, httpClient *http.Client) (*GitHubHost, error) {
	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}

	baseURL, err := endpointURL(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", cfg.APIURL, err)
	}
	uploadURL, err := endpointURL(cfg.UploadURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upload URL %q: %w", cfg.UploadURL, err)
	}
	client.BaseURL = baseURL
	client.UploadURL = uploadURL
	client.UserAgent = userAgent

	return &GitHubHost{client: client, owner: cfg.Owner, repo: cfg.Repo}, nil
}

// endpointURL parses raw as a client endpoint, which must end in a slash.
func endpointURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("scheme and host are required")
	}
	return u, nil
}

// LatestCommit returns the newest commit on the default branch.
func (h *GitHubHost) LatestCommit(ctx context.Context) (Commit, error) {
	commits, resp, err := h.client.Repositories.ListCommits(ctx, h.owner, h.repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		return Commit{}, wrapAPIError(err)
	}
	if len(commits) == 0 {
		return Commit{}, &NoCommitsError{Repository: h.owner + "/" + h.repo}
	}

	first := commits[0]
	if first.GetSHA() == "" {
		return Commit{}, &MalformedResponseError{URL: requestURL(resp), Field: "sha"}
	}
	return Commit{SHA: first.GetSHA(), Message: first.GetCommit().GetMessage()}, nil
}

// CreateTaggedRelease creates an annotated tag object, the ref pointing at it
// and finally the release.
func (h *GitHubHost) CreateTaggedRelease(ctx context.Context, tr TagRelease) (Release, error) {
	tag, resp, err := h.client.Git.CreateTag(ctx, h.owner, h.repo, &github.Tag{
		Tag:     github.String(tr.Tag),
		Message: github.String(tr.TagMessage),
		Object: &github.GitObject{
			Type: github.String("commit"),
			SHA:  github.String(tr.CommitSHA),
		},
	})
	if err != nil {
		return Release{}, fmt.Errorf("failed to create tag %s: %w", tr.Tag, wrapAPIError(err))
	}
	if tag.GetSHA() == "" {
		return Release{}, &MalformedResponseError{URL: requestURL(resp), Field: "sha"}
	}

	if _, _, err = h.client.Git.CreateRef(ctx, h.owner, h.repo, &github.Reference{
		Ref:    github.String("refs/tags/" + tr.Tag),
		Object: &github.GitObject{SHA: tag.SHA},
	}); err != nil {
		return Release{}, fmt.Errorf("failed to create ref for tag %s: %w", tr.Tag, wrapAPIError(err))
	}

	rel, resp, err := h.client.Repositories.CreateRelease(ctx, h.owner, h.repo, &github.RepositoryRelease{
		TagName:    github.String(tr.Tag),
		Name:       github.String(tr.Name),
		Body:       github.String(tr.Body),
		Draft:      github.Bool(tr.Draft),
		Prerelease: github.Bool(false),
	})
	if err != nil {
		return Release{}, fmt.Errorf("failed to create release %s: %w", tr.Name, wrapAPIError(err))
	}
	if rel.ID == nil {
		return Release{}, &MalformedResponseError{URL: requestURL(resp), Field: "id"}
	}
	return Release{
		ID:      rel.GetID(),
		TagName: rel.GetTagName(),
		Name:    rel.GetName(),
		HTMLURL: rel.GetHTMLURL(),
	}, nil
}

// UploadAsset uploads the file at path as a release asset named after the file.
func (h *GitHubHost) UploadAsset(ctx context.Context, r Release, path, label string) (Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to open asset: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	a, _, err := h.client.Repositories.UploadReleaseAsset(ctx, h.owner, h.repo, r.ID, &github.UploadOptions{
		Name:      name,
		Label:     label,
		MediaType: assetType,
	}, f)
	if err != nil {
		return Asset{}, fmt.Errorf("failed to upload %s: %w", name, wrapAPIError(err))
	}

	return Asset{
		Name:  a.GetName(),
		Label: a.GetLabel(),
		Size:  int64(a.GetSize()),
		URL:   a.GetBrowserDownloadURL(),
	}, nil
}

// wrapAPIError turns an error response from the API into an *APIError. Other
// errors, such as transport failures or cancellation, pass through unchanged.
func wrapAPIError(err error) error {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return newAPIError(errResp.Response, errResp.Message, err)
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return newAPIError(rateErr.Response, rateErr.Message, err)
	}
	return err
}

func newAPIError(resp *http.Response, message string, cause error) *APIError {
	e := &APIError{StatusCode: resp.StatusCode, Message: message, Err: cause}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL.String()
	}
	return e
}

func requestURL(resp *github.Response) string {
	if resp == nil || resp.Response == nil || resp.Request == nil {
		return ""
	}
	return resp.Request.URL.String()
}
