package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/quickspin-saas/qspin-shim/internal/release"
)

type latestRelease struct {
	TagName string `json:"tag_name"`
}

// LatestVersion asks the releases API for the newest published release of
// repo and returns its version without the "v" prefix.
func (in *Installer) LatestVersion(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(in.apiURL, "/"), repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", in.userAgent())

	// Support optional GitHub token for higher rate limits.
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "token "+token)
	}

	client := *in.httpClient
	if in.timeout > 0 {
		client.Timeout = in.timeout
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", &HTTPError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("release not found")}
	case http.StatusForbidden:
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: fmt.Errorf("API rate limit exceeded. Set GITHUB_TOKEN for higher limits")}
	default:
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	var rel latestRelease
	if err := json.Unmarshal(body, &rel); err != nil {
		return "", fmt.Errorf("parsing release JSON: %w", err)
	}

	version, err := release.NormalizeVersion(rel.TagName)
	if err != nil {
		return "", fmt.Errorf("latest release tag: %w", err)
	}
	in.logger.Debug().Str("method", "LatestVersion").Str("repo", repo).Str("version", version).Msg("resolved latest release")
	return version, nil
}
