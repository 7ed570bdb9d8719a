package installer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"setup-automate/internal/config"
	"setup-automate/internal/logger"
)

// GitHubRelease represents the structure of a GitHub release JSON response.
type GitHubRelease struct {
	TagName string        `json:"tag_name"` // The release tag (e.g., v1.0.0)
	Assets  []GitHubAsset `json:"assets"`
}

// GitHubAsset is one downloadable file attached to a release.
type GitHubAsset struct {
	Name               string `json:"name"`                 // Asset filename
	BrowserDownloadURL string `json:"browser_download_url"` // Direct download URL for the asset
}

// Names release assets use for each GOOS and GOARCH.
var (
	osAliases = map[string][]string{
		"darwin":  {"darwin", "macos", "apple", "osx", "mac"},
		"linux":   {"linux"},
		"windows": {"windows", "win64"},
	}
	archAliases = map[string][]string{
		"amd64": {"amd64", "x86_64", "x64"},
		"arm64": {"arm64", "aarch64"},
		"386":   {"386", "i386"},
	}
)

// installFromGitHub downloads the release asset matching this platform, extracts
// it and installs the binary named after the requirement.
func (i *Installer) installFromGitHub(ctx context.Context, req config.Requirement) (string, error) {
	release, err := i.fetchRelease(ctx, req.Repo, req.Tag)
	if err != nil {
		return "", err
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", release.TagName, len(release.Assets))

	asset, ok := MatchAsset(release.Assets, i.GOOS, i.GOARCH)
	if !ok {
		return "", fmt.Errorf("no asset for %s/%s in release %s of %s", i.GOOS, i.GOARCH, release.TagName, req.Repo)
	}

	tmp, cleanup, err := tempDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	archive := filepath.Join(tmp, asset.Name)
	logger.Info("Downloading %s\n", asset.Name)
	if err := i.downloadFile(ctx, asset.BrowserDownloadURL, archive); err != nil {
		return "", err
	}
	return i.installArchive(archive, req.Name)
}

// fetchRelease reads release metadata for tag, or the latest release when tag is empty.
func (i *Installer) fetchRelease(ctx context.Context, repo, tag string) (GitHubRelease, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(i.GitHubAPI, "/"), repo)
	if tag != "" {
		url = fmt.Sprintf("%s/repos/%s/releases/tags/%s", strings.TrimRight(i.GitHubAPI, "/"), repo, tag)
	}
	logger.Debug("[DEBUG] Fetching GitHub release from URL: %s\n", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return GitHubRelease{}, fmt.Errorf("build release request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if i.Env != nil {
		if token, ok := i.Env.Lookup("GITHUB_TOKEN"); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := i.HTTP.Do(req)
	if err != nil {
		return GitHubRelease{}, fmt.Errorf("fetch release of %s: %w", repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return GitHubRelease{}, fmt.Errorf("fetch release of %s: HTTP status %d", repo, resp.StatusCode)
	}

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return GitHubRelease{}, fmt.Errorf("decode release of %s: %w", repo, err)
	}
	return release, nil
}

// MatchAsset picks the first archive asset naming both goos and goarch.
func MatchAsset(assets []GitHubAsset, goos, goarch string) (GitHubAsset, bool) {
	oses := osAliases[goos]
	if len(oses) == 0 {
		oses = []string{goos}
	}
	arches := archAliases[goarch]
	if len(arches) == 0 {
		arches = []string{goarch}
	}
	for _, a := range assets {
		name := strings.ToLower(a.Name)
		if !IsArchive(name) {
			continue
		}
		if containsAny(name, oses) && containsAny(name, arches) {
			return a, true
		}
	}
	return GitHubAsset{}, false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
