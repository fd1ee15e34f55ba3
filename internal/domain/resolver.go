package domain

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "github.com/symup/symup/internal/model"
)

// SourceMappingURLPrefix is the wire-level directive prefix. It must match
// exactly for round-trip detection across runs and across independently
// built tooling.
const SourceMappingURLPrefix = "//# sourceMappingURL="

// pairingStrategy is one way of locating the map file for a script.
// Strategies are tried in priority order; the first hit wins.
type pairingStrategy interface {
	discover(jsPath m.Path, knownMaps map[m.Path]struct{}) (m.Path, error)
}

// pairingStrategies is the ordered strategy list. The convention match
// runs first because it needs no file I/O beyond the set lookup.
var pairingStrategies = []pairingStrategy{
	conventionStrategy{},
	directiveStrategy{},
}

// DiscoverMapPath returns the map file paired with jsPath, or "" when no
// known map matches. Absent pairings are an expected outcome, not an
// error; read failures on the script surface as descriptive errors.
func DiscoverMapPath(jsPath m.Path, knownMaps map[m.Path]struct{}) (m.Path, error) {
	for _, strategy := range pairingStrategies {
		mapPath, err := strategy.discover(jsPath, knownMaps)
		if err != nil {
			return "", err
		}

		if mapPath != "" {
			return mapPath, nil
		}
	}

	return "", nil
}

// conventionStrategy matches <script>.map if it is in the known-map set.
type conventionStrategy struct{}

func (conventionStrategy) discover(jsPath m.Path, knownMaps map[m.Path]struct{}) (m.Path, error) {
	candidate := jsPath + ".map"
	if _, ok := knownMaps[candidate]; ok {
		return candidate, nil
	}

	return "", nil
}

// directiveStrategy reads the script looking for its sourceMappingURL
// comment and resolves the referenced path against the known-map set.
type directiveStrategy struct{}

func (directiveStrategy) discover(jsPath m.Path, knownMaps map[m.Path]struct{}) (m.Path, error) {
	f, err := os.Open(string(jsPath))
	if err != nil {
		return "", classifyFSError(OpRead, jsPath, err)
	}

	defer func() {
		_ = f.Close()
	}()

	// Minified bundles put megabytes of code on a single line, so read
	// with ReadString rather than a token-limited scanner.
	reader := bufio.NewReader(f)

	for {
		line, readErr := reader.ReadString('\n')

		line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
		if strings.HasPrefix(line, SourceMappingURLPrefix) {
			// First directive wins, even if commented-out duplicates follow.
			url := strings.TrimSpace(strings.TrimPrefix(line, SourceMappingURLPrefix))

			return resolveDirectiveURL(jsPath, url, knownMaps), nil
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				// No directive at all: an expected, silent no-match.
				return "", nil
			}

			return "", classifyFSError(OpRead, jsPath, readErr)
		}
	}
}

func resolveDirectiveURL(jsPath m.Path, url string, knownMaps map[m.Path]struct{}) m.Path {
	if url == "" {
		return ""
	}

	if isUnsupportedURL(url) {
		slog.Info("sourceMappingURL points at an absolute or remote location, skipping",
			"script", jsPath, "url", url)
		return ""
	}

	resolved := m.Path(filepath.Join(filepath.Dir(string(jsPath)), url))
	if _, ok := knownMaps[resolved]; ok {
		return resolved
	}

	slog.Warn("sourceMappingURL references a map outside the scanned directory",
		"script", jsPath, "url", url, "resolved", resolved)

	return ""
}

// isUnsupportedURL reports references we refuse to resolve: absolute
// paths, remote URLs and inline data URLs.
func isUnsupportedURL(url string) bool {
	if filepath.IsAbs(url) {
		return true
	}

	for _, prefix := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(url, prefix) {
			return true
		}
	}

	return false
}
