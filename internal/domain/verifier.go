package domain

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "github.com/symup/symup/internal/model"
)

// VerifyResult is the outcome of the upload-time injection check.
type VerifyResult struct {
	Verified bool
	Message  string
}

// WasAlreadyInjected best-effort checks whether the script paired with
// mapPath already carries an injection marker, so the upload path can
// warn users who forgot to run inject. It never returns an error: any
// failure degrades to an unverified result with an explanatory message,
// because this check must never block an upload.
func WasAlreadyInjected(mapPath m.Path) VerifyResult {
	script, result := locatePairedScript(mapPath)
	if script == "" {
		return result
	}

	data, err := os.ReadFile(string(script))
	if err != nil {
		return VerifyResult{Message: fmt.Sprintf("could not verify %s: unable to read paired script %s", mapPath, script)}
	}

	// A loose substring probe on purpose: injection performed by an
	// unrelated tool still registers under the same object name.
	if strings.Contains(string(data), SnippetRegistryName) {
		return VerifyResult{Verified: true}
	}

	return VerifyResult{Message: fmt.Sprintf("%s has no injected source map id; run `symup inject` before uploading", script)}
}

// locatePairedScript tries the same-path-minus-.map convention first to
// avoid reading the potentially large map file, then falls back to the
// map's JSON `file` field resolved against the map's directory.
func locatePairedScript(mapPath m.Path) (m.Path, VerifyResult) {
	candidate := m.Path(strings.TrimSuffix(string(mapPath), ".map"))
	if _, err := os.Stat(string(candidate)); err == nil {
		return candidate, VerifyResult{}
	}

	data, err := os.ReadFile(string(mapPath))
	if err != nil {
		return "", VerifyResult{Message: fmt.Sprintf("could not verify %s: unable to read map file", mapPath)}
	}

	var header struct {
		File string `json:"file"`
	}

	if err := json.Unmarshal(data, &header); err != nil || header.File == "" {
		slog.Debug("map file has no usable `file` field", "map", mapPath, "error", err)
		return "", VerifyResult{Message: fmt.Sprintf("could not verify %s: no paired script found", mapPath)}
	}

	resolved := m.Path(filepath.Join(filepath.Dir(string(mapPath)), header.File))
	if _, err := os.Stat(string(resolved)); err != nil {
		return "", VerifyResult{Message: fmt.Sprintf("could not verify %s: referenced script %s not found", mapPath, resolved)}
	}

	return resolved, VerifyResult{}
}
