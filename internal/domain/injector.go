package domain

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	m "github.com/symup/symup/internal/model"
)

// SnippetRegistryName is the global object the injected snippet writes
// to in the browser. The upload-time verifier probes for this name.
const SnippetRegistryName = "sourceMapIDs"

// The marker is a single line: markerPrefix + SourceMapID + markerSuffix.
// When the script runs in a browser the snippet resolves its own
// embedding URL from a synthetic stack trace and records it in the
// per-URL registry the first time it runs, so the backend can correlate
// a reported stack-frame URL with the uploaded map.
const (
	markerPrefix = `;/**/(function(){var id="`
	markerSuffix = `";var g=typeof window==="object"?window:typeof self==="object"?self:null;if(!g)return;g.` + SnippetRegistryName + `=g.` + SnippetRegistryName + `||{};var u="";try{throw new Error()}catch(e){u=(String(e.stack).match(/(?:https?|file):\/\/[^\s)]+?(?=:\d+:\d+)/)||[])[0]}if(u&&!g.` + SnippetRegistryName + `[u]){g.` + SnippetRegistryName + `[u]=id}})();`
)

// TempFileSuffix names the staging file used by the safe overwrite. The
// suffix keeps temp names collision-free per target and lets the
// orchestrator's cleanup pass find leftovers from interrupted runs.
const TempFileSuffix = ".symup-tmp"

// MarkerLine renders the full injection marker for the given id.
func MarkerLine(id m.SourceMapID) string {
	return markerPrefix + string(id) + markerSuffix
}

// IsMarkerLine reports whether a line is an injection marker, current or
// stale.
func IsMarkerLine(line string) bool {
	return strings.HasPrefix(line, markerPrefix)
}

// TempPathFor returns the staging path the injector uses for jsPath.
func TempPathFor(jsPath m.Path) m.Path {
	dir := filepath.Dir(string(jsPath))
	base := filepath.Base(string(jsPath))

	return m.Path(filepath.Join(dir, base+TempFileSuffix))
}

// InjectOptions controls a single marker injection.
type InjectOptions struct {
	// DryRun previews the change without touching the filesystem.
	DryRun bool

	// Preview, when set, receives the dry-run preview instead of it
	// going only to the log.
	Preview func(jsPath m.Path, id m.SourceMapID)
}

// InjectMarker embeds id into the script at jsPath.
//
// The file is rewritten whole: the marker replaces an existing one, or is
// inserted immediately before the sourceMappingURL directive, or is
// appended as the final line. If the file already carries a byte-identical
// marker nothing is written at all. The rewrite goes through a temp file
// in the same directory followed by an atomic rename, so the original is
// never observable in a half-written state.
func InjectMarker(jsPath m.Path, id m.SourceMapID, opts InjectOptions) error {
	if opts.DryRun {
		slog.Info("dry run: would inject source map id", "script", jsPath, "id", id)

		if opts.Preview != nil {
			opts.Preview(jsPath, id)
		}

		return nil
	}

	data, err := os.ReadFile(string(jsPath))
	if err != nil {
		return classifyFSError(OpRead, jsPath, err)
	}

	content := string(data)
	hadTrailingNewline := strings.HasSuffix(content, "\n")

	lines := strings.Split(content, "\n")
	if hadTrailingNewline {
		lines = lines[:len(lines)-1]
	}

	markerIdx := -1
	directiveIdx := -1

	for i, line := range lines {
		if markerIdx < 0 && IsMarkerLine(line) {
			markerIdx = i
		}

		if directiveIdx < 0 && strings.HasPrefix(line, SourceMappingURLPrefix) {
			directiveIdx = i
		}
	}

	marker := MarkerLine(id)

	switch {
	case markerIdx >= 0 && lines[markerIdx] == marker:
		// Already carries the current id; re-running is a no-op.
		slog.Debug("marker already current, skipping write", "script", jsPath)
		return nil
	case markerIdx >= 0:
		lines[markerIdx] = marker
	case directiveIdx >= 0:
		lines = append(lines[:directiveIdx], append([]string{marker}, lines[directiveIdx:]...)...)
	default:
		lines = append(lines, marker)
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}

	return overwriteScript(jsPath, []byte(out))
}

// overwriteScript writes content to the injector's temp file and renames
// it over the target. The rename removes the temp file; the injector
// never deletes it itself, leftovers are swept by the orchestrator.
func overwriteScript(jsPath m.Path, content []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(string(jsPath)); err == nil {
		perm = info.Mode().Perm()
	}

	tmpPath := TempPathFor(jsPath)

	if err := os.WriteFile(string(tmpPath), content, perm); err != nil {
		return classifyFSError(OpWrite, jsPath, err)
	}

	if err := os.Rename(string(tmpPath), string(jsPath)); err != nil {
		return classifyFSError(OpWrite, jsPath, err)
	}

	slog.Debug("injected source map id", "script", jsPath)

	return nil
}
