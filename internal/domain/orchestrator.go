package domain

import (
	"context"
	"log/slog"
	"strings"

	"github.com/symup/symup/internal/adapter"
	m "github.com/symup/symup/internal/model"
)

var scriptSuffixes = []string{".js", ".cjs", ".mjs"}

// IsScriptPath reports whether path is a JavaScript asset by strict
// suffix classification.
func IsScriptPath(path m.Path) bool {
	for _, suffix := range scriptSuffixes {
		if strings.HasSuffix(string(path), suffix) {
			return true
		}
	}

	return false
}

// IsMapPath reports whether path is a source map by strict suffix
// classification (a script suffix followed by .map).
func IsMapPath(path m.Path) bool {
	for _, suffix := range scriptSuffixes {
		if strings.HasSuffix(string(path), suffix+".map") {
			return true
		}
	}

	return false
}

// InjectRunOptions configures one orchestrated injection run.
type InjectRunOptions struct {
	Root    m.Path
	Include []string
	Exclude []string
	DryRun  bool

	// Preview receives dry-run preview lines (wired to the UI layer).
	Preview func(jsPath m.Path, id m.SourceMapID)
}

// InjectOrchestrator walks a build output tree and injects a SourceMapID
// into every script that has a discoverable map pairing.
type InjectOrchestrator interface {
	RunInjection(ctx context.Context, opts InjectRunOptions) (m.InjectSummary, error)
}

type injectOrchestrator struct {
	fs adapter.SourceFSAdapter
}

// NewInjectOrchestrator constructs an InjectOrchestrator backed by the
// provided filesystem adapter.
func NewInjectOrchestrator(fs adapter.SourceFSAdapter) InjectOrchestrator {
	return &injectOrchestrator{fs: fs}
}

// RunInjection enumerates scripts and maps under the root, pairs them,
// hashes each map and injects the resulting id. Per-file failures are
// recorded in the summary and the batch continues; only failures to read
// the root directory itself abort the run. Running twice in a row is a
// no-op on the second run.
func (o *injectOrchestrator) RunInjection(ctx context.Context, opts InjectRunOptions) (m.InjectSummary, error) {
	summary := m.InjectSummary{}

	if err := o.validateRoot(opts.Root); err != nil {
		return summary, err
	}

	scripts, mapSet, err := o.enumerate(opts)
	if err != nil {
		return summary, classifyFSError(OpScan, opts.Root, err)
	}

	summary.ScriptsFound = len(scripts)
	summary.MapsFound = len(mapSet)

	for _, script := range scripts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		o.processScript(script, mapSet, opts, &summary)
	}

	if !opts.DryRun {
		removed, err := o.fs.RemoveFilesBySuffix(opts.Root, TempFileSuffix)
		if err != nil {
			slog.Warn("temp file cleanup incomplete", "root", opts.Root, "error", err)
		}

		summary.TempRemoved = removed
	}

	o.warnOnEmptyRun(summary)

	return summary, nil
}

func (o *injectOrchestrator) validateRoot(root m.Path) error {
	info, err := o.fs.FileInfo(root)
	if err != nil {
		return classifyFSError(OpScan, root, err)
	}

	if !info.IsDir() {
		return &FSError{Op: OpScan, Kind: KindNotDirectory, Path: root}
	}

	return nil
}

// enumerate lists scripts honoring the user's filters, and maps by fixed
// pattern independent of those filters; map discovery must stay
// exhaustive no matter which scripts the user targeted. Both lists are
// re-checked by strict suffix classification.
func (o *injectOrchestrator) enumerate(opts InjectRunOptions) ([]m.Path, map[m.Path]struct{}, error) {
	candidates, err := o.fs.ListFiles(opts.Root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}

	var scripts []m.Path

	for _, path := range candidates {
		if IsScriptPath(path) {
			scripts = append(scripts, path)
		}
	}

	mapFiles, err := o.fs.ListFiles(opts.Root, []string{"*.map"}, nil)
	if err != nil {
		return nil, nil, err
	}

	mapSet := make(map[m.Path]struct{})

	for _, path := range mapFiles {
		if IsMapPath(path) {
			mapSet[path] = struct{}{}
		}
	}

	return scripts, mapSet, nil
}

func (o *injectOrchestrator) processScript(script m.Path, mapSet map[m.Path]struct{}, opts InjectRunOptions, summary *m.InjectSummary) {
	mapPath, err := DiscoverMapPath(script, mapSet)
	if err != nil {
		slog.Error("failed to resolve map pairing", "script", script, "error", err)
		summary.Failures = append(summary.Failures, m.FileFailure{Path: script, Err: err})

		return
	}

	if mapPath == "" {
		slog.Debug("no source map found for script", "script", script)
		summary.Skipped++

		return
	}

	id, err := ComputeSourceMapID(mapPath)
	if err != nil {
		slog.Error("failed to hash source map", "map", mapPath, "error", err)
		summary.Failures = append(summary.Failures, m.FileFailure{Path: mapPath, Err: err})

		return
	}

	if err := InjectMarker(script, id, InjectOptions{DryRun: opts.DryRun, Preview: opts.Preview}); err != nil {
		slog.Error("failed to inject marker", "script", script, "error", err)
		summary.Failures = append(summary.Failures, m.FileFailure{Path: script, Err: err})

		return
	}

	summary.Injected++
}

func (o *injectOrchestrator) warnOnEmptyRun(summary m.InjectSummary) {
	if summary.ScriptsFound == 0 {
		slog.Warn("no JavaScript files found; check the directory and include patterns")
		return
	}

	if summary.Injected == 0 {
		slog.Warn("JavaScript files were found but none were injected; are the source maps in the scanned directory?")
	}
}
