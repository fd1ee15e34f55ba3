package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/symup/symup/internal/adapter"
	"github.com/symup/symup/internal/controller"
	m "github.com/symup/symup/internal/model"
)

// UploadSourceMapsArgs configures a source map batch upload.
type UploadSourceMapsArgs struct {
	Root       m.Path
	AppName    string
	AppVersion string
	Threads    int
}

// UploadAndroidArgs configures a ProGuard/R8 mapping upload.
type UploadAndroidArgs struct {
	MappingPath   m.Path
	ManifestPath  m.Path
	ApplicationID string
	VersionCode   string
	VersionName   string
}

// UploadDSYMArgs configures an iOS debug-symbol upload.
type UploadDSYMArgs struct {
	Root m.Path
}

// ListArtifactsArgs configures the artifact listing.
type ListArtifactsArgs struct {
	Kind      m.ArtifactKind
	LocalOnly bool
}

// Uploader is the upload-side workflow: it prepares artifacts, talks to
// the backend and records receipts. Per-file failures never abort the
// batch; they are aggregated into the final error so the CLI can exit
// non-zero after finishing everything it could.
type Uploader interface {
	UploadSourceMaps(ctx context.Context, args UploadSourceMapsArgs) error
	UploadAndroidMapping(ctx context.Context, args UploadAndroidArgs) error
	UploadDSYMs(ctx context.Context, args UploadDSYMArgs) error
	ListArtifacts(ctx context.Context, args ListArtifactsArgs) ([]m.Artifact, error)
}

type uploader struct {
	fs       adapter.SourceFSAdapter
	backend  adapter.BackendClient
	archive  adapter.ArchiveAdapter
	manifest adapter.ManifestAdapter
	receipts adapter.ReceiptStore
	ui       controller.UI
}

// NewUploader constructs the upload workflow from its collaborators.
func NewUploader(
	fs adapter.SourceFSAdapter,
	backend adapter.BackendClient,
	archive adapter.ArchiveAdapter,
	manifest adapter.ManifestAdapter,
	receipts adapter.ReceiptStore,
	ui controller.UI,
) Uploader {
	return &uploader{
		fs:       fs,
		backend:  backend,
		archive:  archive,
		manifest: manifest,
		receipts: receipts,
		ui:       ui,
	}
}

// UploadSourceMaps discovers every map under the root, warns when the
// paired script was never injected, and uploads each map keyed by its
// SourceMapID. Uploads fan out over at most args.Threads workers.
func (u *uploader) UploadSourceMaps(ctx context.Context, args UploadSourceMapsArgs) error {
	files, err := u.fs.ListFiles(args.Root, []string{"*.map"}, nil)
	if err != nil {
		return classifyFSError(OpScan, args.Root, err)
	}

	var maps []m.Path

	for _, path := range files {
		if IsMapPath(path) {
			maps = append(maps, path)
		}
	}

	if len(maps) == 0 {
		slog.Warn("no source maps found", "root", args.Root)
		u.ui.DisplayUploadSummary(m.KindSourceMap, 0, nil)

		return nil
	}

	u.ui.DisplayUploadStart(m.KindSourceMap, len(maps))

	var (
		mu       sync.Mutex
		failures []m.FileFailure
		uploaded int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(normalizeThreads(args.Threads))

	for _, mapPath := range maps {
		group.Go(func() error {
			err := u.uploadOneMap(groupCtx, mapPath, args)

			mu.Lock()
			if err != nil {
				failures = append(failures, m.FileFailure{Path: mapPath, Err: err})
			} else {
				uploaded++
			}
			mu.Unlock()

			u.ui.DisplayUploadResult(mapPath, err)

			// Failures are aggregated, not returned: one bad file must
			// not cancel the rest of the batch.
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	u.ui.DisplayUploadSummary(m.KindSourceMap, uploaded, failures)

	return failuresToError(len(maps), failures)
}

func (u *uploader) uploadOneMap(ctx context.Context, mapPath m.Path, args UploadSourceMapsArgs) error {
	if result := WasAlreadyInjected(mapPath); !result.Verified {
		slog.Warn("paired script may be missing its injected id", "map", mapPath, "detail", result.Message)
		u.ui.DisplayVerifyWarning(result.Message)
	}

	id, err := ComputeSourceMapID(mapPath)
	if err != nil {
		return err
	}

	fields := map[string]string{
		"sourceMapId": string(id),
		"appName":     args.AppName,
		"appVersion":  args.AppVersion,
	}

	artifact, err := u.backend.UploadArtifact(ctx, m.KindSourceMap, mapPath, fields)
	if err != nil {
		return err
	}

	u.record(m.KindSourceMap, mapPath, artifact, args.AppName, args.AppVersion)

	return nil
}

// UploadAndroidMapping uploads a single mapping file. Identity fields
// missing from the args are filled from the AndroidManifest.xml when one
// was supplied.
func (u *uploader) UploadAndroidMapping(ctx context.Context, args UploadAndroidArgs) error {
	if _, err := u.fs.FileInfo(args.MappingPath); err != nil {
		return classifyFSError(OpRead, args.MappingPath, err)
	}

	if args.ManifestPath != "" {
		info, err := u.manifest.ParseAppInfo(args.ManifestPath)
		if err != nil {
			return err
		}

		if args.ApplicationID == "" {
			args.ApplicationID = info.ApplicationID
		}

		if args.VersionCode == "" {
			args.VersionCode = info.VersionCode
		}

		if args.VersionName == "" {
			args.VersionName = info.VersionName
		}
	}

	if args.ApplicationID == "" {
		return fmt.Errorf("application id is required; pass --app-id or --manifest")
	}

	u.ui.DisplayUploadStart(m.KindAndroidMapping, 1)

	fields := map[string]string{
		"applicationId": args.ApplicationID,
		"versionCode":   args.VersionCode,
		"versionName":   args.VersionName,
	}

	artifact, err := u.backend.UploadArtifact(ctx, m.KindAndroidMapping, args.MappingPath, fields)
	u.ui.DisplayUploadResult(args.MappingPath, err)

	if err != nil {
		return err
	}

	u.record(m.KindAndroidMapping, args.MappingPath, artifact, args.ApplicationID, args.VersionName)
	u.ui.DisplayUploadSummary(m.KindAndroidMapping, 1, nil)

	return nil
}

// UploadDSYMs zips every dSYM bundle under the root and uploads the
// archives sequentially, continuing past per-bundle failures.
func (u *uploader) UploadDSYMs(ctx context.Context, args UploadDSYMArgs) error {
	bundles, err := u.findBundles(args.Root)
	if err != nil {
		return err
	}

	if len(bundles) == 0 {
		slog.Warn("no dSYM bundles found", "root", args.Root)
		u.ui.DisplayUploadSummary(m.KindDSYM, 0, nil)

		return nil
	}

	stagingDir, err := os.MkdirTemp("", "symup-dsym-*")
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	u.ui.DisplayUploadStart(m.KindDSYM, len(bundles))

	var failures []m.FileFailure

	uploaded := 0

	for _, bundle := range bundles {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := u.uploadOneBundle(ctx, bundle, stagingDir)

		u.ui.DisplayUploadResult(bundle, err)

		if err != nil {
			slog.Error("failed to upload dSYM bundle", "bundle", bundle, "error", err)
			failures = append(failures, m.FileFailure{Path: bundle, Err: err})

			continue
		}

		uploaded++
	}

	u.ui.DisplayUploadSummary(m.KindDSYM, uploaded, failures)

	return failuresToError(len(bundles), failures)
}

func (u *uploader) findBundles(root m.Path) ([]m.Path, error) {
	info, err := u.fs.FileInfo(root)
	if err != nil {
		return nil, classifyFSError(OpScan, root, err)
	}

	// The root may itself be a bundle.
	if info.IsDir() && filepath.Ext(string(root)) == ".dSYM" {
		return []m.Path{root}, nil
	}

	if !info.IsDir() {
		return nil, &FSError{Op: OpScan, Kind: KindNotDirectory, Path: root}
	}

	return u.fs.ListDirsBySuffix(root, ".dSYM")
}

func (u *uploader) uploadOneBundle(ctx context.Context, bundle m.Path, stagingDir string) error {
	archivePath := m.Path(filepath.Join(stagingDir, filepath.Base(string(bundle))+".zip"))

	size, err := u.archive.ZipDirectory(bundle, archivePath)
	if err != nil {
		return err
	}

	slog.Debug("archived dSYM bundle", "bundle", bundle, "archive", archivePath, "size", size)

	artifact, err := u.backend.UploadArtifact(ctx, m.KindDSYM, archivePath, nil)
	if err != nil {
		return err
	}

	u.record(m.KindDSYM, bundle, artifact, "", "")

	return nil
}

// ListArtifacts returns backend artifacts, or the local receipt log when
// LocalOnly is set.
func (u *uploader) ListArtifacts(ctx context.Context, args ListArtifactsArgs) ([]m.Artifact, error) {
	if args.LocalOnly {
		receipts, err := u.receipts.List()
		if err != nil {
			return nil, err
		}

		var artifacts []m.Artifact

		for _, r := range receipts {
			if args.Kind != "" && r.Kind != args.Kind {
				continue
			}

			artifacts = append(artifacts, m.Artifact{
				ID:         r.ArtifactID,
				Kind:       r.Kind,
				Name:       filepath.Base(string(r.Path)),
				AppName:    r.AppName,
				AppVersion: r.AppVersion,
				Size:       r.Size,
				UploadedAt: r.UploadedAt,
			})
		}

		return artifacts, nil
	}

	return u.backend.ListArtifacts(ctx, args.Kind)
}

// record appends a local receipt; a failed receipt write is logged but
// never fails an upload that already succeeded.
func (u *uploader) record(kind m.ArtifactKind, path m.Path, artifact m.Artifact, appName, appVersion string) {
	receipt := m.UploadReceipt{
		Kind:       kind,
		Path:       path,
		ArtifactID: artifact.ID,
		AppName:    appName,
		AppVersion: appVersion,
		Size:       artifact.Size,
		UploadedAt: time.Now().UTC(),
	}

	if err := u.receipts.Append(receipt); err != nil {
		slog.Warn("failed to record upload receipt", "path", path, "error", err)
	}
}

func normalizeThreads(threads int) int {
	if threads <= 0 {
		return 1
	}

	return threads
}

func failuresToError(total int, failures []m.FileFailure) error {
	if len(failures) == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d uploads failed; see the log for details", len(failures), total)
}
