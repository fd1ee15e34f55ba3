package model

import "time"

// Path represents a file system path.
type Path string

// SourceMapID is a deterministic identifier derived from the full byte
// contents of a source map file. It is formatted like a GUID
// (8-4-4-4-12 hex groups) but it is a truncated content hash, never a
// randomly generated value: identical map bytes always yield the
// identical ID.
type SourceMapID string

// ArtifactKind classifies a symbolication artifact on the backend.
type ArtifactKind string

const (
	// KindSourceMap is a JavaScript source map (.js.map and friends).
	KindSourceMap ArtifactKind = "sourcemap"

	// KindAndroidMapping is a ProGuard/R8 mapping.txt file.
	KindAndroidMapping ArtifactKind = "android-mapping"

	// KindDSYM is a zipped iOS debug-symbol bundle.
	KindDSYM ArtifactKind = "dsym"
)

// Pairing associates a JavaScript file with its discovered source map.
// Pairings are discovered per run, never persisted.
type Pairing struct {
	Script Path
	Map    Path
}

// FileFailure records a per-file error that did not abort the batch.
type FileFailure struct {
	Path Path
	Err  error
}

// InjectSummary aggregates the outcome of one injection run.
type InjectSummary struct {
	ScriptsFound int
	MapsFound    int
	Injected     int
	Skipped      int
	Failures     []FileFailure
	TempRemoved  int
}

// Artifact describes an artifact already present on the backend.
type Artifact struct {
	ID         string       `json:"id" yaml:"id"`
	Kind       ArtifactKind `json:"kind" yaml:"kind"`
	Name       string       `json:"name" yaml:"name"`
	AppName    string       `json:"appName,omitempty" yaml:"appName,omitempty"`
	AppVersion string       `json:"appVersion,omitempty" yaml:"appVersion,omitempty"`
	Size       int64        `json:"size" yaml:"size"`
	UploadedAt time.Time    `json:"uploadedAt" yaml:"uploadedAt"`
}

// UploadReceipt is the local record of a successful upload, appended to
// the receipt log so `symup list --local` works without network access.
type UploadReceipt struct {
	Kind       ArtifactKind
	Path       Path
	ArtifactID string
	AppName    string
	AppVersion string
	Size       int64
	UploadedAt time.Time
}
