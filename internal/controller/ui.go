// Package controller provides output adapters for displaying injection
// and upload progress to the user. The domain layer never writes to the
// console directly; everything user-facing goes through a UI.
package controller

import (
	"os"

	"golang.org/x/term"

	m "github.com/symup/symup/internal/model"
)

// UI defines the interface for displaying symup progress and results.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	// DisplayInjectPreview shows one dry-run line.
	DisplayInjectPreview(jsPath m.Path, id m.SourceMapID)

	// DisplayInjectSummary renders the counts of one injection run.
	DisplayInjectSummary(summary m.InjectSummary)

	// DisplayUploadStart announces an upload batch of the given size.
	DisplayUploadStart(kind m.ArtifactKind, total int)

	// DisplayUploadResult reports one finished upload, failed or not.
	DisplayUploadResult(path m.Path, err error)

	// DisplayUploadSummary closes an upload batch.
	DisplayUploadSummary(kind m.ArtifactKind, uploaded int, failures []m.FileFailure)

	// DisplayVerifyWarning surfaces an upload-time verifier warning.
	DisplayVerifyWarning(message string)

	// DisplayArtifacts renders previously uploaded artifacts.
	DisplayArtifacts(artifacts []m.Artifact) error
}

// IsTTY reports whether f is an interactive terminal, used to pick
// between the simple and TUI implementations.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
