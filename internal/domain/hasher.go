package domain

import (
	"crypto/sha256"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	m "github.com/symup/symup/internal/model"
)

// ComputeSourceMapID derives the SourceMapID for the map file at path.
//
// The full file is streamed through SHA-256 and the first 16 digest bytes
// are rendered in the 8-4-4-4-12 hex grouping. The remaining hash bits are
// discarded, so this is a truncation rather than a full-entropy GUID;
// collisions are theoretically possible and acceptable here. The result is
// a pure function of the file bytes: any byte change, including
// whitespace, changes the ID.
func ComputeSourceMapID(path m.Path) (m.SourceMapID, error) {
	f, err := os.Open(string(path))
	if err != nil {
		return "", classifyFSError(OpRead, path, err)
	}

	defer func() {
		_ = f.Close()
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", classifyFSError(OpRead, path, err)
	}

	id, err := uuid.FromBytes(h.Sum(nil)[:16])
	if err != nil {
		// Unreachable: FromBytes only fails on length != 16.
		return "", err
	}

	slog.Debug("computed source map id", "path", path, "id", id.String())

	return m.SourceMapID(id.String()), nil
}
