package adapter

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	m "github.com/symup/symup/internal/model"
)

// ReceiptStore records successful uploads locally so `symup list --local`
// works without network access.
type ReceiptStore interface {
	Append(receipt m.UploadReceipt) error
	List() ([]m.UploadReceipt, error)
}

// GobReceiptStore persists receipts as a gob-encoded file. Writes rewrite
// the file whole through a temp file plus rename, so a crash mid-write
// never corrupts the existing log.
type GobReceiptStore struct {
	path string
	mu   sync.Mutex
}

// NewGobReceiptStore creates a store backed by the given file path.
func NewGobReceiptStore(path m.Path) *GobReceiptStore {
	return &GobReceiptStore{path: string(path)}
}

// Append adds one receipt to the log.
func (s *GobReceiptStore) Append(receipt m.UploadReceipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipts, err := s.load()
	if err != nil {
		return err
	}

	receipts = append(receipts, receipt)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create receipt directory: %w", err)
	}

	tmpPath := s.path + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create receipt log: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(receipts); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("encode receipts: %w", err)
	}

	if err := f.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("commit receipt log: %w", err)
	}

	slog.Debug("recorded upload receipt", "path", s.path, "artifact", receipt.ArtifactID)

	return nil
}

// List returns every recorded receipt. A missing log is an empty list.
func (s *GobReceiptStore) List() ([]m.UploadReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

func (s *GobReceiptStore) load() ([]m.UploadReceipt, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("open receipt log: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	var receipts []m.UploadReceipt
	if err := gob.NewDecoder(f).Decode(&receipts); err != nil {
		return nil, fmt.Errorf("decode receipt log %s: %w", s.path, err)
	}

	return receipts, nil
}
