package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/report"
)

// tempArtifactPrefix marks in-flight writes. Readers never see these names.
const tempArtifactPrefix = ".tmp-"

// FileArtifactStore stores generated documents as files under a single root directory.
// The file reference of an artifact is its name relative to the root.
type FileArtifactStore struct {
	root         string
	timeProvider TimeProvider
}

var _ core.ArtifactStore = (*FileArtifactStore)(nil)

// NewFileArtifactStore creates the root directory if needed.
func NewFileArtifactStore(root string) (*FileArtifactStore, error) {
	return NewFileArtifactStoreWithTimeProvider(root, &RealTimeProvider{})
}

// NewFileArtifactStoreWithTimeProvider creates a FileArtifactStore with a custom TimeProvider (useful for testing).
func NewFileArtifactStoreWithTimeProvider(root string, timeProvider TimeProvider) (*FileArtifactStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("artifact root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &FileArtifactStore{root: abs, timeProvider: timeProvider}, nil
}

// Root returns the absolute artifact directory.
func (s *FileArtifactStore) Root() string { return s.root }

// Put streams r into a temporary file, syncs it, then links it in under name. The
// link fails instead of replacing an existing artifact. A failure at any step
// removes the temporary file and leaves nothing new under name.
func (s *FileArtifactStore) Put(ctx context.Context, name string, r io.Reader) (*core.Artifact, error) {
	if err := report.ValidateArtifactName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.root, tempArtifactPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	size, err := io.Copy(tmp, r)
	if err != nil {
		return nil, fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("sync artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close artifact %s: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.Link(tmpName, filepath.Join(s.root, name)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("publish artifact %s: %w", name, core.ErrArtifactExists)
		}
		return nil, fmt.Errorf("publish artifact %s: %w", name, err)
	}
	return &core.Artifact{FileRef: name, Size: size}, nil
}

// Exists reports whether fileRef names a published artifact.
func (s *FileArtifactStore) Exists(_ context.Context, fileRef string) (bool, error) {
	if err := report.ValidateArtifactName(fileRef); err != nil {
		return false, err
	}
	info, err := os.Stat(filepath.Join(s.root, fileRef))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat artifact %s: %w", fileRef, err)
	}
	return info.Mode().IsRegular(), nil
}

// Delete removes the artifact; a missing file is not an error.
func (s *FileArtifactStore) Delete(_ context.Context, fileRef string) error {
	if err := report.ValidateArtifactName(fileRef); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, fileRef))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact %s: %w", fileRef, err)
	}
	return nil
}

// CleanupTemp removes temporary files older than maxAge left behind by crashed writers.
func (s *FileArtifactStore) CleanupTemp(ctx context.Context, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("read artifact root: %w", err)
	}
	cutoff := s.timeProvider.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempArtifactPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.root, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, fmt.Errorf("remove temp artifact %s: %w", entry.Name(), err)
		}
		removed++
	}
	return removed, nil
}
