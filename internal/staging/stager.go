// Package staging writes accepted image payloads to a single managed
// directory under collision-resistant names, and deletes only files it
// owns. The managed root is the one location the stager is authorized to
// touch; cleanup refuses anything whose parent is not exactly that root.
package staging

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// filePrefix is the fixed leading component of every staged filename.
const filePrefix = "chat_image"

// ErrOutsideRoot indicates a path targeted an area outside the managed
// directory.
var ErrOutsideRoot = errors.New("path outside managed directory")

// Stager stages byte payloads into one managed root directory.
type Stager struct {
	root   string
	logger *slog.Logger
}

// New creates a Stager rooted at dir. The directory itself is created
// lazily on first Stage call.
func New(log *slog.Logger, dir string) (*Stager, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("staging dir is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stager{
		root:   abs,
		logger: log.With(slog.String("service", "staging")),
	}, nil
}

// Root returns the absolute managed directory path.
func (s *Stager) Root() string { return s.root }

// Stage writes data verbatim to a new file inside the managed root and
// returns its path. The filename is built from the fixed prefix, a 128-bit
// random hex token, and ext. Directory creation is idempotent and safe
// under concurrent callers. An existing file is never overwritten: the
// token is re-rolled on the (negligible) chance of a collision.
func (s *Stager) Stage(_ context.Context, data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("create staging dir: %w", err)
	}
	if strings.TrimSpace(ext) == "" {
		ext = "png"
	}
	for {
		token := uuid.New()
		name := fmt.Sprintf("%s_%s.%s", filePrefix, hex.EncodeToString(token[:]), ext)
		dest := filepath.Join(s.root, name)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", fmt.Errorf("create staged file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			_ = os.Remove(dest)
			return "", fmt.Errorf("write staged file: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(dest)
			return "", fmt.Errorf("close staged file: %w", err)
		}
		s.logger.Debug("staged image", slog.String("path", dest), slog.Int("size", len(data)))
		return dest, nil
	}
}

// Cleanup deletes the staged file at path and reports whether it did.
// It returns false without deleting anything when the file does not exist
// or when its parent directory is not exactly the managed root. The
// confinement check is a security boundary: a manipulated path string,
// including one with ../ segments, must never reach files outside the root.
func (s *Stager) Cleanup(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		s.logger.Warn("cleanup path resolve failed", slog.String("path", path), slog.Any("error", err))
		return false
	}
	if filepath.Dir(abs) != s.root {
		s.logger.Warn("cleanup refused", slog.String("path", path), slog.Any("error", ErrOutsideRoot))
		return false
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return false
	}
	if !info.Mode().IsRegular() {
		s.logger.Warn("cleanup refused non-regular file", slog.String("path", path))
		return false
	}
	if err := os.Remove(abs); err != nil {
		s.logger.Warn("cleanup failed", slog.String("path", path), slog.Any("error", err))
		return false
	}
	s.logger.Debug("cleaned staged image", slog.String("path", abs))
	return true
}
