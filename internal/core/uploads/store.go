// Package uploads stores post images on the local filesystem.
package uploads

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// postsDir is the sub-directory of the upload root holding post images.
const postsDir = "posts"

// Store writes images under a root directory and hands out references
// relative to it.
type Store struct {
	logger   *slog.Logger
	root     string
	maxBytes int64
}

// NewStore creates a store rooted at dir, creating it if necessary.
func NewStore(dir string, maxBytes int64, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Join(dir, postsDir), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{root: dir, maxBytes: maxBytes, logger: logger}, nil
}

// Root returns the directory served at MediaURLPrefix.
func (s *Store) Root() string {
	return s.root
}

// Save validates the image and writes it under a random name. The content
// type is sniffed from the data; the client-supplied type is not trusted.
func (s *Store) Save(ctx context.Context, img *Image) (string, error) {
	if img == nil || img.Body == nil {
		return "", fmt.Errorf("no image provided")
	}
	if img.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, img.Size, s.maxBytes)
	}

	br := bufio.NewReaderSize(img.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	mimeType := normalizeMimeType(http.DetectContentType(head))
	ext := extensionFor(mimeType)
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	ref := path.Join(postsDir, uuid.NewString()+ext)
	dst := filepath.Join(s.root, filepath.FromSlash(ref))

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}

	// One byte over the limit is enough to detect an oversized body whose
	// declared size was wrong.
	written, copyErr := io.Copy(f, io.LimitReader(br, s.maxBytes+1))
	closeErr := f.Close()
	if copyErr == nil && written > s.maxBytes {
		copyErr = fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.maxBytes)
	}
	if copyErr == nil {
		copyErr = ctx.Err()
	}
	if copyErr != nil || closeErr != nil {
		if rmErr := os.Remove(dst); rmErr != nil {
			s.logger.Warn("failed to remove partial upload", "path", dst, "error", rmErr)
		}
		if copyErr != nil {
			return "", copyErr
		}
		return "", fmt.Errorf("failed to write image: %w", closeErr)
	}

	s.logger.Debug("image stored", "ref", ref, "bytes", written, "type", mimeType)
	return ref, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *Store) Remove(_ context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	clean := path.Clean("/" + ref)
	if !strings.HasPrefix(clean, "/"+postsDir+"/") {
		return fmt.Errorf("%w: %s", ErrInvalidRef, ref)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image: %w", err)
	}
	return nil
}
