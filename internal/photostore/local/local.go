package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/publicfix/publicfix/internal/photostore"
)

// formats lists the photo types the store accepts and the extension each is
// written with. The extension is the only place a key records its type.
var formats = []struct {
	mimeType string
	ext      string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// LocalPhotoStore keeps photos as flat files named <prefix>_<uuid><ext>
// under basePath.
type LocalPhotoStore struct {
	basePath string
}

func NewLocalPhotoStore(basePath string) (*LocalPhotoStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create photo directory: %w", err)
	}
	return &LocalPhotoStore{basePath: basePath}, nil
}

// Save writes r to a temporary file and renames it into place, so Get never
// sees a partial photo.
func (s *LocalPhotoStore) Save(ctx context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	if !validPrefix(prefix) {
		return "", fmt.Errorf("invalid photo key prefix %q", prefix)
	}
	ext, ok := extForMIME(mimeType)
	if !ok {
		return "", fmt.Errorf("unsupported photo type %q", mimeType)
	}
	key := prefix + "_" + uuid.NewString() + ext

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, filepath.Join(s.basePath, key))
	}
	if err != nil {
		if rerr := os.Remove(tmpPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			slog.Error("failed to remove temp photo", "path", tmpPath, "error", rerr)
		}
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	return key, nil
}

func (s *LocalPhotoStore) Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error) {
	mimeType, err := parseKey(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(filepath.Join(s.basePath, storageKey))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", photostore.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to open photo: %w", err)
	}
	return f, mimeType, nil
}

func (s *LocalPhotoStore) Delete(ctx context.Context, storageKey string) error {
	if _, err := parseKey(storageKey); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.basePath, storageKey)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return photostore.ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

// parseKey accepts only keys of the shape Save produces and returns the
// photo's MIME type. Anything else, path separators included, is not found.
func parseKey(key string) (string, error) {
	ext := filepath.Ext(key)
	mimeType, ok := mimeForExt(ext)
	if !ok {
		return "", fmt.Errorf("unknown photo extension in %q: %w", key, photostore.ErrNotFound)
	}

	stem := strings.TrimSuffix(key, ext)
	i := strings.LastIndexByte(stem, '_')
	if i < 0 || !validPrefix(stem[:i]) {
		return "", fmt.Errorf("malformed photo key %q: %w", key, photostore.ErrNotFound)
	}
	// uuid.Parse also takes braced, urn and unhyphenated forms; Save only
	// writes the canonical 36-character one.
	id := stem[i+1:]
	if len(id) != 36 {
		return "", fmt.Errorf("malformed photo key %q: %w", key, photostore.ErrNotFound)
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("malformed photo key %q: %w", key, photostore.ErrNotFound)
	}
	return mimeType, nil
}

// validPrefix reports whether p is a non-empty run of lowercase ASCII letters.
func validPrefix(p string) bool {
	if p == "" {
		return false
	}
	for _, c := range p {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}

func extForMIME(mimeType string) (string, bool) {
	for _, f := range formats {
		if f.mimeType == mimeType {
			return f.ext, true
		}
	}
	return "", false
}

func mimeForExt(ext string) (string, bool) {
	for _, f := range formats {
		if f.ext == ext {
			return f.mimeType, true
		}
	}
	return "", false
}
