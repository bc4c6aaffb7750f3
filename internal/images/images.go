package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

// Driver identifies a document-area backend.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Store is the per-account document area holding uploaded profile images.
type Store interface {
	// Save writes data under name, replacing any previous content, and returns the
	// path to record on the member.
	Save(ctx context.Context, data []byte, name string) (string, error)
	// Load returns ok=false when nothing is stored at p.
	Load(ctx context.Context, p string) (data []byte, ok bool, err error)
	Driver() Driver
}

// ErrInvalidName is returned for names that are empty or escape the document area.
var ErrInvalidName = errors.New("images: invalid name")

// ProfileImageName is the document name used for an account's profile picture.
func ProfileImageName(account string) string {
	return account + "_profile.jpg"
}

func sanitizeName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", ErrInvalidName
	}
	clean := path.Clean(name)
	if clean != name || clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidName
	}
	return clean, nil
}

// Assets serves the images bundled with the catalog. Names are referenced without an
// extension, so Load falls back through the common image extensions.
type Assets struct {
	fsys fs.FS
}

var assetExtensions = []string{"", ".jpg", ".jpeg", ".png", ".webp"}

// NewAssets reads bundled images from dir.
func NewAssets(dir string) *Assets {
	return NewAssetsFS(os.DirFS(dir))
}

// NewAssetsFS reads bundled images from an arbitrary file system.
func NewAssetsFS(fsys fs.FS) *Assets {
	return &Assets{fsys: fsys}
}

// Load returns the asset bytes for name, or ok=false when no such asset exists.
func (a *Assets) Load(name string) ([]byte, bool) {
	clean, err := sanitizeName(name)
	if err != nil || a == nil || a.fsys == nil {
		return nil, false
	}
	for _, ext := range assetExtensions {
		data, err := fs.ReadFile(a.fsys, clean+ext)
		if err == nil {
			return data, true
		}
	}
	return nil, false
}

// Options configures Open.
type Options struct {
	Driver      Driver
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// Open selects a Store implementation from options.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverFilesystem:
		store, err := NewFilesystem(opts.Dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverS3:
		store, err := NewS3(ctx, S3Config{
			Bucket:    opts.S3Bucket,
			Region:    opts.S3Region,
			Endpoint:  opts.S3Endpoint,
			PathStyle: opts.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown image driver %s", opts.Driver)
	}
}
