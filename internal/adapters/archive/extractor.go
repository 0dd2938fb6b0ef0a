// Package archive unpacks compressed source tarballs.
package archive

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"go.trai.ch/zerr"
)

// ErrUnsupportedFormat is returned for archives whose suffix has no decompressor.
var ErrUnsupportedFormat = zerr.New("unsupported archive format")

// ErrUnsafePath is returned when an archive entry would land outside the destination.
var ErrUnsafePath = zerr.New("archive entry escapes destination")

// Extractor implements ports.ArchiveExtractor for tarballs.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract unpacks the tarball at path into destDir.
// The compression is chosen by file suffix: .tar.xz, .tar.gz, .tar.zst, .tar.bz2 or plain .tar.
func (e *Extractor) Extract(ctx context.Context, path, destDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive"), "path", path)
	}
	defer func() {
		_ = f.Close()
	}()

	r, closeFn, err := decompressor(path, f)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open archive stream"), "path", path)
	}
	defer closeFn()

	if err := untar(ctx, r, destDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to extract archive"), "path", path)
	}
	return nil
}

func decompressor(path string, r io.Reader) (io.Reader, func(), error) {
	name := strings.ToLower(filepath.Base(path))
	noop := func() {}

	switch {
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to create xz reader")
		}
		return xzr, noop, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		gzr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to create gzip reader")
		}
		return gzr, func() { _ = gzr.Close() }, nil
	case strings.HasSuffix(name, ".tar.zst"), strings.HasSuffix(name, ".tzst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, zerr.Wrap(err, "failed to create zstd reader")
		}
		return zr, zr.Close, nil
	case strings.HasSuffix(name, ".tar.bz2"), strings.HasSuffix(name, ".tbz2"):
		return bzip2.NewReader(r), noop, nil
	case strings.HasSuffix(name, ".tar"):
		return r, noop, nil
	default:
		return nil, nil, ErrUnsupportedFormat
	}
}

func untar(ctx context.Context, r io.Reader, destDir string) error {
	root, err := filepath.Abs(destDir)
	if err != nil {
		return zerr.Wrap(err, "failed to resolve destination")
	}

	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read tar entry")
		}

		target, err := entryPath(root, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, dirMode(hdr)); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", target)
			}
		case tar.TypeReg:
			if err := writeFile(tr, target, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return zerr.Wrap(err, "failed to create parent directory")
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return zerr.With(zerr.Wrap(err, "failed to create symlink"), "path", target)
			}
		case tar.TypeLink:
			source, err := entryPath(root, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := os.Link(source, target); err != nil && !os.IsExist(err) {
				return zerr.With(zerr.Wrap(err, "failed to create hard link"), "path", target)
			}
		default:
			// pax global headers and device nodes carry nothing a source tree needs.
		}
	}
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", zerr.With(zerr.Wrap(ErrUnsafePath, "rejected tar entry"), "entry", name)
	}
	return target, nil
}

func dirMode(hdr *tar.Header) os.FileMode {
	mode := os.FileMode(hdr.Mode).Perm()
	if mode == 0 {
		return 0o755
	}
	return mode | 0o700
}

func writeFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return zerr.Wrap(err, "failed to create parent directory")
	}
	if mode == 0 {
		mode = 0o644
	}

	//nolint:gosec // target is confined to the destination by entryPath
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create file"), "path", target)
	}
	//nolint:gosec // source archives are trusted release tarballs
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", target)
	}
	return out.Close()
}
