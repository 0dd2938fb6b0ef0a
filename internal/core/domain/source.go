package domain

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

// Source describes where a project's source tree comes from.
// The set of implementations is closed: ArchiveSource and RepositorySource.
type Source interface {
	// DirName returns the name of the directory the source tree materializes into.
	DirName() (string, error)
	// Location returns the URL the source is fetched from.
	Location() string

	isSource()
}

// ArchiveSource is a release tarball fetched over HTTP(S).
type ArchiveSource struct {
	URL string
}

// RepositorySource is a git repository cloned at an exact tag.
type RepositorySource struct {
	URL       string
	Tag       string
	Recursive bool
}

func (ArchiveSource) isSource()    {}
func (RepositorySource) isSource() {}

// Location returns the archive URL.
func (s ArchiveSource) Location() string { return s.URL }

// Location returns the repository URL.
func (s RepositorySource) Location() string { return s.URL }

// FileName returns the archive file name taken from the URL path (e.g. "libass-0.17.3.tar.xz").
func (s ArchiveSource) FileName() (string, error) {
	return urlBase(s.URL)
}

// DirName strips the compound extension from the archive file name,
// so "libass-0.17.3.tar.xz" extracts to "libass-0.17.3".
func (s ArchiveSource) DirName() (string, error) {
	name, err := s.FileName()
	if err != nil {
		return "", err
	}
	return trimSuffixes(name, 2), nil
}

// DirName strips the last extension from the repository file name,
// so "libplacebo.git" clones to "libplacebo".
func (s RepositorySource) DirName() (string, error) {
	name, err := urlBase(s.URL)
	if err != nil {
		return "", err
	}
	return trimSuffixes(name, 1), nil
}

func urlBase(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", zerr.With(errors.Join(ErrInvalidSource, err), "url", raw)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return "", zerr.With(zerr.Wrap(ErrInvalidSource, "no file name in url"), "url", raw)
	}
	return name, nil
}

// trimSuffixes removes up to n dot-separated suffixes from the right of name.
func trimSuffixes(name string, n int) string {
	for range n {
		i := strings.LastIndexByte(name, '.')
		if i <= 0 {
			break
		}
		name = name[:i]
	}
	return name
}
