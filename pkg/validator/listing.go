package validator

import (
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// Listing is a snapshot of the regular files in a skill directory, as
// slash-separated paths relative to the directory.
type Listing struct {
	fsys  fs.FS
	files []string
	err   error
}

// NewListing walks dir once. A walk error is kept on the listing and
// returned by every query so that only the rules needing files fail.
func NewListing(dir string) *Listing {
	fsys := os.DirFS(dir)
	files, err := doublestar.Glob(fsys, "**", doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
	if err != nil {
		return &Listing{fsys: fsys, err: errors.Wrap(err, "failed to list skill directory")}
	}
	return &Listing{fsys: fsys, files: files}
}

// Match returns the files matching a doublestar pattern, in listing order.
func (l *Listing) Match(pattern string) ([]string, error) {
	if l.err != nil {
		return nil, l.err
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.Errorf("invalid pattern %q", pattern)
	}

	var matched []string
	for _, f := range l.files {
		if ok, _ := doublestar.Match(pattern, f); ok {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// ReadFile reads a file from the listed directory.
func (l *Listing) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return data, nil
}
