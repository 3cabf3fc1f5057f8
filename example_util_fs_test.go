package nest_test

import (
	"io/fs"
	"testing/fstest"
)

// staticFS is a flat, read-only template directory for examples, mapping
// file names to their contents.
type staticFS map[string]string

func (s staticFS) Open(name string) (fs.File, error) {
	contents, ok := s[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return fstest.MapFS{name: {Data: []byte(contents), Mode: 0o400}}.Open(name)
}
