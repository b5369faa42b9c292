// Package fs provides file-based content sources and document storage.
package fs

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/refbook"
)

// Sources walks dir recursively and yields every markdown file in lexical
// path order. Names are slash-separated and relative to dir.
func Sources(dir string) iter.Seq2[refbook.Source, error] {
	return func(yield func(refbook.Source, error) bool) {
		var paths []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.EqualFold(filepath.Ext(path), ".md") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			yield(refbook.Source{}, refbook.Errorf(refbook.EINVALID, "content directory %s: %v", dir, err))
			return
		}

		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				yield(refbook.Source{}, err)
				return
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				rel = path
			}
			if !yield(refbook.Source{Name: filepath.ToSlash(rel), Data: data}, nil) {
				return
			}
		}
	}
}
