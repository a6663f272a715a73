package importer

import (
	"io"
	"os"
	"path/filepath"
	"sort"
)

// FileStore is the spool storage capability the importer depends on: list
// the files at the root, stream one file, delete one file, resolve its
// path for diagnostics. Nothing beyond these four operations is assumed
// about the physical storage.
type FileStore interface {
	List() ([]string, error)
	Open(name string) (io.ReadCloser, error)
	Remove(name string) error
	Path(name string) string
}

// DirStore serves spool files from a local directory.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

func (s *DirStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, name))
}

func (s *DirStore) Remove(name string) error {
	return os.Remove(filepath.Join(s.root, name))
}

func (s *DirStore) Path(name string) string {
	return filepath.Join(s.root, name)
}
