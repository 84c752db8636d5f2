package pipeline

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Store is the file access the annotator needs. Names are bare file names
// inside the store.
type Store interface {
	// List returns the regular files in enumeration order. Symlinks count
	// when they resolve to a regular file.
	List() ([]string, error)
	ReadFile(name string) ([]byte, error)
	Create(name string) (io.WriteCloser, error)
	// Path returns the location reported for an artifact.
	Path(name string) string
}

// DirStore is a flat, non-recursive view of one directory.
type DirStore struct {
	Dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{Dir: dir}
}

// List keeps the order the filesystem returns; it does not sort.
func (s *DirStore) List() ([]string, error) {
	d, err := os.Open(s.Dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	entries, err := d.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		switch {
		case e.Type().IsRegular():
			names = append(names, e.Name())
		case e.Type()&fs.ModeSymlink != 0:
			fi, err := os.Stat(s.Path(e.Name()))
			if err == nil && fi.Mode().IsRegular() {
				names = append(names, e.Name())
			}
		}
	}
	return names, nil
}

func (s *DirStore) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(s.Path(name))
}

func (s *DirStore) Create(name string) (io.WriteCloser, error) {
	return os.Create(s.Path(name))
}

func (s *DirStore) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
