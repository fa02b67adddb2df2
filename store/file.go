package store

import (
	"os"
	"path/filepath"
)

// FileBackend treats document names as filesystem paths.
type FileBackend struct{}

func NewFileBackend() *FileBackend {
	return &FileBackend{}
}

func (f *FileBackend) Load(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Save writes to a sibling temp file and renames it over name, so readers
// never observe a half-written document.
func (f *FileBackend) Save(name string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), filepath.Base(name)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
