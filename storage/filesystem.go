package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/casdoor/oss"
)

// LocalFileSystem stores objects on the local disk. Used in development and
// as the default when no cloud provider is configured.
type LocalFileSystem struct {
	Folder string
}

// NewFileSystem creates a new local file system storage.
// It ensures the folder exists; if not, it creates the folder.
func NewFileSystem(folder string) *LocalFileSystem {
	abs, err := filepath.Abs(folder)
	if err != nil {
		panic("failed to get absolute path for local file system storage's base folder")
	}
	if err := os.MkdirAll(abs, os.ModePerm); err != nil {
		panic("failed to create local file system storage's base folder")
	}
	return &LocalFileSystem{Folder: abs}
}

// GetFullPath returns the full path from absolute / relative path.
func (fs *LocalFileSystem) GetFullPath(p string) string {
	fp := p
	if !strings.HasPrefix(p, fs.Folder) {
		fp, _ = filepath.Abs(filepath.Join(fs.Folder, p))
	}
	return fp
}

// Get receives a file with the given path.
func (fs *LocalFileSystem) Get(p string) (*os.File, error) {
	return os.Open(fs.GetFullPath(p))
}

// GetStream gets a file as a stream.
func (fs *LocalFileSystem) GetStream(p string) (io.ReadCloser, error) {
	return os.Open(fs.GetFullPath(p))
}

// Put stores the reader into the given path.
func (fs *LocalFileSystem) Put(p string, r io.Reader) (*oss.Object, error) {
	fp := fs.GetFullPath(p)
	if err := os.MkdirAll(filepath.Dir(fp), os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directories for file path: %w", err)
	}

	dst, err := os.Create(fp)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return nil, fmt.Errorf("failed to copy data to file: %w", err)
	}

	return &oss.Object{Path: p, Name: filepath.Base(p), StorageInterface: fs}, nil
}

// Delete deletes a file.
func (fs *LocalFileSystem) Delete(p string) error {
	return os.Remove(fs.GetFullPath(p))
}

// List lists files.
func (fs *LocalFileSystem) List(p string) ([]*oss.Object, error) {
	var (
		objects []*oss.Object
		fp      = fs.GetFullPath(p)
	)

	err := filepath.Walk(fp, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == fp {
			return nil
		}

		if !info.IsDir() {
			mt := info.ModTime()
			objects = append(objects, &oss.Object{
				Path:             strings.TrimPrefix(p, fs.Folder),
				Name:             info.Name(),
				LastModified:     &mt,
				StorageInterface: fs,
			})
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	return objects, nil
}

// GetEndpoint gets the endpoint. For LocalFileSystem, the endpoint is "/".
func (fs *LocalFileSystem) GetEndpoint() string {
	return "/"
}

// GetURL gets the public accessible URL.
func (fs *LocalFileSystem) GetURL(p string) (string, error) {
	return p, nil
}
