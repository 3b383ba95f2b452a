package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrInvalidName = errors.New("invalid file name")

// Disk stores uploaded images in a single flat directory, keyed by the
// name the client supplied. Saving an existing name replaces the file.
type Disk struct {
	Dir string
}

func NewDisk(dir string) *Disk {
	return &Disk{Dir: dir}
}

// Path returns the location of name inside the upload directory.
func (d *Disk) Path(name string) string {
	return filepath.Join(d.Dir, name)
}

// Save writes src to the upload directory under name and returns the full
// path. The directory is created on first use. The content is written to a
// temporary file first so readers never observe a partial image.
func (d *Disk) Save(name string, src io.Reader) (string, error) {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload directory")
	}

	tmpPath := filepath.Join(d.Dir, "."+uuid.NewString()+".part")
	tmp, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "create temporary file")
	}

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrapf(err, "write %s", name)
	}

	dst := d.Path(name)
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return "", errors.Wrapf(err, "store %s", name)
	}

	return dst, nil
}
