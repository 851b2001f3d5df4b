package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chazu/wrangle/pkg/mesh"
)

// Encode serializes m to w in format f. name is used where the format
// carries one (the STL solid name). The whole document is rendered before
// anything is written, so a derivation failure leaves w untouched.
func Encode(w io.Writer, m *mesh.Mesh, f Format, name string) error {
	var buf bytes.Buffer
	if err := render(&buf, m, f, name); err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("format: write %s: %w", f, err)
	}
	return nil
}

// Save writes m to path in format f. The document is written to a
// temporary file next to path and renamed into place, so path is either
// replaced completely or left as it was.
func Save(m *mesh.Mesh, path string, f Format) (err error) {
	var buf bytes.Buffer
	if err := render(&buf, m, f, solidName(path)); err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}
	if err = tmp.Chmod(saveMode(path)); err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("format: save %s: %w", path, err)
	}
	return nil
}

// defaultFileMode is the mode of newly created mesh files.
const defaultFileMode os.FileMode = 0o644

// saveMode keeps the permissions of an existing file at path.
func saveMode(path string) os.FileMode {
	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		return fi.Mode().Perm()
	}
	return defaultFileMode
}

// SaveNamed is Save with the format given by its identifier.
func SaveNamed(m *mesh.Mesh, path, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	return Save(m, path, f)
}

func render(buf *bytes.Buffer, m *mesh.Mesh, f Format, name string) error {
	switch f {
	case Obj:
		writeObj(buf, m)
		return nil
	case StlASCII:
		return writeStlASCII(buf, m, name)
	default:
		return fmt.Errorf("format: %s: %w", f, ErrUnsupportedFormat)
	}
}
