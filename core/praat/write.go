package praat

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/validation"
)

// Extension is appended to document names when writing into a directory.
const Extension = "TextGrid"

// Injectable functions for testing
var (
	osStatWrite        = os.Stat
	osMkdirAllWrite    = os.MkdirAll
	osCreateTempWrite  = os.CreateTemp
	osRenameWrite      = os.Rename
	gzipNewWriterLevel = gzip.NewWriterLevel
	xzNewWriter        = xz.NewWriter
)

// Resolve returns the file Write would create for doc at dest. A dest
// that is an existing directory or has no extension is a directory, and
// the file inside it is named after the document.
func Resolve(doc *textgrid.Document, dest string) (string, error) {
	if err := validation.ValidatePath(dest); err != nil {
		return "", errors.NewIO("write", dest, err)
	}
	info, err := osStatWrite(dest)
	isDir := err == nil && info.IsDir()
	if !isDir && filepath.Ext(dest) != "" {
		return dest, nil
	}

	name, err := validation.SanitizeFilename(doc.Name)
	if err != nil {
		name = textgrid.DefaultName
	}
	rel, err := validation.SanitizePath(dest, name+"."+Extension)
	if err != nil {
		return "", errors.NewIO("write", dest, err)
	}
	return filepath.Join(dest, rel), nil
}

// Write renders doc in mode and writes it to the file chosen by Resolve,
// creating parent directories. A ".xz" or ".gz" destination is compressed.
// Documents rejected by CheckNumbers are not written.
func Write(doc *textgrid.Document, dest string, mode Mode) error {
	if err := CheckNumbers(doc); err != nil {
		return err
	}
	path, err := Resolve(doc, dest)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := osMkdirAllWrite(dir, 0755); err != nil {
		return errors.NewIO("create directory", dir, err)
	}

	tmp, err := osCreateTempWrite(dir, ".textgrid-*")
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()

	if err := writeCompressed(tmp, path, Render(doc, mode)); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	if err := osRenameWrite(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

func writeCompressed(w io.Writer, path, text string) error {
	var zw io.WriteCloser
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		if zw, err = xzNewWriter(w); err != nil {
			return fmt.Errorf("failed to create xz writer: %w", err)
		}
	case ".gz":
		if zw, err = gzipNewWriterLevel(w, gzip.BestCompression); err != nil {
			return fmt.Errorf("failed to create gzip writer: %w", err)
		}
	default:
		_, err = io.WriteString(w, text)
		return err
	}
	if _, err := io.WriteString(zw, text); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
