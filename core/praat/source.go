package praat

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
	"github.com/FocuswithJustin/textgrid/internal/validation"
)

// Injectable functions for testing
var (
	osOpenSource  = os.Open
	osStatSource  = os.Stat
	gzipNewReader = gzip.NewReader
	xzNewReader   = xz.NewReader
)

type sourceKind int

const (
	sourcePath sourceKind = iota
	sourceText
	sourceLines
	sourceReader
)

// Source is where a document's text comes from. It yields the raw lines and
// the name the decoded document is given.
type Source struct {
	kind   sourceKind
	path   string
	text   string
	lines  []string
	reader io.Reader
	name   string
}

// FromPath reads the file at path. The document is named after the file.
func FromPath(path string) Source {
	return Source{kind: sourcePath, path: path, name: nameFromPath(path)}
}

// FromString treats s as a file path when a regular file exists there and
// as document text otherwise.
func FromString(s string) Source {
	if !strings.ContainsAny(s, "\n\"") {
		if info, err := osStatSource(s); err == nil && info.Mode().IsRegular() {
			return FromPath(s)
		}
	}
	return Source{kind: sourceText, text: s, name: textgrid.DefaultName}
}

// FromLines uses lines as they are.
func FromLines(lines []string) Source {
	return Source{kind: sourceLines, lines: lines, name: textgrid.DefaultName}
}

// FromReader reads everything from r. Compressed and UTF-16 input is
// handled the same way as for files.
func FromReader(r io.Reader) Source {
	return Source{kind: sourceReader, reader: r, name: textgrid.DefaultName}
}

// WithName returns a copy of s that names its document name.
func (s Source) WithName(name string) Source {
	s.name = name
	return s
}

// Name returns the document name.
func (s Source) Name() string {
	return s.name
}

// Path returns the file path, if the source is a file.
func (s Source) Path() string {
	return s.path
}

// Lines returns the raw lines of the source.
func (s Source) Lines() ([]string, error) {
	switch s.kind {
	case sourceLines:
		return s.lines, nil
	case sourceText:
		return splitLines(s.text), nil
	case sourceReader:
		data, err := readAll(s.reader, "")
		if err != nil {
			return nil, err
		}
		return splitLines(string(data)), nil
	default:
		if err := validation.ValidatePath(s.path); err != nil {
			return nil, errors.NewIO("open", s.path, err)
		}
		f, err := osOpenSource(s.path)
		if err != nil {
			return nil, errors.NewIO("open", s.path, err)
		}
		defer f.Close()
		data, err := readAll(f, s.path)
		if err != nil {
			return nil, err
		}
		return splitLines(string(data)), nil
	}
}

// readAll reads r up to MaxFileSize, unwraps xz or gzip compression found
// by magic bytes and transcodes UTF-16 to UTF-8.
func readAll(r io.Reader, path string) ([]byte, error) {
	data, err := readLimited(r, path)
	if err != nil {
		return nil, err
	}

	if ft := validation.DetectFileType(data); ft.Compressed() {
		if data, err = decompress(ft, data, path); err != nil {
			return nil, err
		}
	}

	// BOMOverride decodes UTF-16 with a byte order mark and leaves
	// everything else untouched.
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
	if err != nil {
		return nil, errors.NewIO("decode", path, err)
	}
	return out, nil
}

// decompress unwraps one layer of xz or gzip compression.
func decompress(ft validation.FileType, data []byte, path string) ([]byte, error) {
	var zr io.Reader
	switch ft {
	case validation.FileTypeXZ:
		xr, err := xzNewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewIO("decompress", path, fmt.Errorf("failed to create xz reader: %w", err))
		}
		zr = xr
	case validation.FileTypeGzip:
		gz, err := gzipNewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.NewIO("decompress", path, fmt.Errorf("failed to create gzip reader: %w", err))
		}
		defer gz.Close()
		zr = gz
	default:
		return data, nil
	}
	return readLimited(zr, path)
}

func readLimited(r io.Reader, path string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, validation.MaxFileSize+1))
	if err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	if len(data) > validation.MaxFileSize {
		return nil, &errors.ValidationError{
			Field:   "size",
			Value:   path,
			Message: fmt.Sprintf("input exceeds %d bytes", validation.MaxFileSize),
			Err:     validation.ErrFileTooLarge,
		}
	}
	return data, nil
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

// nameFromPath returns the base name of path without compression and
// TextGrid extensions.
func nameFromPath(path string) string {
	base := filepath.Base(path)
	if ext := strings.ToLower(filepath.Ext(base)); ext == ".xz" || ext == ".gz" {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return textgrid.DefaultName
	}
	return base
}
