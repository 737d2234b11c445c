package praat

import "github.com/FocuswithJustin/textgrid/core/textgrid"

// Parse decodes the document held by src. Advisory conditions go to sink,
// which may be nil.
func Parse(src Source, sink textgrid.Sink) (*textgrid.Document, error) {
	lines, err := src.Lines()
	if err != nil {
		return nil, err
	}
	return Decode(lines, src.Name(), sink)
}

// ParseString decodes s, which is either a path to an existing file or
// the document text itself.
func ParseString(s string, sink textgrid.Sink) (*textgrid.Document, error) {
	return Parse(FromString(s), sink)
}

// ParseFile decodes the file at path.
func ParseFile(path string, sink textgrid.Sink) (*textgrid.Document, error) {
	return Parse(FromPath(path), sink)
}
