// Package document reads and writes the text content of office
// documents (docx, pptx) while leaving every other byte of the
// container untouched.
//
// A document exposes its translatable text as a flat, stable block
// table in reading order. Blocks are addressed by index; replacing a
// block's text touches only the text runs of that block, never the
// surrounding structure or formatting.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat reports a file extension no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is an open office document. Block indexes are stable for
// the lifetime of the handle; SetBlockText changes the in-memory copy
// only, until Save writes the full container.
type Document interface {
	// BlockTexts returns the document's text blocks in reading order,
	// one entry per text location, including empty ones.
	BlockTexts() []string
	// SetBlockText replaces the text of block ref, preserving the
	// block's formatting and all surrounding content.
	SetBlockText(ref int, text string) error
	// Save writes the document, including replaced text, to path.
	Save(path string) error
}

// Open reads the document at path, choosing the reader by extension.
func Open(path string) (Document, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return OpenDocx(path)
	case ".pptx":
		return OpenPptx(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}
