package document

import "fmt"

const (
	contentTypesPart = "[Content_Types].xml"
	wordDocumentPart = "word/document.xml"

	wordMLNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// Docx is an open Word document. One block per paragraph, main
// document part only; a paragraph's text is the concatenation of its
// text runs.
type Docx struct {
	entries []zipEntry
	docIdx  int
	paras   []paragraph
	repl    map[int]string
}

// OpenDocx reads and validates the Word document at path.
func OpenDocx(path string) (*Docx, error) {
	entries, err := readContainer(path)
	if err != nil {
		return nil, err
	}

	if findEntry(entries, contentTypesPart) < 0 {
		return nil, fmt.Errorf("invalid docx: missing %s", contentTypesPart)
	}
	docIdx := findEntry(entries, wordDocumentPart)
	if docIdx < 0 {
		return nil, fmt.Errorf("invalid docx: missing %s", wordDocumentPart)
	}

	paras, err := scanPart(entries[docIdx].data, wordMLNamespace, "p", "t")
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", wordDocumentPart, err)
	}

	return &Docx{
		entries: entries,
		docIdx:  docIdx,
		paras:   paras,
		repl:    make(map[int]string),
	}, nil
}

// BlockTexts returns one entry per paragraph, in document order.
func (d *Docx) BlockTexts() []string {
	texts := make([]string, len(d.paras))
	for i, p := range d.paras {
		texts[i] = p.text()
	}
	return texts
}

// SetBlockText records a replacement for paragraph ref. The change is
// applied when the document is saved.
func (d *Docx) SetBlockText(ref int, text string) error {
	if ref < 0 || ref >= len(d.paras) {
		return fmt.Errorf("block %d out of range (document has %d)", ref, len(d.paras))
	}
	if len(d.paras[ref].runs) == 0 {
		return fmt.Errorf("block %d has no text runs", ref)
	}
	d.repl[ref] = text
	return nil
}

// Save writes the document to path. Entries other than the main
// document part are copied through byte for byte.
func (d *Docx) Save(path string) error {
	out := make([]zipEntry, len(d.entries))
	copy(out, d.entries)

	if len(d.repl) > 0 {
		rewritten, err := rewritePart(d.entries[d.docIdx].data, d.paras, d.repl)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", wordDocumentPart, err)
		}
		out[d.docIdx] = zipEntry{name: wordDocumentPart, data: rewritten}
	}

	return writeContainer(path, out)
}
