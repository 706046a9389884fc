package pipeline

import (
	"doc-translator/internal/document"
	"doc-translator/internal/textutil"
)

// Block is one translatable unit extracted from a document. Ref is the
// opaque container reference back into the owning document's block
// table; it is only dereferenced at reassembly time. Blocks are
// immutable once extracted and do not outlive one translation run.
type Block struct {
	Ref  int
	Text string
}

// ExtractBlocks walks the document's text locations in reading order
// and yields one block per non-blank location. Blank locations carry
// nothing to translate and are skipped, but they keep their container
// index, so writes still land exactly where the text came from.
func ExtractBlocks(doc document.Document) []Block {
	texts := doc.BlockTexts()

	blocks := make([]Block, 0, len(texts))
	for i, t := range texts {
		if textutil.Blank(t) {
			continue
		}
		blocks = append(blocks, Block{Ref: i, Text: t})
	}
	return blocks
}
