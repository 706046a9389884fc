package pipeline

import (
	"fmt"

	"doc-translator/internal/document"
)

// Reassemble writes translated texts back into the document. Results
// are walked in chunk order with a running cursor over the original
// block sequence, so every translated string lands on the container
// reference its source text came from. Only text content changes;
// formatting and structure stay with the document.
func Reassemble(doc document.Document, blocks []Block, results []ChunkResult) error {
	cursor := 0
	for _, res := range results {
		for _, text := range res.Texts {
			if cursor >= len(blocks) {
				return fmt.Errorf("reassembly overflow: more translated texts than blocks (%d)", len(blocks))
			}
			b := blocks[cursor]
			if err := doc.SetBlockText(b.Ref, text); err != nil {
				return fmt.Errorf("write block %d: %w", b.Ref, err)
			}
			cursor++
		}
	}

	if cursor != len(blocks) {
		return fmt.Errorf("reassembly incomplete: wrote %d of %d blocks", cursor, len(blocks))
	}
	return nil
}
