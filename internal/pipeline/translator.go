// Package pipeline implements the chunked translation pipeline:
// extract ordered text blocks from a document, group them into
// size-bounded chunks, translate the chunks concurrently, and write
// the results back into the original block positions.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"doc-translator/internal/document"
	"doc-translator/internal/translation"

	"github.com/rs/zerolog/log"
)

// Stats summarizes one translation run.
type Stats struct {
	Blocks         int
	Chunks         int
	DegradedChunks int
}

// Translator drives a document through the pipeline. The format
// specifics stay behind the document interface; everything here is
// shared by all formats.
type Translator struct {
	backend translation.Backend
	budget  int
	workers int
	timeout time.Duration
}

// NewTranslator creates a translator with the given chunk token
// budget, concurrency limit and per-request timeout. Non-positive
// values fall back to safe defaults.
func NewTranslator(backend translation.Backend, budget, workers int, timeout time.Duration) *Translator {
	if budget < 1 {
		budget = 1000
	}
	if workers < 1 {
		workers = 1
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Translator{
		backend: backend,
		budget:  budget,
		workers: workers,
		timeout: timeout,
	}
}

// Translate translates the document's text in place from sourceLang to
// targetLang. The document is only mutated during reassembly, after
// every chunk has settled; a chunk that failed keeps its source text.
func (t *Translator) Translate(ctx context.Context, doc document.Document, sourceLang, targetLang string) (Stats, error) {
	blocks := ExtractBlocks(doc)
	if len(blocks) == 0 {
		log.Warn().Msg("Document has no translatable text")
		return Stats{}, nil
	}

	chunks := BuildChunks(blocks, t.budget)

	log.Info().
		Int("blocks", len(blocks)).
		Int("chunks", len(chunks)).
		Str("source", sourceLang).
		Str("target", targetLang).
		Msg("Translation plan")

	dispatcher := NewDispatcher(t.backend, t.workers, t.timeout)
	results := dispatcher.DispatchAll(ctx, chunks, sourceLang, targetLang)

	if err := Reassemble(doc, blocks, results); err != nil {
		return Stats{}, fmt.Errorf("reassemble document: %w", err)
	}

	stats := Stats{Blocks: len(blocks), Chunks: len(chunks)}
	for _, r := range results {
		if r.Degraded {
			stats.DegradedChunks++
		}
	}
	return stats, nil
}

// TranslateFile opens the document at inputPath, translates it and
// saves the result to outputPath. A document with nothing to translate
// is still saved, unchanged. A cancelled run returns without writing
// any output.
func (t *Translator) TranslateFile(ctx context.Context, inputPath, outputPath, sourceLang, targetLang string) (Stats, error) {
	doc, err := document.Open(inputPath)
	if err != nil {
		return Stats{}, fmt.Errorf("open %s: %w", inputPath, err)
	}

	stats, err := t.Translate(ctx, doc, sourceLang, targetLang)
	if err != nil {
		return stats, err
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if err := doc.Save(outputPath); err != nil {
		return stats, fmt.Errorf("save %s: %w", outputPath, err)
	}
	return stats, nil
}
