package pipeline

import (
	"context"
	"time"

	"doc-translator/internal/textutil"
	"doc-translator/internal/translation"
	"doc-translator/internal/worker"

	"github.com/rs/zerolog/log"
)

// ChunkResult is the outcome of translating one chunk. Texts always
// holds one entry per block of the source chunk: when the chunk
// failed, the entries are the original source texts and Degraded is
// set. A mismatched response is a detectable state, never a crash.
type ChunkResult struct {
	Chunk    int
	Texts    []string
	Degraded bool
}

// Dispatcher translates chunks through a backend, one request per
// chunk, with bounded concurrency and a per-request timeout.
type Dispatcher struct {
	backend translation.Backend
	workers int
	timeout time.Duration
}

// NewDispatcher creates a dispatcher running at most workers requests
// concurrently, each bounded by timeout.
func NewDispatcher(backend translation.Backend, workers int, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		backend: backend,
		workers: workers,
		timeout: timeout,
	}
}

// DispatchAll translates every chunk and returns one result per
// chunk, in chunk order. Failed chunks degrade to their source texts;
// a single chunk's failure never aborts the run.
func (d *Dispatcher) DispatchAll(ctx context.Context, chunks []Chunk, sourceLang, targetLang string) []ChunkResult {
	type job struct {
		idx   int
		chunk Chunk
	}

	pool := worker.NewPool[job, ChunkResult](d.workers,
		func(ctx context.Context, j job) (ChunkResult, error) {
			return d.dispatch(ctx, j.idx, j.chunk, sourceLang, targetLang), nil
		},
	)

	jobs := make([]job, len(chunks))
	for i, c := range chunks {
		jobs[i] = job{idx: i, chunk: c}
	}

	tasks := pool.Execute(ctx, jobs)

	results := make([]ChunkResult, len(tasks))
	for i, t := range tasks {
		if t.Err != nil {
			// Cancelled before the chunk was picked up.
			log.Warn().Err(t.Err).Int("chunk", i).Msg("Chunk not translated, keeping source text")
			results[i] = ChunkResult{Chunk: i, Texts: sourceTexts(chunks[i]), Degraded: true}
			continue
		}
		results[i] = t.Result
	}
	return results
}

// dispatch translates a single chunk, falling back to the source texts
// on any backend or protocol failure.
func (d *Dispatcher) dispatch(ctx context.Context, idx int, chunk Chunk, sourceLang, targetLang string) ChunkResult {
	texts := sourceTexts(chunk)

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	log.Debug().Int("chunk", idx).Int("blocks", len(texts)).Int("size", chunk.Size).Msg("Dispatching chunk")

	payload := translation.JoinBlocks(texts)
	response, err := d.backend.TranslateText(ctx, payload, sourceLang, targetLang)
	if err != nil {
		log.Warn().Err(err).Int("chunk", idx).Int("blocks", len(texts)).Msg("Chunk translation failed, keeping source text")
		return ChunkResult{Chunk: idx, Texts: texts, Degraded: true}
	}

	segments, err := translation.SplitSegments(response, len(texts))
	if err != nil {
		log.Warn().Err(err).Int("chunk", idx).Str("response", textutil.Truncate(response, 80)).Msg("Chunk translation failed, keeping source text")
		return ChunkResult{Chunk: idx, Texts: texts, Degraded: true}
	}

	for i, s := range segments {
		if s == "" {
			segments[i] = texts[i] // fallback to original if the model returned an empty segment
		}
	}

	return ChunkResult{Chunk: idx, Texts: segments}
}

func sourceTexts(chunk Chunk) []string {
	texts := make([]string, len(chunk.Blocks))
	for i, b := range chunk.Blocks {
		texts[i] = b.Text
	}
	return texts
}
