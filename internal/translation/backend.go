// Package translation provides the LLM backend used to translate chunk
// payloads, and the delimiter protocol that packs block texts into a
// single request and unpacks the response.
package translation

import "context"

// Backend translates one payload between two languages. Language codes
// are passed through to the model as instruction content; the pipeline
// performs no validation on them. Failures surface as errors so callers
// can fall back per chunk.
type Backend interface {
	TranslateText(ctx context.Context, payload, sourceLang, targetLang string) (string, error)
}
