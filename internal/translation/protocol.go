package translation

import (
	"errors"
	"fmt"
	"strings"
)

// Delimiter separates block texts inside a chunk payload. Chosen to be
// unlikely in natural document text; occurrences inside source text are
// masked before the payload is assembled so document content can never
// forge a segment boundary.
const Delimiter = "|||"

// delimiterMask stands in for literal delimiter occurrences in source
// text for the duration of one round trip.
const delimiterMask = "‖‖‖"

// ErrDelimiterMismatch reports that a translated payload did not
// contain the expected number of delimited segments.
var ErrDelimiterMismatch = errors.New("segment count mismatch in translated payload")

// JoinBlocks packs block texts into a single payload, one segment per
// block, with the delimiter on its own line between segments.
func JoinBlocks(texts []string) string {
	masked := make([]string, len(texts))
	for i, t := range texts {
		masked[i] = strings.ReplaceAll(t, Delimiter, delimiterMask)
	}
	return strings.Join(masked, "\n"+Delimiter+"\n")
}

// SplitSegments parses a translated payload back into per-block texts,
// trimming surrounding whitespace and unmasking delimiter occurrences.
// Returns ErrDelimiterMismatch when the segment count differs from
// want; the caller is expected to fall back to the source texts.
func SplitSegments(payload string, want int) ([]string, error) {
	parts := strings.Split(payload, Delimiter)
	if len(parts) != want {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDelimiterMismatch, len(parts), want)
	}

	segments := make([]string, len(parts))
	for i, p := range parts {
		segments[i] = strings.ReplaceAll(strings.TrimSpace(p), delimiterMask, Delimiter)
	}
	return segments, nil
}
