package translation

import (
	"errors"
	"strings"
	"testing"
)

func TestJoinBlocksSplitSegmentsRoundTrip(t *testing.T) {
	texts := []string{"Hola", "¿Cómo estás?", "Adiós"}

	payload := JoinBlocks(texts)
	segments, err := SplitSegments(payload, len(texts))
	if err != nil {
		t.Fatalf("SplitSegments: %v", err)
	}

	for i, want := range texts {
		if segments[i] != want {
			t.Errorf("segment %d = %q, want %q", i, segments[i], want)
		}
	}
}

func TestJoinBlocksMasksDelimiter(t *testing.T) {
	texts := []string{"a ||| b", "c"}

	payload := JoinBlocks(texts)

	if got := strings.Count(payload, Delimiter); got != 1 {
		t.Fatalf("payload contains %d delimiters, want 1", got)
	}

	segments, err := SplitSegments(payload, 2)
	if err != nil {
		t.Fatalf("SplitSegments: %v", err)
	}
	if segments[0] != "a ||| b" {
		t.Errorf("segment 0 = %q, want %q", segments[0], "a ||| b")
	}
	if segments[1] != "c" {
		t.Errorf("segment 1 = %q, want %q", segments[1], "c")
	}
}

func TestSplitSegmentsCountMismatch(t *testing.T) {
	_, err := SplitSegments("one ||| two", 3)
	if !errors.Is(err, ErrDelimiterMismatch) {
		t.Fatalf("err = %v, want ErrDelimiterMismatch", err)
	}
}

func TestSplitSegmentsTrimsWhitespace(t *testing.T) {
	segments, err := SplitSegments("  one  |||\n two \n", 2)
	if err != nil {
		t.Fatalf("SplitSegments: %v", err)
	}
	if segments[0] != "one" || segments[1] != "two" {
		t.Errorf("segments = %q, want [one two]", segments)
	}
}

func TestSplitSegmentsSingleBlock(t *testing.T) {
	segments, err := SplitSegments("only", 1)
	if err != nil {
		t.Fatalf("SplitSegments: %v", err)
	}
	if segments[0] != "only" {
		t.Errorf("segment 0 = %q, want only", segments[0])
	}
}
