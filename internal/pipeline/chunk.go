package pipeline

// Chunk is an ordered group of blocks batched into one translation
// request. Size is the chunk's estimated token count.
type Chunk struct {
	Blocks []Block
	Size   int
}

// EstimateTokens approximates the token count of a text as length/4.
// A size heuristic, not a tokenizer; every block counts at least one.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// BuildChunks groups blocks into chunks whose estimated size stays
// within budget. Block order and boundaries are preserved: blocks are
// never split or reordered, and concatenating the chunks reproduces
// the input sequence exactly. A block that alone exceeds the budget
// becomes its own one-block chunk.
func BuildChunks(blocks []Block, budget int) []Chunk {
	if budget < 1 {
		budget = 1
	}

	var chunks []Chunk
	var cur Chunk
	for _, b := range blocks {
		size := EstimateTokens(b.Text)
		if len(cur.Blocks) > 0 && cur.Size+size > budget {
			chunks = append(chunks, cur)
			cur = Chunk{}
		}
		cur.Blocks = append(cur.Blocks, b)
		cur.Size += size
	}
	if len(cur.Blocks) > 0 {
		chunks = append(chunks, cur)
	}
	return chunks
}
