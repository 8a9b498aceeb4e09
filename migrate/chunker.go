package migrate

import "strings"

// DefaultChunkThreshold is the text length above which a document gets
// chunked before indexing.
const DefaultChunkThreshold = 2000

// DefaultChunkTarget is the length each chunk aims for.
const DefaultChunkTarget = 1500

// ChunkText splits text into pieces that aim at targetLength characters
// without breaking inside a sentence when a paragraph boundary is
// available. Paragraphs are accumulated until the next one would push the
// buffer past the target; a document with no paragraph breaks whose single
// chunk still exceeds twice the target is re-split at sentence boundaries
// with the same accumulation rule.
//
// Chunks come back trimmed, non-empty, and in document order, so joining
// them reconstructs the source modulo boundary whitespace. Whitespace-only
// input produces no chunks.
func ChunkText(text string, targetLength int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if targetLength <= 0 {
		targetLength = DefaultChunkTarget
	}

	chunks := accumulateParts(splitParagraphs(trimmed), "\n\n", targetLength)

	// One oversized chunk means the text had no usable paragraph breaks.
	if len(chunks) == 1 && len(chunks[0]) > 2*targetLength {
		chunks = accumulateParts(splitSentences(trimmed), " ", targetLength)
	}

	return chunks
}

// accumulateParts packs parts into chunks, flushing the buffer whenever
// the next part would push a non-empty buffer past targetLength. A single
// part longer than the target becomes its own chunk.
func accumulateParts(parts []string, sep string, targetLength int) []string {
	var chunks []string
	var buf strings.Builder

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if buf.Len() > 0 && buf.Len()+len(sep)+len(part) > targetLength {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteString(sep)
		}
		buf.WriteString(part)
	}

	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}

// splitParagraphs breaks text at blank-line boundaries.
func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range strings.Split(normalized, "\n\n") {
		if strings.TrimSpace(block) != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}

// splitSentences breaks text after a sentence terminator followed by
// whitespace. The trailing fragment is kept even without a terminator.
func splitSentences(text string) []string {
	var sentences []string
	start := 0

	for i := 0; i < len(text)-1; i++ {
		if !isSentenceEnd(text[i]) {
			continue
		}
		if text[i+1] != ' ' && text[i+1] != '\n' && text[i+1] != '\t' {
			continue
		}
		sentence := strings.TrimSpace(text[start : i+1])
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSentenceEnd(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
