// Package chunker splits document text into bounded passages for
// embedding and storage. Chunk boundaries respect sentences where
// possible so a retrieved clause reads as a coherent statement.
package chunker

import (
	"regexp"
	"strings"
)

// sentencePattern captures a run of text up to and including its
// terminal punctuation. Trailing text without punctuation is matched
// as a final sentence.
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// Split breaks text into passages of at most maxSize characters.
// Sentences are packed greedily; a sentence that alone exceeds maxSize
// is split on word boundaries, and a single word longer than maxSize
// becomes a chunk of its own. Whitespace is normalized to single
// spaces, so joining the result with spaces reproduces the input's
// word sequence. Empty or whitespace-only input yields nil.
func Split(text string, maxSize int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxSize <= 0 {
		return []string{strings.Join(strings.Fields(text), " ")}
	}

	var chunks []string
	var current string

	flush := func() {
		if current != "" {
			chunks = append(chunks, current)
			current = ""
		}
	}

	for _, raw := range sentencePattern.FindAllString(text, -1) {
		sentence := strings.Join(strings.Fields(raw), " ")
		if sentence == "" {
			continue
		}

		if len(sentence) > maxSize {
			flush()
			chunks = append(chunks, splitWords(sentence, maxSize)...)
			continue
		}

		if current == "" {
			current = sentence
		} else if len(current)+1+len(sentence) <= maxSize {
			current += " " + sentence
		} else {
			flush()
			current = sentence
		}
	}
	flush()

	return chunks
}

// splitWords packs words of an oversized sentence into chunks of at
// most maxSize characters. A word longer than maxSize overflows into
// its own chunk rather than being truncated.
func splitWords(sentence string, maxSize int) []string {
	var chunks []string
	var current string

	for _, word := range strings.Fields(sentence) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= maxSize:
			current += " " + word
		default:
			chunks = append(chunks, current)
			current = word
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
