package corpus

import (
	"strings"

	"github.com/ppiankov/provenance/internal/model"
)

// Split turns reference document text into ordered retrievable chunks.
//
// Lines are the unit of input: heading lines (level 2 and deeper, the
// "==" markers of plain-text wiki extracts) and blank lines are
// dropped, and consecutive single-sentence lines are coalesced into one
// paragraph chunk. A line holding two or more sentences flushes any
// running paragraph and starts a new chunk. The period-count
// test is a heuristic, not sentence detection; it approximates
// paragraph boundaries in markup that mixes list-like lines with full
// paragraphs.
//
// Split is pure and deterministic. Empty input yields no chunks.
func Split(text string) []model.Chunk {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "==") {
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	var chunks []model.Chunk
	var paragraph string

	emit := func(text string) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		chunks = append(chunks, model.Chunk{Seq: len(chunks), Text: text})
	}

	for _, line := range lines {
		if strings.Count(line, ".") <= 1 {
			paragraph += " " + line
			continue
		}
		emit(paragraph)
		paragraph = line
	}
	emit(paragraph)

	return chunks
}
