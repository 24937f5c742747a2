package corpus

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplit_Empty(t *testing.T) {
	if chunks := Split(""); len(chunks) != 0 {
		t.Errorf("Expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := Split("\n\n   \n"); len(chunks) != 0 {
		t.Errorf("Expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestSplit_DropsHeadings(t *testing.T) {
	text := "== History ==\nApple was founded in 1976. It started in a garage.\n=== Early years ===\nThe company grew fast. Sales doubled yearly."

	chunks := Split(text)
	for _, chunk := range chunks {
		if strings.HasPrefix(chunk.Text, "==") {
			t.Errorf("Chunk begins with heading marker: %q", chunk.Text)
		}
	}
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
}

func TestSplit_CoalescesSingleSentenceLines(t *testing.T) {
	text := "Apple Inc.\nAn American company\nIt designs hardware and software. It also sells services online.\nFounded in 1976"

	chunks := Split(text)
	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}

	// Leading single-sentence lines join into one paragraph
	if chunks[0].Text != "Apple Inc. An American company" {
		t.Errorf("Unexpected first chunk: %q", chunks[0].Text)
	}

	// A multi-sentence line starts a new chunk that absorbs following
	// single-sentence lines
	want := "It designs hardware and software. It also sells services online. Founded in 1976"
	if chunks[1].Text != want {
		t.Errorf("Unexpected second chunk: %q", chunks[1].Text)
	}
}

func TestSplit_SequenceIDsAreDense(t *testing.T) {
	text := "First paragraph here. It has sentences.\n\nSecond paragraph too. Also sentences.\n\nThird one follows. More text."

	chunks := Split(text)
	for i, chunk := range chunks {
		if chunk.Seq != i {
			t.Errorf("Chunk %d has seq %d", i, chunk.Seq)
		}
	}
}

func TestSplit_NoEmptyChunks(t *testing.T) {
	text := "   \nSome text here. More text there.\n== Section ==\n   \n"

	for _, chunk := range Split(text) {
		if strings.TrimSpace(chunk.Text) == "" {
			t.Error("Emitted an empty chunk")
		}
		if chunk.Text != strings.TrimSpace(chunk.Text) {
			t.Errorf("Chunk not trimmed: %q", chunk.Text)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := "Apple Inc. is an American company. It is headquartered in Cupertino.\nShort line\nAnother short line\nIt was founded in 1976. The founders were three."

	first := Split(text)
	for i := 0; i < 5; i++ {
		if got := Split(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Run %d differs: %+v vs %+v", i, got, first)
		}
	}
}
