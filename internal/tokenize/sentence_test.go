package tokenize

import (
	"reflect"
	"testing"
)

func TestSentenceSplitter_Segment(t *testing.T) {
	splitter := NewSentenceSplitter()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: nil,
		},
		{
			name: "single sentence",
			text: "Apple is a technology company.",
			want: []string{"Apple is a technology company."},
		},
		{
			name: "two sentences",
			text: "Apple is the largest technology company by revenue. It was founded in 1976.",
			want: []string{
				"Apple is the largest technology company by revenue.",
				"It was founded in 1976.",
			},
		},
		{
			name: "corporate abbreviation is not a boundary",
			text: "Apple Inc. is an American multinational corporation. It is headquartered in Cupertino.",
			want: []string{
				"Apple Inc. is an American multinational corporation.",
				"It is headquartered in Cupertino.",
			},
		},
		{
			name: "honorific and initial",
			text: "Mr. Smith met J. Doe. They talked.",
			want: []string{
				"Mr. Smith met J. Doe.",
				"They talked.",
			},
		},
		{
			name: "question and exclamation terminators",
			text: "Is it supported? No! It is not.",
			want: []string{"Is it supported?", "No!", "It is not."},
		},
		{
			name: "no trailing terminator",
			text: "First sentence. Second without a period",
			want: []string{"First sentence.", "Second without a period"},
		},
		{
			name: "newlines treated as spaces",
			text: "First line.\nSecond line.",
			want: []string{"First line.", "Second line."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitter.Segment(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentenceSplitter_PreservesOrder(t *testing.T) {
	splitter := NewSentenceSplitter()

	got := splitter.Segment("One. Two. Three. Four.")
	want := []string{"One.", "Two.", "Three.", "Four."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Segment order = %v, want %v", got, want)
	}
}
