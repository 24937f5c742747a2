package model

// ReferenceDocument is the fetched corpus text for a topic.
// Created once at verifier construction and never mutated afterward.
type ReferenceDocument struct {
	Title   string `json:"title"`   // Resolved page title
	Content string `json:"content"` // Raw plain-text body
}

// Chunk is an ordered passage of reference document text.
// Seq ids are dense and match insertion order within a topic namespace.
type Chunk struct {
	Seq  int    `json:"seq"`  // Stable position id, unique within a namespace
	Text string `json:"text"` // Non-empty, non-heading passage text
}
