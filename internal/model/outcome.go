package model

// Outcome is the aggregate result of one validate call.
// A failed Outcome means the claim is unsupported by the corpus; it is
// never used for infrastructure failures, which surface as Go errors.
type Outcome struct {
	Passed       bool                   `json:"passed"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`      // Caller metadata, passed through unchanged
	ErrorMessage string                 `json:"error_message,omitempty"` // Human-readable reason on failure
	FixValue     string                 `json:"fix_value,omitempty"`     // Corrected value built from supported content
}

// Pass builds a passing outcome
func Pass(metadata map[string]interface{}) Outcome {
	return Outcome{Passed: true, Metadata: metadata}
}

// Fail builds a failing outcome with an explanation and a best-effort fix
func Fail(metadata map[string]interface{}, message, fix string) Outcome {
	return Outcome{
		Passed:       false,
		Metadata:     metadata,
		ErrorMessage: message,
		FixValue:     fix,
	}
}
