package model

import "time"

// Report is the complete record of one verification run
type Report struct {
	Topic      string    `json:"topic"`       // Subject the corpus was fetched for
	PageTitle  string    `json:"page_title"`  // Resolved reference page title
	Namespace  string    `json:"namespace"`   // Index namespace derived from the topic
	Method     string    `json:"method"`      // "sentence" or "full"
	VerifiedAt time.Time `json:"verified_at"` // When the verification ran

	Claim   string  `json:"claim"`   // The response that was checked
	Outcome Outcome `json:"outcome"` // Pass/fail with explanation and fix

	Warnings []string `json:"warnings,omitempty"` // Non-fatal resolution warnings

	Judge JudgeInfo `json:"judge"` // Which backend decided entailment
}

// JudgeInfo identifies the entailment backend used for a run
type JudgeInfo struct {
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}
