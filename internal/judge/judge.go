package judge

import (
	"context"
	"fmt"
	"strings"
)

// Verdict is the binary entailment decision for one claim
type Verdict int

const (
	// Unsupported means the contexts do not support the claim
	Unsupported Verdict = iota
	// Supported means the contexts support the claim
	Supported
)

func (v Verdict) String() string {
	if v == Supported {
		return "supported"
	}
	return "unsupported"
}

// UnavailableError wraps a backend transport or call failure
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("judge backend unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// MalformedResponseError means the judge answered outside {"yes","no"}.
// The answer is never coerced or defaulted.
type MalformedResponseError struct {
	Answer string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("judge answered %q, expected exactly 'Yes' or 'No'", e.Answer)
}

const promptTemplate = `Instructions:
As an oracle of logic and intelligence, your task is to determine whether the following 'Contexts' support the 'Claim'.
Please answer the question with just a 'Yes' or a 'No'. Any other text is strictly forbidden.
You'll be evaluated based on how well you understand the relationship between the contexts and the claim
and how well you follow the instructions to answer with a 'Yes' or a 'No'.

Claim:
%s

Contexts:
%s

Your Answer:
`

// Prompt builds the entailment prompt: the claim verbatim and the
// contexts joined by newlines
func Prompt(claim string, contexts []string) string {
	return fmt.Sprintf(promptTemplate, claim, strings.Join(contexts, "\n"))
}

// Judge decides entailment by delegating to a text-generation backend
type Judge struct {
	provider Provider
}

// New creates a judge over the given backend
func New(provider Provider) *Judge {
	return &Judge{provider: provider}
}

// Evaluate asks the backend whether the contexts support the claim.
// The answer is trimmed and lowercased; anything other than "yes" or
// "no" is a *MalformedResponseError. Backend failures surface as
// *UnavailableError.
func (j *Judge) Evaluate(ctx context.Context, claim string, contexts []string) (Verdict, error) {
	answer, err := j.provider.Complete(ctx, Prompt(claim, contexts))
	if err != nil {
		return Unsupported, &UnavailableError{Err: err}
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes":
		return Supported, nil
	case "no":
		return Unsupported, nil
	default:
		return Unsupported, &MalformedResponseError{Answer: answer}
	}
}
