package upstream

import "fmt"

// FetchError wraps a failed read from the upstream API. Views degrade
// to an empty collection on fetch failures instead of surfacing them,
// so the error mainly feeds the log.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("upstream fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SubmissionError wraps a failed write to the upstream API. Writes are
// never retried automatically; the message is surfaced to the user who
// may re-attempt manually.
type SubmissionError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("upstream %s: %v", e.Op, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
