package action

// Status tags the outcome of an action execution.
type Status string

const (
	StatusDone   Status = "done"   // Completed successfully
	StatusFailed Status = "failed" // Did not complete
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result contains the outcome of an action execution.
type Result struct {
	// Status is Done or Failed.
	Status Status `json:"status"`

	// Message is a human-readable explanation of the outcome.
	Message string `json:"message"`

	// Err is the underlying failure, if any.
	Err error `json:"-"`
}

// Done creates a successful result.
func Done(message string) Result {
	return Result{Status: StatusDone, Message: message}
}

// Failed creates a failed result.
func Failed(message string) Result {
	return Result{Status: StatusFailed, Message: message}
}

// WithErr attaches the underlying error to the result.
func (r Result) WithErr(err error) Result {
	r.Err = err
	return r
}

// IsDone returns true if the action completed successfully.
func (r Result) IsDone() bool {
	return r.Status == StatusDone
}

// IsFailed returns true if the action failed.
func (r Result) IsFailed() bool {
	return r.Status == StatusFailed
}
