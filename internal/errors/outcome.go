package errors

// OutcomeKind distinguishes how a unit of work ended.
type OutcomeKind int

const (
	// Success means the unit of work completed.
	Success OutcomeKind = iota
	// Skipped means the unit was dropped and the job continues.
	Skipped
	// Fatal means the job must stop.
	Fatal
)

// String returns the lowercase kind name, used as a log and metric label.
func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case Skipped:
		return "skipped"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Outcome is the result of a best-effort step. Callers count skips from it
// instead of scraping logs.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Err    error
}

// Succeeded returns a Success outcome.
func Succeeded() Outcome {
	return Outcome{Kind: Success}
}

// Skip returns a Skipped outcome. The reason is taken from the error code
// when err is a PulseError and reason is empty.
func Skip(reason string, err error) Outcome {
	if reason == "" {
		reason = GetCode(err)
	}
	return Outcome{Kind: Skipped, Reason: reason, Err: err}
}

// Abort returns a Fatal outcome.
func Abort(err error) Outcome {
	return Outcome{Kind: Fatal, Reason: GetCode(err), Err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Kind == Success
}
