package forms

// State is a step of the form submit lifecycle:
// Idle → Validating → Invalid | Submitting → Success | Failed.
// Invalid, Success and Failed return the form to Idle once rendered.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateSubmitting
	StateSuccess
	StateFailed
)

var stateNames = [...]string{"idle", "validating", "invalid", "submitting", "success", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether s ends a submission.
func (s State) IsTerminal() bool {
	return s == StateInvalid || s == StateSuccess || s == StateFailed
}

// Outcome is the result of one submission.
// FieldErrors is set for Invalid, Err for Failed and Record for Success.
type Outcome[T any] struct {
	State       State
	FieldErrors FieldErrors
	Err         error
	Record      T
	// Notice is the toast shown after Success.
	Notice Notice
}

// Notice is a transient notification ("toast").
type Notice struct {
	Title       string
	Description string
	Error       bool
}

// Invalid returns an Invalid outcome carrying errs.
func Invalid[T any](errs FieldErrors) Outcome[T] {
	return Outcome[T]{State: StateInvalid, FieldErrors: errs}
}

// Failed returns a Failed outcome whose notice shows err verbatim.
func Failed[T any](title string, err error) Outcome[T] {
	return Outcome[T]{
		State:  StateFailed,
		Err:    err,
		Notice: Notice{Title: title, Description: err.Error(), Error: true},
	}
}

// Succeeded returns a Success outcome for record.
func Succeeded[T any](record T, title, description string) Outcome[T] {
	return Outcome[T]{
		State:  StateSuccess,
		Record: record,
		Notice: Notice{Title: title, Description: description},
	}
}
