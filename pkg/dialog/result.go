package dialog

import "github.com/aretw0/careerbot/pkg/domain"

// Status tells the Engine what to do after a dialog step.
type Status int

const (
	// StatusWaiting suspends the current frame until the next utterance.
	StatusWaiting Status = iota
	// StatusBegin pushes Result.Child started with Result.Payload.
	StatusBegin
	// StatusReplace restarts the current dialog with Result.Payload.
	StatusReplace
	// StatusEnd pops the current frame and resumes its parent with Result.Payload.
	StatusEnd
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusBegin:
		return "begin"
	case StatusReplace:
		return "replace"
	case StatusEnd:
		return "end"
	}
	return "unknown"
}

// Payload carries the typed value a dialog is started or resumed with.
// Each dialog reads only the field it understands.
type Payload struct {
	Entry    domain.MenuEntry
	Seed     domain.CategorySeed
	Handback domain.Handback
}

// Result is the outcome of a dialog step.
type Result struct {
	Status  Status
	Child   domain.DialogID
	Payload Payload
}

func wait() (Result, error) {
	return Result{Status: StatusWaiting}, nil
}

func begin(child domain.DialogID, p Payload) (Result, error) {
	return Result{Status: StatusBegin, Child: child, Payload: p}, nil
}

func replace(p Payload) (Result, error) {
	return Result{Status: StatusReplace, Payload: p}, nil
}

func end(h domain.Handback) (Result, error) {
	return Result{Status: StatusEnd, Payload: Payload{Handback: h}}, nil
}
