// Package render turns a lookup snapshot into one of five display states.
package render

import "pokesearch/internal/models"

// State is the result region's display state.
type State int

const (
	Idle State = iota
	Loading
	Failed
	NotFound
	Found
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case NotFound:
		return "not_found"
	case Found:
		return "found"
	default:
		return "idle"
	}
}

// MarshalText renders the state as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Resolve picks the display state. The cases are evaluated in order, so
// exactly one state applies for any input.
func Resolve(hasSearch, loading bool, err error, payload *models.Pokemon) State {
	switch {
	case !hasSearch:
		return Idle
	case loading:
		return Loading
	case err != nil:
		return Failed
	case payload == nil:
		return NotFound
	default:
		return Found
	}
}
