package pio

import "errors"

// ErrStateMachineBusy is returned by Init when the state machine already
// has an owner
var ErrStateMachineBusy = errors.New("pio: state machine already claimed")

type claimer interface {
	TryClaim() bool
}

func claim(sm claimer) error {
	if !sm.TryClaim() {
		return ErrStateMachineBusy
	}
	return nil
}
