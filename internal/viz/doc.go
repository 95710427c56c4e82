// Package viz provides a terminal live view of a running stepper.
//
// [Model] is a Bubble Tea model that advances an [ode.Stepper] a few steps
// per frame and plots the recent history of each state component.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	[ ]   - Time travel (rewind/forward) through recorded steps
//	?     - Show help
//	Q     - Quit
package viz
