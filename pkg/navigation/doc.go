// Package navigation runs a fill session over a form definition.
//
// A session moves through Filling(0) ... Filling(n-1) and finally Submitted.
// Next and Submit gate on validation of the current step; Previous never
// validates. Illegal events return ErrInvalidTransition and leave the
// session untouched. Snapshot and Resume let a partially completed
// multi-step fill continue later, re-checking every step the user already
// passed.
package navigation
