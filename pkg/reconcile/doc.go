// Package reconcile owns every mutation a builder can apply to a form
// definition. Each operation validates its references before touching the
// definition, so a failure returns a go-errors value (INVALID_REFERENCE,
// NOT_FOUND, INVALID_FIELD) and leaves the definition unchanged. Successful
// operations stamp UpdatedAt.
//
// The form's field order and each step's field order are independent:
// ReorderField moves a field on the canvas, ReorderStepField moves it inside
// its step, and neither infers the other.
package reconcile
