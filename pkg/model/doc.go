// Package model defines the form definition aggregate: typed fields, ordered
// steps and the settings that control multi-step navigation. Step membership
// lives on Step.Fields and references Field.ID; CheckInvariants reports any
// definition where a step names an unknown field, a field belongs to two steps
// or, in multi-step mode, a field belongs to no step.
//
// Answers are carried as Value, a tagged variant that is absent, a string or a
// boolean depending on the field type, so validation can switch on the kind
// instead of coercing loosely typed input.
//
// Structural failures are go-errors values with the ErrCode* text codes; use
// HasCode to test for them.
package model
