// Package validation evaluates answers against field rules. It is pure: the
// same field and value always yield the same ErrorKind, and failures are
// returned as data (Result, Issue) rather than errors so callers can render
// them inline. The builder preview and the fill session both call into this
// package, which keeps gating identical in the two contexts.
package validation
