// Package storage persists form definitions and submissions through a
// key-value Store. Keys follow a fixed layout: form_<id> for definitions,
// form_list for the index and submissions_<id> for submission arrays.
//
// The bolt and sqlite subpackages provide durable Store implementations.
package storage
