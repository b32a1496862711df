// Package builder is the editing surface over the reconciliation engine. A
// Session holds the form being authored, translates drag-and-drop events into
// engine operations, strips markup from display strings and saves through a
// Repository.
package builder
