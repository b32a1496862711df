// Package tui fills forms interactively in a terminal. Prompts go through a
// PromptDriver so the fill loop can run against a scripted driver in tests.
package tui
