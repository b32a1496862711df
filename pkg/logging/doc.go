// Package logging defines the Logger contract used across the module and
// builds go-logger instances for the CLI.
package logging
