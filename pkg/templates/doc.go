// Package templates ships the built-in form templates and parses custom
// template documents.
package templates
