// Package openapi describes form submissions as OpenAPI schemas using
// kin-openapi, so downstream services can validate stored payloads without
// depending on this module's engines.
package openapi
