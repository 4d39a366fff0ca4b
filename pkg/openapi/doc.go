// Package openapi imports form definitions from OpenAPI 3 documents: each
// operation's request body schema becomes a field list plus named rules.
package openapi
