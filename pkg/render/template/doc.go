// Package template defines the template engine seam used for page and form
// shells. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
