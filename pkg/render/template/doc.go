// Package template defines the engine seam used to wrap assembled form
// elements in a document. The gotemplate subpackage provides the pongo2
// implementation.
package template
