// Package orchestrator wires the form pipeline: an OpenAPI operation (loaded
// and parsed) or a registered definition is replayed against a builder using
// the selected theme's chrome, then rendered.
//
// Operations pass through any registered Transformer before they are mapped
// onto controls, so presets can relabel or hide properties without touching
// the OpenAPI document.
package orchestrator
