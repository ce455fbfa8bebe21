// Package openapi exposes the loader and parser contracts used to turn OpenAPI
// operations into forms. Implementations live under internal/openapi so the
// kin-openapi types stay out of the public API; construct them with
// formbuilder.NewLoader and formbuilder.NewParser. BuildForm maps an
// operation's request body onto a builder.Builder.
package openapi
