// Package builder assembles Bootstrap styled form markup one element at a
// time. Each Add* call renders a single fragment (input, textarea, button,
// CSRF field) and stores it under the field name; Elements returns the
// fragments in the order their keys were first added.
//
// Fragments are built as golang.org/x/net/html node trees, so attribute values
// and text are escaped when rendered. Labels and button captions may carry
// inline markup (icons, emphasis); that markup is passed through a bluemonday
// policy instead of being escaped.
//
// A Builder is meant for a single render pass and is not safe for concurrent
// use.
package builder
